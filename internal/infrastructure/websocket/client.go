package websocket

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait 单次写超时
	writeWait = 10 * time.Second
	// pongWait 超过该时间未收到 pong 则断开
	pongWait = 60 * time.Second
	// pingPeriod 必须小于 pongWait
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize 客户端只发送控制帧
	maxMessageSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 本地服务允许所有来源
	},
}

// ServeDiscussion 升级连接并订阅指定讨论的事件，直到连接断开
func (h *Hub) ServeDiscussion(w http.ResponseWriter, r *http.Request, discussionID string) error {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	conn := NewConnection(discussionID)
	h.Register(conn)

	h.logger.Debug("Client connected", "discussion_id", discussionID)

	go h.writePump(ws, conn)
	h.readPump(ws, conn)
	return nil
}

// readPump 读取客户端消息（只用于检测断开和续期）
func (h *Hub) readPump(ws *websocket.Conn, conn *Connection) {
	defer func() {
		h.Unregister(conn)
		ws.Close()
		h.logger.Debug("Client disconnected", "discussion_id", conn.DiscussionID)
	}()

	ws.SetReadLimit(maxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("Connection read error",
					"discussion_id", conn.DiscussionID,
					"error", err,
				)
			}
			return
		}
	}
}

// writePump 发送事件并定时 ping
func (h *Hub) writePump(ws *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		ws.Close()
	}()

	for {
		select {
		case message, ok := <-conn.Send:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub 关闭了发送通道
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
