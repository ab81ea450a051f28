// Package websocket 按讨论推送版本管理事件
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/log"
)

// sendBufferSize 每个连接的发送缓冲
const sendBufferSize = 64

// Hub WebSocket 连接管理中心
type Hub struct {
	// 按讨论 ID 分组的连接
	discussions map[string]map[*Connection]bool
	// 注册连接
	register chan *Connection
	// 注销连接
	unregister chan *Connection
	// 广播消息
	broadcast chan *Message
	// 停止
	done     chan struct{}
	stopOnce sync.Once
	mu       sync.RWMutex
	logger   *slog.Logger
}

// Connection 订阅某个讨论的连接
type Connection struct {
	DiscussionID string
	Send         chan []byte
}

// NewConnection 创建连接
func NewConnection(discussionID string) *Connection {
	return &Connection{
		DiscussionID: discussionID,
		Send:         make(chan []byte, sendBufferSize),
	}
}

// Message 消息
type Message struct {
	DiscussionID string
	Data         []byte
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{
		discussions: make(map[string]map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		broadcast:   make(chan *Message, 256),
		done:        make(chan struct{}),
		logger:      log.NewModuleLogger("websocket", "hub"),
	}
}

// Run 运行 Hub（需要在 goroutine 中运行）
func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.closeAll()
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.discussions[conn.DiscussionID] == nil {
				h.discussions[conn.DiscussionID] = make(map[*Connection]bool)
			}
			h.discussions[conn.DiscussionID][conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(conn)
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.Lock()
			for conn := range h.discussions[msg.DiscussionID] {
				select {
				case conn.Send <- msg.Data:
				default:
					// 慢消费者直接断开
					h.logger.Warn("Send buffer full, dropping connection",
						"discussion_id", msg.DiscussionID,
					)
					h.removeLocked(conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) removeLocked(conn *Connection) {
	group, ok := h.discussions[conn.DiscussionID]
	if !ok {
		return
	}
	if _, ok := group[conn]; !ok {
		return
	}
	delete(group, conn)
	close(conn.Send)
	if len(group) == 0 {
		delete(h.discussions, conn.DiscussionID)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, group := range h.discussions {
		for conn := range group {
			close(conn.Send)
		}
	}
	h.discussions = make(map[string]map[*Connection]bool)
}

// Start 启动 Hub（启动后台 goroutine）
func (h *Hub) Start() {
	go h.Run()
}

// Stop 停止 Hub 并关闭所有连接的发送通道
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Register 注册连接
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.done:
		close(conn.Send)
	}
}

// Unregister 注销连接
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// BroadcastToDiscussion 向订阅指定讨论的连接广播消息
func (h *Hub) BroadcastToDiscussion(discussionID string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- &Message{DiscussionID: discussionID, Data: jsonData}:
	case <-h.done:
	}
	return nil
}

// ConnectionCount 指定讨论的连接数
func (h *Hub) ConnectionCount(discussionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.discussions[discussionID])
}

// HandleEvent 实现 events.Handler：把讨论相关事件推送给订阅者
func (h *Hub) HandleEvent(event events.Event) error {
	scoped, ok := event.(events.DiscussionScoped)
	if !ok || scoped.Discussion() == "" {
		return nil
	}
	return h.BroadcastToDiscussion(scoped.Discussion(), event)
}

// ForwardedEvents Hub 推送的事件类型
var ForwardedEvents = []events.EventType{
	events.DiscussionUpdated,
	events.DiscussionDeleted,
	events.DiscussionRestored,
	events.DiscussionsMerged,
	events.SnapshotCreated,
	events.SnapshotDeleted,
	events.BranchCreated,
	events.BranchMerged,
	events.BranchDeleted,
}
