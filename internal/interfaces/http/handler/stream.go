package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/websocket"
)

// StreamHandler 讨论事件推送
type StreamHandler struct {
	hub    *websocket.Hub
	logger *slog.Logger
}

// NewStreamHandler 创建事件推送处理器
func NewStreamHandler(hub *websocket.Hub) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		logger: log.NewModuleLogger("http", "stream"),
	}
}

// Stream 以 WebSocket 推送讨论的快照/分支/恢复事件
// @Summary 讨论事件流
// @Tags 讨论
// @Param id path string true "讨论 ID"
// @Router /discussion/{id}/ws [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	id := c.Param("id")
	// 升级失败时 upgrader 已写入错误响应
	if err := h.hub.ServeDiscussion(c.Writer, c.Request, id); err != nil {
		h.logger.Debug("WebSocket upgrade failed", "discussion_id", id, "error", err)
	}
}
