package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/infrastructure/singleton"
)

// Health 健康检查，单例检测依赖 service 字段识别本服务
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} singleton.HealthStatus
// @Router /health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, singleton.HealthStatus{
		Status:  "ok",
		Service: singleton.ServiceName,
	})
}
