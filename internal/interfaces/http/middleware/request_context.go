package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/roundtable/backend/internal/infrastructure/log"
)

// HeaderRequestID 请求 ID 头
const HeaderRequestID = "X-Request-ID"

// RequestContext 为请求上下文附加日志字段：请求 ID，以及路由中的讨论/快照/分支 ID
func RequestContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Header(HeaderRequestID, requestID)

		ctx := log.WithRequestID(c.Request.Context(), requestID)
		route := c.FullPath()
		if id := c.Param("id"); id != "" {
			switch {
			case strings.HasPrefix(route, "/api/discussion/"):
				ctx = log.WithDiscussionID(ctx, id)
			case strings.HasPrefix(route, "/api/snapshot/"):
				ctx = log.WithSnapshotID(ctx, id)
			case strings.HasPrefix(route, "/api/branch/"):
				ctx = log.WithBranchID(ctx, id)
			}
		}
		if id := c.Param("snapshotId"); id != "" {
			ctx = log.WithSnapshotID(ctx, id)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
