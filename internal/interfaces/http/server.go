package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
	"github.com/roundtable/backend/internal/interfaces/http/handler"
	"github.com/roundtable/backend/internal/interfaces/http/middleware"
	"github.com/roundtable/backend/internal/interfaces/mcp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/roundtable/backend/docs" // Swagger docs
)

// HTTPServer HTTP 服务器
type HTTPServer struct {
	router   *gin.Engine
	httpPort string
	server   *http.Server
	logger   *slog.Logger
}

// NewServer 创建 HTTP 服务器
func NewServer(
	cfg *config.ServerConfig,
	collector *metrics.Collector,
	discussionHandler *handler.DiscussionHandler,
	snapshotHandler *handler.SnapshotHandler,
	branchHandler *handler.BranchHandler,
	similarityHandler *handler.SimilarityHandler,
	streamHandler *handler.StreamHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	router := gin.Default()
	router.Use(
		collector.GinMiddleware(),
		middleware.EnsureUTF8Body(),
		middleware.RequestContext(),
	)

	logger := log.NewModuleLogger("http", "server")

	// 注册路由
	api := router.Group("/api")
	{
		api.POST("/discussions", discussionHandler.Create)
		api.GET("/discussions", discussionHandler.List)

		discussion := api.Group("/discussion/:id")
		{
			discussion.GET("", discussionHandler.Get)
			discussion.POST("/messages", discussionHandler.AppendMessage)
			discussion.GET("/ws", streamHandler.Stream)

			// 快照与恢复
			discussion.POST("/snapshot", snapshotHandler.Create)
			discussion.GET("/snapshots", snapshotHandler.List)
			discussion.GET("/compare", snapshotHandler.Compare)
			discussion.GET("/snapshot/:snapshotId/diff", snapshotHandler.DiffWithCurrent)
			discussion.POST("/restore", snapshotHandler.Restore)

			// 分支
			discussion.POST("/branch", branchHandler.Create)
			discussion.GET("/branches", branchHandler.List)

			// 相似度与合并
			discussion.GET("/similar", similarityHandler.FindSimilar)
			discussion.GET("/keywords", similarityHandler.Keywords)
			discussion.POST("/merge", similarityHandler.Merge)
		}

		api.GET("/snapshot/:id", snapshotHandler.Get)
		api.DELETE("/snapshot/:id", snapshotHandler.Delete)

		branch := api.Group("/branch/:id")
		{
			branch.GET("", branchHandler.Get)
			branch.DELETE("", branchHandler.Delete)
			branch.GET("/compare", branchHandler.Compare)
			branch.POST("/merge", branchHandler.Merge)
		}

		api.POST("/similarity/train", similarityHandler.Train)
	}

	// 健康检查
	router.GET("/health", handler.Health)

	// Prometheus 指标
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	// Swagger UI
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: cfg.HTTPPort,
		logger:   logger,
	}
}

// Handler 返回路由（测试用）
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start 启动服务器，阻塞直到服务器关闭
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:              s.httpPort,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 优雅关闭
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Stop 停止服务器
func (s *HTTPServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}
