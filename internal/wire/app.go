package wire

import (
	"context"
	"log/slog"

	appDiscussion "github.com/roundtable/backend/internal/application/discussion"
	appSimilarity "github.com/roundtable/backend/internal/application/similarity"
	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/config"
	applog "github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/watcher"
	"github.com/roundtable/backend/internal/infrastructure/websocket"
	"github.com/roundtable/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	MCPServer  *interfaces.MCPServer
	wsHub      *websocket.Hub
	logger     *slog.Logger

	discussions *appDiscussion.Service
	similarity  *appSimilarity.Service
	retrain     *appSimilarity.RetrainScheduler

	// 文件监听相关
	eventBus     events.EventBus
	fileWatcher  *watcher.FileWatcher
	watchEnabled bool

	cancel   context.CancelFunc
	unsubHub func()
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	wsHub *websocket.Hub,
	eventBus events.EventBus,
	discussions *appDiscussion.Service,
	similarity *appSimilarity.Service,
	retrain *appSimilarity.RetrainScheduler,
	fileWatcher *watcher.FileWatcher,
	watcherCfg *config.WatcherConfig,
) *App {
	return &App{
		HTTPServer:   httpServer,
		MCPServer:    mcpServer,
		wsHub:        wsHub,
		logger:       applog.NewModuleLogger("app", "main"),
		discussions:  discussions,
		similarity:   similarity,
		retrain:      retrain,
		eventBus:     eventBus,
		fileWatcher:  fileWatcher,
		watchEnabled: watcherCfg.Enabled,
	}
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting roundtable backend application")

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	// 启动 WebSocket Hub 并转发版本管理事件
	a.wsHub.Start()
	a.unsubHub = a.eventBus.SubscribeMultiple(websocket.ForwardedEvents, a.wsHub)

	// 讨论服务订阅文件事件，相似度服务加载或训练模型后订阅讨论事件
	a.discussions.Start()
	if err := a.similarity.Start(ctx); err != nil {
		a.logger.Error("Failed to start similarity service",
			"error", err,
		)
	}
	a.retrain.Start(ctx)

	if a.watchEnabled && a.fileWatcher != nil {
		if err := a.fileWatcher.Start(); err != nil {
			a.logger.Error("Failed to start file watcher",
				"error", err,
			)
		} else {
			a.logger.Info("File watcher started successfully")
		}
	}

	// 启动 HTTP 服务器（goroutine）
	go func() {
		if err := a.HTTPServer.Start(); err != nil {
			a.logger.Error("Failed to start HTTP server",
				"error", err,
			)
		}
	}()

	// MCP 服务器通过 HTTP Handler 提供服务，已在 HTTP 服务器中注册 /mcp/sse 端点
	a.logger.Info("Roundtable backend application started successfully")
	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping roundtable backend application")

	if a.cancel != nil {
		a.cancel()
	}
	a.retrain.Stop()

	if a.fileWatcher != nil {
		a.fileWatcher.Stop()
	}

	a.similarity.Stop()
	a.discussions.Stop()

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
		return err
	}

	if a.unsubHub != nil {
		a.unsubHub()
	}
	a.wsHub.Stop()

	// 关闭事件总线
	a.eventBus.Close()

	a.logger.Info("Roundtable backend application stopped successfully")
	return nil
}
