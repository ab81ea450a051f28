// @title roundtable Discussion API
// @version 1.0
// @description 圆桌讨论版本管理与相似度服务 API
// @host localhost:19970
// @BasePath /api
// @schemes http
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/roundtable/backend/internal/infrastructure/config"
	applog "github.com/roundtable/backend/internal/infrastructure/log"
	"github.com/roundtable/backend/internal/infrastructure/singleton"
	"github.com/roundtable/backend/internal/wire"
)

func main() {
	// .env 可选，已存在的环境变量优先
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("加载 .env 失败: %v", err)
	}

	// 初始化日志系统
	applog.Init(applog.NewConfigFromEnv())

	// 加载配置获取端口
	cfg := config.NewConfig()
	port := cfg.Server.HTTPPort

	// 单例锁检查：尝试获取端口锁
	listener, err := singleton.CheckAndLock(port)
	if err != nil {
		log.Fatalf("单例锁检查失败: %v", err)
	}
	if listener == nil {
		// 已有实例运行，直接退出
		log.Println("检测到已有实例在运行，当前进程退出")
		os.Exit(0)
	}
	// 关闭临时 listener，实际监听由 HTTP 服务器负责
	_ = listener.Close()

	// Wire 自动生成的初始化函数
	app, cleanup, err := wire.InitializeAll()
	if err != nil {
		applog.GetLogger().Error("Failed to initialize application",
			"error", err,
		)
		os.Exit(1)
	}
	defer cleanup()

	// 启动所有服务
	if err := app.Start(); err != nil {
		applog.GetLogger().Error("Failed to start application",
			"error", err,
		)
		os.Exit(1)
	}

	// 优雅关闭
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	applog.GetLogger().Info("Shutting down application...")
	if err := app.Stop(); err != nil {
		applog.GetLogger().Error("Error during application shutdown",
			"error", err,
		)
	}
	applog.GetLogger().Info("Application stopped")
}
