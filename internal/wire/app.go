package wire

import (
	"context"
	"database/sql"
	"time"

	"log/slog"

	appChat "github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/infrastructure/config"
	applog "github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/calenchat/backend/internal/infrastructure/notify"
	"github.com/calenchat/backend/internal/interfaces"
)

// App 应用主结构，组合所有服务
type App struct {
	HTTPServer *interfaces.HTTPServer
	MCPServer  *interfaces.MCPServer
	hub        *notify.Hub
	controller *appChat.Controller
	db         *sql.DB
	logger     *slog.Logger

	// 配置文件监听
	configWatcher *config.Watcher
}

// NewApp 创建应用实例
func NewApp(
	httpServer *interfaces.HTTPServer,
	mcpServer *interfaces.MCPServer,
	hub *notify.Hub,
	controller *appChat.Controller,
	db *sql.DB,
) *App {
	logger := applog.NewModuleLogger("app", "main")

	app := &App{
		HTTPServer: httpServer,
		MCPServer:  mcpServer,
		hub:        hub,
		controller: controller,
		db:         db,
		logger:     logger,
	}

	// 配置文件热加载：大部分配置项需要重启生效，日志级别即时生效
	configPath, err := config.ConfigPath()
	if err == nil {
		watcher, werr := config.NewWatcher(configPath, app.onConfigReload, logger)
		if werr != nil {
			logger.Warn("Failed to create config watcher", "error", werr)
		} else {
			app.configWatcher = watcher
		}
	}

	return app
}

// Start 启动所有服务
func (a *App) Start() error {
	a.logger.Info("Starting calenchat backend application")

	// 启动 WebSocket Hub
	a.hub.Start()

	// 构建初始索引，失败则拒绝启动
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := a.controller.Start(ctx); err != nil {
		return err
	}

	// 启动配置文件监听
	if a.configWatcher != nil {
		if err := a.configWatcher.Start(); err != nil {
			a.logger.Warn("Failed to start config watcher", "error", err)
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

	a.logger.Info("calenchat backend application started successfully")

	// MCP 服务器通过 HTTP Handler 提供服务，不需要单独启动
	// 已在 HTTP 服务器中注册 /mcp/sse 端点

	return nil
}

// Stop 停止所有服务
func (a *App) Stop() error {
	a.logger.Info("Stopping calenchat backend application")

	if a.configWatcher != nil {
		a.configWatcher.Stop()
	}

	if err := a.HTTPServer.Stop(); err != nil {
		a.logger.Error("Failed to stop HTTP server",
			"error", err,
		)
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("Failed to close database",
				"error", err,
			)
		}
	}

	a.logger.Info("calenchat backend application stopped")
	return nil
}

// onConfigReload 配置文件变化回调
func (a *App) onConfigReload(cfg *config.Config) {
	// 即时生效的只有日志级别，其余配置项提示重启
	applog.Init(&applog.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	a.logger.Info("Config reloaded, most settings take effect after restart",
		"log_level", cfg.Log.Level,
	)
}
