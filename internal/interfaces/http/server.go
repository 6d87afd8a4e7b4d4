package http

import (
	"context"
	"net/http"
	"time"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/calenchat/backend/internal/infrastructure/config"
	"github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/calenchat/backend/internal/interfaces/http/handler"
	"github.com/calenchat/backend/internal/interfaces/mcp"
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
	serverConfig *config.ServerConfig,
	chatHandler *handler.ChatHandler,
	eventHandler *handler.EventHandler,
	reminderHandler *handler.ReminderHandler,
	settingsHandler *handler.SettingsHandler,
	historyHandler *handler.HistoryHandler,
	indexHandler *handler.IndexHandler,
	wsHandler *handler.WSHandler,
	mcpServer *mcp.MCPServer,
) *HTTPServer {
	router := gin.Default()

	logger := log.NewModuleLogger("http", "server")

	// 注册路由
	api := router.Group("/api/v1")
	{
		// 对话相关路由
		api.POST("/chat", chatHandler.Turn)
		api.POST("/chat/voice", chatHandler.VoiceTurn)

		// 事件相关路由
		api.GET("/events", eventHandler.List)
		api.POST("/events", eventHandler.Create)
		api.GET("/events/:id", eventHandler.Get)
		api.PUT("/events/:id", eventHandler.Update)
		api.DELETE("/events/:id", eventHandler.Delete)

		// 提醒相关路由
		api.GET("/events/:id/reminders", reminderHandler.List)
		api.POST("/events/:id/reminders", reminderHandler.Create)
		api.DELETE("/reminders/:id", reminderHandler.Delete)

		// 设置相关路由
		api.GET("/settings", settingsHandler.Get)
		api.PUT("/settings", settingsHandler.Save)

		// 历史记录相关路由
		api.GET("/history", historyHandler.List)
		api.DELETE("/history", historyHandler.Clear)

		// 索引管理相关路由
		api.POST("/index/rebuild", indexHandler.Rebuild)
		api.GET("/index/stats", indexHandler.Stats)
	}

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WebSocket 推送端点
	router.GET("/ws", wsHandler.Serve)

	// MCP SSE 端点
	if mcpServer != nil {
		router.Any("/mcp/sse", gin.WrapH(mcpServer.GetHandler()))
	}

	return &HTTPServer{
		router:   router,
		httpPort: serverConfig.HTTPPort,
		logger:   logger,
	}
}

// Start 启动服务器
func (s *HTTPServer) Start() error {
	s.server = &http.Server{
		Addr:    s.httpPort,
		Handler: s.router,
	}

	s.logger.Info("HTTP server starting",
		"port", s.httpPort,
	)

	return s.server.ListenAndServe()
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
