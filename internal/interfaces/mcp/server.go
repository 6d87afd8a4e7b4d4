package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	appChat "github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/domain/calendar"
)

// MCPServer MCP 服务器
// 把日历问答和事件管理暴露为 MCP 工具，供外部 AI 客户端调用
type MCPServer struct {
	server     *mcp.Server
	handler    http.Handler
	controller *appChat.Controller
	events     calendar.EventRepository
}

// NewServer 创建 MCP 服务器
func NewServer(
	controller *appChat.Controller,
	events calendar.EventRepository,
) *MCPServer {
	// 创建 MCP 服务器实例
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "calenchat-backend",
			Version: "0.1.0",
		},
		nil, // 使用默认能力
	)

	// 创建服务器实例（用于闭包捕获依赖）
	mcpServer := &MCPServer{
		server:     server,
		controller: controller,
		events:     events,
	}

	// 注册工具：query_calendar
	mcp.AddTool(server, &mcp.Tool{
		Name: "query_calendar",
		Description: `Ask a natural language question about the user's calendar.
Parameters:
- question (string, required): Question about calendar events, e.g., "What do I have on Friday afternoon?"

Returns: A short grounded answer based on the indexed calendar events. If nothing matches, the answer states that no events were found.`,
	}, mcpServer.queryCalendarTool)

	// 注册工具：add_calendar_event
	mcp.AddTool(server, &mcp.Tool{
		Name: "add_calendar_event",
		Description: `Add a new event to the user's calendar and rebuild the search index.
Parameters:
- summary (string, required): Event title
- start (string, required): Start time in ISO 8601 format, e.g., 2025-06-20T15:00:00Z
- end (string, required): End time in ISO 8601 format

Returns: The created event with its generated ID.`,
	}, mcpServer.addCalendarEventTool)

	// 注册工具：list_events
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_events",
		Description: "List all calendar events ordered by start time. No parameters required. Returns: events array and total count.",
	}, mcpServer.listEventsTool)

	// 创建 SSE Handler
	handler := mcp.NewSSEHandler(
		func(r *http.Request) *mcp.Server {
			// 每个请求返回同一个服务器实例
			return server
		},
		nil, // SSEOptions，使用默认值
	)

	mcpServer.handler = handler
	return mcpServer
}

// GetHandler 获取 HTTP Handler（用于集成到 HTTP 服务器）
func (s *MCPServer) GetHandler() http.Handler {
	return s.handler
}
