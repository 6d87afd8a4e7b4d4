package mcp

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/calenchat/backend/internal/domain/calendar"
)

// QueryCalendarInput 日历问答工具输入
type QueryCalendarInput struct {
	Question string `json:"question" jsonschema:"Natural language question about calendar events (required)"`
}

// QueryCalendarOutput 日历问答工具输出
type QueryCalendarOutput struct {
	Answer string `json:"answer" jsonschema:"Grounded answer based on indexed calendar events"`
}

// queryCalendarTool 日历问答工具实现
func (s *MCPServer) queryCalendarTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input QueryCalendarInput,
) (*mcp.CallToolResult, QueryCalendarOutput, error) {
	var output QueryCalendarOutput

	if input.Question == "" {
		return nil, output, fmt.Errorf("question is required")
	}

	result, err := s.controller.HandleTurn(ctx, input.Question)
	if err != nil {
		return nil, output, fmt.Errorf("failed to answer question: %w", err)
	}

	output.Answer = result.Answer
	return nil, output, nil
}

// AddCalendarEventInput 添加事件工具输入
type AddCalendarEventInput struct {
	Summary string `json:"summary" jsonschema:"Event title (required)"`
	Start   string `json:"start" jsonschema:"Start time in ISO 8601 format (required), e.g., 2025-06-20T15:00:00Z"`
	End     string `json:"end" jsonschema:"End time in ISO 8601 format (required)"`
}

// AddCalendarEventOutput 添加事件工具输出
type AddCalendarEventOutput struct {
	Event   *calendar.Event `json:"event,omitempty" jsonschema:"The created event"`
	Message string          `json:"message" jsonschema:"Result message"`
}

// addCalendarEventTool 添加事件工具实现
// 与对话通道的添加分支走同一条路径：落库后立即全量重建索引
func (s *MCPServer) addCalendarEventTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input AddCalendarEventInput,
) (*mcp.CallToolResult, AddCalendarEventOutput, error) {
	var output AddCalendarEventOutput

	event := &calendar.Event{
		ID:        uuid.NewString(),
		Summary:   input.Summary,
		Start:     input.Start,
		End:       input.End,
		Location:  "",
		Attendees: []string{},
	}

	if err := event.Validate(); err != nil {
		return nil, output, err
	}

	if _, err := s.events.AppendEvent(ctx, event); err != nil {
		return nil, output, fmt.Errorf("failed to append event: %w", err)
	}

	if _, err := s.controller.RebuildIndex(ctx); err != nil {
		// 事件已落库，索引落后，调用方需要知道
		output.Event = event
		output.Message = "event saved but index rebuild failed: " + err.Error()
		return nil, output, nil
	}

	output.Event = event
	output.Message = fmt.Sprintf("Added event: %s from %s to %s", event.Summary, event.Start, event.End)
	return nil, output, nil
}

// ListEventsInput 列出事件工具输入（无参数）
type ListEventsInput struct{}

// ListEventsOutput 列出事件工具输出
type ListEventsOutput struct {
	Events []*calendar.Event `json:"events" jsonschema:"All calendar events ordered by start time"`
	Total  int               `json:"total" jsonschema:"Total number of events"`
}

// listEventsTool 列出事件工具实现
func (s *MCPServer) listEventsTool(
	ctx context.Context,
	req *mcp.CallToolRequest,
	input ListEventsInput,
) (*mcp.CallToolResult, ListEventsOutput, error) {
	output := ListEventsOutput{
		Events: []*calendar.Event{},
	}

	events, err := s.events.ListEvents(ctx)
	if err != nil {
		return nil, output, fmt.Errorf("failed to list events: %w", err)
	}

	if events != nil {
		output.Events = events
	}
	output.Total = len(output.Events)
	return nil, output, nil
}
