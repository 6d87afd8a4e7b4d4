package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appChat "github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/application/index"
	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/calenchat/backend/internal/interfaces/http/response"
)

// indexRebuilder 事件写入后的索引重建能力
type indexRebuilder interface {
	RebuildIndex(ctx context.Context) (*index.Stats, error)
}

// EventHandler 日历事件处理器
// 事件的任何写操作都会让索引过期，写入成功后同步触发全量重建
type EventHandler struct {
	events calendar.EventRepository
	index  indexRebuilder
	logger *slog.Logger
}

// NewEventHandler 创建日历事件处理器
func NewEventHandler(events calendar.EventRepository, controller *appChat.Controller) *EventHandler {
	return &EventHandler{
		events: events,
		index:  controller,
		logger: log.NewModuleLogger("http", "event"),
	}
}

// List 列出全部事件
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.events.ListEvents(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}
	if events == nil {
		events = []*calendar.Event{}
	}
	response.Success(c, events)
}

// Get 获取单个事件
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}
	if event == nil {
		response.Error(c, http.StatusNotFound, 404, "event not found")
		return
	}
	response.Success(c, event)
}

// Create 创建事件
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req struct {
		Summary   string   `json:"summary" binding:"required"`
		Start     string   `json:"start" binding:"required"`
		End       string   `json:"end" binding:"required"`
		Location  string   `json:"location"`
		Attendees []string `json:"attendees"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 400, "invalid request: "+err.Error())
		return
	}

	attendees := req.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	event := &calendar.Event{
		ID:        uuid.NewString(),
		Summary:   req.Summary,
		Start:     req.Start,
		End:       req.End,
		Location:  req.Location,
		Attendees: attendees,
	}

	if _, err := h.events.AppendEvent(c.Request.Context(), event); err != nil {
		response.Error(c, http.StatusBadRequest, 400, err.Error())
		return
	}

	if err := h.rebuildIndex(c); err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, 500,
			"event saved but index rebuild failed", err.Error())
		return
	}
	response.Success(c, event)
}

// Update 更新事件
// PUT /api/v1/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	var req struct {
		Summary   string   `json:"summary" binding:"required"`
		Start     string   `json:"start" binding:"required"`
		End       string   `json:"end" binding:"required"`
		Location  string   `json:"location"`
		Attendees []string `json:"attendees"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 400, "invalid request: "+err.Error())
		return
	}

	attendees := req.Attendees
	if attendees == nil {
		attendees = []string{}
	}

	event := &calendar.Event{
		ID:        c.Param("id"),
		Summary:   req.Summary,
		Start:     req.Start,
		End:       req.End,
		Location:  req.Location,
		Attendees: attendees,
	}

	if err := h.events.UpdateEvent(c.Request.Context(), event); err != nil {
		response.Error(c, http.StatusBadRequest, 400, err.Error())
		return
	}

	if err := h.rebuildIndex(c); err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, 500,
			"event updated but index rebuild failed", err.Error())
		return
	}
	response.Success(c, event)
}

// Delete 删除事件
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.events.DeleteEvent(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, http.StatusNotFound, 404, err.Error())
		return
	}

	if err := h.rebuildIndex(c); err != nil {
		// 删除已生效但索引仍可能检索到被删事件，必须显式失败
		response.ErrorWithDetail(c, http.StatusInternalServerError, 500,
			"event deleted but index rebuild failed", err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// rebuildIndex 写操作后重建索引
// 重建失败不回滚事件写入，但本次请求必须显式失败：
// 调用方不能在索引落后时误以为写入已可检索
func (h *EventHandler) rebuildIndex(c *gin.Context) error {
	if _, err := h.index.RebuildIndex(c.Request.Context()); err != nil {
		h.logger.Error("事件写入后索引重建失败", "error", err.Error())
		return err
	}
	return nil
}
