package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/interfaces/http/response"
)

// ReminderHandler 提醒处理器
type ReminderHandler struct {
	reminders calendar.ReminderRepository
	events    calendar.EventRepository
}

// NewReminderHandler 创建提醒处理器
func NewReminderHandler(reminders calendar.ReminderRepository, events calendar.EventRepository) *ReminderHandler {
	return &ReminderHandler{
		reminders: reminders,
		events:    events,
	}
}

// List 列出事件的全部提醒
// GET /api/v1/events/:id/reminders
func (h *ReminderHandler) List(c *gin.Context) {
	reminders, err := h.reminders.ListReminders(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}
	if reminders == nil {
		reminders = []*calendar.Reminder{}
	}
	response.Success(c, reminders)
}

// Create 为事件创建提醒
// POST /api/v1/events/:id/reminders
func (h *ReminderHandler) Create(c *gin.Context) {
	// 指针承载 minutes_before：0（事件开始时提醒）是合法值，
	// gin 的 required 对值类型会把零值当缺失拒掉
	var req struct {
		MinutesBefore *int   `json:"minutes_before" binding:"required"`
		Method        string `json:"method"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 400, "invalid request: "+err.Error())
		return
	}

	eventID := c.Param("id")
	event, err := h.events.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}
	if event == nil {
		response.Error(c, http.StatusNotFound, 404, "event not found")
		return
	}

	method := req.Method
	if method == "" {
		method = calendar.ReminderMethodNotification
	}

	reminder := &calendar.Reminder{
		ID:            uuid.NewString(),
		EventID:       eventID,
		MinutesBefore: *req.MinutesBefore,
		Method:        method,
		CreatedAt:     time.Now().Unix(),
	}

	if err := h.reminders.SaveReminder(c.Request.Context(), reminder); err != nil {
		response.Error(c, http.StatusBadRequest, 400, err.Error())
		return
	}

	response.Success(c, reminder)
}

// Delete 删除提醒
// DELETE /api/v1/reminders/:id
func (h *ReminderHandler) Delete(c *gin.Context) {
	if err := h.reminders.DeleteReminder(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, http.StatusNotFound, 404, err.Error())
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
