package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	appChat "github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/notify"
	"github.com/calenchat/backend/internal/interfaces/http/response"
)

// HistoryHandler 对话历史处理器
type HistoryHandler struct {
	interactions chat.InteractionRepository
	notifier     appChat.Notifier
}

// NewHistoryHandler 创建对话历史处理器
func NewHistoryHandler(interactions chat.InteractionRepository, notifier appChat.Notifier) *HistoryHandler {
	return &HistoryHandler{
		interactions: interactions,
		notifier:     notifier,
	}
}

// List 列出最近的对话记录
// GET /api/v1/history?limit=50
func (h *HistoryHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	interactions, err := h.interactions.ListInteractions(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}
	if interactions == nil {
		interactions = []*chat.Interaction{}
	}
	response.Success(c, interactions)
}

// Clear 清空对话历史
// DELETE /api/v1/history
func (h *HistoryHandler) Clear(c *gin.Context) {
	if err := h.interactions.ClearInteractions(c.Request.Context()); err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}

	if h.notifier != nil {
		_ = h.notifier.Broadcast(notify.HistoryCleared, nil)
	}

	response.Success(c, gin.H{"cleared": true})
}
