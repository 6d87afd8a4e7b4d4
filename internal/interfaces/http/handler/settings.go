package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appChat "github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/infrastructure/notify"
	"github.com/calenchat/backend/internal/interfaces/http/response"
)

// SettingsHandler 设置处理器
type SettingsHandler struct {
	settings calendar.SettingsRepository
	notifier appChat.Notifier
}

// NewSettingsHandler 创建设置处理器
func NewSettingsHandler(settings calendar.SettingsRepository, notifier appChat.Notifier) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
		notifier: notifier,
	}
}

// Get 读取设置
// GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settings.GetSettings(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}
	response.Success(c, settings)
}

// Save 保存设置
// PUT /api/v1/settings
func (h *SettingsHandler) Save(c *gin.Context) {
	var req calendar.Settings
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 400, "invalid request: "+err.Error())
		return
	}

	if req.Timezone == "" {
		req.Timezone = calendar.DefaultSettings().Timezone
	}
	if req.PreferredLanguage == "" {
		req.PreferredLanguage = calendar.DefaultSettings().PreferredLanguage
	}

	if err := h.settings.SaveSettings(c.Request.Context(), &req); err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}

	if h.notifier != nil {
		_ = h.notifier.Broadcast(notify.SettingsSaved, &req)
	}

	response.Success(c, &req)
}
