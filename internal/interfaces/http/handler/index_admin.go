package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appChat "github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/interfaces/http/response"
)

// IndexHandler 索引管理处理器
type IndexHandler struct {
	controller *appChat.Controller
}

// NewIndexHandler 创建索引管理处理器
func NewIndexHandler(controller *appChat.Controller) *IndexHandler {
	return &IndexHandler{controller: controller}
}

// Rebuild 手动触发全量重建
// POST /api/v1/index/rebuild
func (h *IndexHandler) Rebuild(c *gin.Context) {
	stats, err := h.controller.RebuildIndex(c.Request.Context())
	if err != nil {
		response.ErrorWithDetail(c, http.StatusInternalServerError, 500,
			"index rebuild failed", err.Error())
		return
	}
	response.Success(c, stats)
}

// Stats 当前索引统计
// GET /api/v1/index/stats
func (h *IndexHandler) Stats(c *gin.Context) {
	stats := h.controller.IndexStats()
	if stats == nil {
		response.Error(c, http.StatusNotFound, 404, "index not built yet")
		return
	}
	response.Success(c, stats)
}
