package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appChat "github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/infrastructure/vector"
	"github.com/calenchat/backend/internal/interfaces/http/response"
)

// maxAudioBytes 语音上传大小上限（32 MB）
const maxAudioBytes = 32 << 20

// ChatHandler 对话处理器
type ChatHandler struct {
	controller *appChat.Controller
}

// NewChatHandler 创建对话处理器
func NewChatHandler(controller *appChat.Controller) *ChatHandler {
	return &ChatHandler{controller: controller}
}

// Turn 处理一轮文本对话
// POST /api/v1/chat
func (h *ChatHandler) Turn(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, 400, "invalid request: "+err.Error())
		return
	}

	result, err := h.controller.HandleTurn(c.Request.Context(), req.Message)
	if err != nil {
		// 重建失败意味着事件已写入但索引落后，对调用方必须可区分
		if errors.Is(err, vector.ErrRebuild) {
			response.ErrorWithDetail(c, http.StatusInternalServerError, 500,
				"event saved but index rebuild failed", err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}

	response.Success(c, result)
}

// VoiceTurn 处理一轮语音对话
// POST /api/v1/chat/voice
// multipart 表单，字段 file 为音频文件
func (h *ChatHandler) VoiceTurn(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, 400, "audio file is required: "+err.Error())
		return
	}
	if fileHeader.Size > maxAudioBytes {
		response.Error(c, http.StatusBadRequest, 400, "audio file too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusBadRequest, 400, "failed to open audio file: "+err.Error())
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, "failed to read audio file: "+err.Error())
		return
	}

	result, err := h.controller.HandleVoiceTurn(c.Request.Context(), audio, fileHeader.Filename)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, 500, err.Error())
		return
	}

	response.Success(c, result)
}
