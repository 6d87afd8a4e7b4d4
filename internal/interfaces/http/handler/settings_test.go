package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/storage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newHandlerTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := storage.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, storage.InitDatabase(db))

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// setupSettingsRouter 创建测试路由
func setupSettingsRouter(t *testing.T) *gin.Engine {
	router := gin.New()
	handler := NewSettingsHandler(storage.NewSettingsRepository(newHandlerTestDB(t)), nil)

	settings := router.Group("/api/v1/settings")
	{
		settings.GET("", handler.Get)
		settings.PUT("", handler.Save)
	}

	return router
}

func TestSettingsHandler_GetDefaults(t *testing.T) {
	router := setupSettingsRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	data, ok := response["data"].(map[string]interface{})
	require.True(t, ok, "响应应包含 data 字段")
	assert.Equal(t, "UTC", data["timezone"])
	assert.Equal(t, true, data["notifications_enabled"])
}

func TestSettingsHandler_SaveAndGet(t *testing.T) {
	router := setupSettingsRouter(t)

	reqBody := map[string]interface{}{
		"timezone":              "Europe/Berlin",
		"notifications_enabled": false,
		"preferred_language":    "de",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/settings", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// 再次读取应返回保存的值
	req = httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Europe/Berlin", data["timezone"])
	assert.Equal(t, false, data["notifications_enabled"])
	assert.Equal(t, "de", data["preferred_language"])
}

func TestHistoryHandler_ListAndClear(t *testing.T) {
	db := newHandlerTestDB(t)
	interactions := storage.NewInteractionRepository(db)

	require.NoError(t, interactions.SaveInteraction(context.Background(), &chat.Interaction{
		ID:        "turn-1",
		Query:     "when is the team sync?",
		Answer:    "Team sync at 9:30 AM.",
		Kind:      chat.InteractionKindQuestion,
		CreatedAt: 1750000000,
	}))

	router := gin.New()
	handler := NewHistoryHandler(interactions, nil)
	router.GET("/api/v1/history", handler.List)
	router.DELETE("/api/v1/history", handler.Clear)

	t.Run("列出历史", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		data, ok := response["data"].([]interface{})
		require.True(t, ok)
		require.Len(t, data, 1)
	})

	t.Run("清空历史", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/history", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

		data, ok := response["data"].([]interface{})
		require.True(t, ok)
		assert.Empty(t, data)
	})
}
