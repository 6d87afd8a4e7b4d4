package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/infrastructure/storage"
)

func setupReminderRouter(t *testing.T) (*gin.Engine, calendar.ReminderRepository) {
	t.Helper()

	db := newHandlerTestDB(t)
	events := storage.NewEventRepository(db)
	reminders := storage.NewReminderRepository(db)

	_, err := events.AppendEvent(context.Background(), &calendar.Event{
		ID:        "evt-1",
		Summary:   "Team sync",
		Start:     "2025-06-20T09:30:00Z",
		End:       "2025-06-20T10:00:00Z",
		Attendees: []string{},
	})
	require.NoError(t, err)

	handler := NewReminderHandler(reminders, events)
	router := gin.New()
	router.POST("/api/v1/events/:id/reminders", handler.Create)

	return router, reminders
}

func postReminder(router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/evt-1/reminders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReminderHandler_CreateAtEventStart(t *testing.T) {
	router, reminders := setupReminderRouter(t)

	// minutes_before 为 0 表示事件开始时提醒，是合法输入
	w := postReminder(router, map[string]interface{}{"minutes_before": 0})

	assert.Equal(t, http.StatusOK, w.Code)

	saved, err := reminders.ListReminders(context.Background(), "evt-1")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, 0, saved[0].MinutesBefore)
	assert.Equal(t, calendar.ReminderMethodNotification, saved[0].Method)
}

func TestReminderHandler_CreateMissingMinutes(t *testing.T) {
	router, _ := setupReminderRouter(t)

	w := postReminder(router, map[string]interface{}{"method": "email"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReminderHandler_CreateNegativeMinutes(t *testing.T) {
	router, _ := setupReminderRouter(t)

	w := postReminder(router, map[string]interface{}{"minutes_before": -5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
