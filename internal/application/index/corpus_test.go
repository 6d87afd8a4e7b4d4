package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calenchat/backend/internal/domain/calendar"
)

func TestRenderEvent(t *testing.T) {
	tests := []struct {
		name  string
		event calendar.Event
		want  string
	}{
		{
			name: "带地点",
			event: calendar.Event{
				ID:       "evt-1",
				Summary:  "Team sync",
				Start:    "2025-06-20T09:30:00Z",
				End:      "2025-06-20T10:00:00Z",
				Location: "Room 2",
			},
			want: "Team sync from 9:30 AM to 10:00 AM at Room 2",
		},
		{
			name: "无地点使用占位文案",
			event: calendar.Event{
				ID:      "evt-2",
				Summary: "Dentist",
				Start:   "2025-06-20T15:00:00Z",
				End:     "2025-06-20T16:00:00Z",
			},
			want: "Dentist from 3:00 PM to 4:00 PM at Unknown Location",
		},
		{
			name: "空白地点视为无地点",
			event: calendar.Event{
				ID:       "evt-3",
				Summary:  "Standup",
				Start:    "2025-06-20T08:05:00Z",
				End:      "2025-06-20T08:20:00Z",
				Location: "   ",
			},
			want: "Standup from 8:05 AM to 8:20 AM at Unknown Location",
		},
		{
			name: "正午与午夜",
			event: calendar.Event{
				ID:      "evt-4",
				Summary: "Maintenance window",
				Start:   "2025-06-20T00:00:00Z",
				End:     "2025-06-20T12:00:00Z",
			},
			want: "Maintenance window from 12:00 AM to 12:00 PM at Unknown Location",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := RenderEvent(&tt.event)
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Text)
			assert.Equal(t, tt.event.ID, doc.SourceEventID)
		})
	}
}

func TestRenderEvent_NoLeadingZero(t *testing.T) {
	// 12 小时制不带前导零："09:30" 必须渲染成 "9:30 AM"
	doc, err := RenderEvent(&calendar.Event{
		ID:      "evt-1",
		Summary: "Breakfast",
		Start:   "2025-06-20T07:00:00Z",
		End:     "2025-06-20T07:30:00Z",
	})
	require.NoError(t, err)
	assert.NotContains(t, doc.Text, "07:00")
	assert.Contains(t, doc.Text, "7:00 AM")
}

func TestRenderEvent_MalformedTimestamp(t *testing.T) {
	_, err := RenderEvent(&calendar.Event{
		ID:      "evt-bad",
		Summary: "Broken",
		Start:   "not-a-timestamp",
		End:     "2025-06-20T10:00:00Z",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestRenderCorpus(t *testing.T) {
	events := []*calendar.Event{
		{ID: "a", Summary: "One", Start: "2025-06-20T09:00:00Z", End: "2025-06-20T10:00:00Z"},
		{ID: "b", Summary: "Two", Start: "2025-06-21T09:00:00Z", End: "2025-06-21T10:00:00Z"},
	}

	docs, err := RenderCorpus(events)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].SourceEventID)
	assert.Equal(t, "b", docs[1].SourceEventID)
}

func TestRenderCorpus_FailsWholeOnBadEvent(t *testing.T) {
	// 单个坏事件让整个渲染失败，绝不静默跳过
	events := []*calendar.Event{
		{ID: "good", Summary: "One", Start: "2025-06-20T09:00:00Z", End: "2025-06-20T10:00:00Z"},
		{ID: "bad", Summary: "Two", Start: "garbage", End: "2025-06-21T10:00:00Z"},
	}

	docs, err := RenderCorpus(events)
	assert.Nil(t, docs)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
}

func TestRenderCorpus_Empty(t *testing.T) {
	docs, err := RenderCorpus(nil)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
