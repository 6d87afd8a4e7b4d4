package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{
			name:  "Z 后缀 UTC",
			value: "2025-06-20T15:00:00Z",
		},
		{
			name:  "显式偏移",
			value: "2025-06-20T15:00:00+02:00",
		},
		{
			name:    "缺少时区",
			value:   "2025-06-20T15:00:00",
			wantErr: true,
		},
		{
			name:    "纯日期",
			value:   "2025-06-20",
			wantErr: true,
		},
		{
			name:    "空字符串",
			value:   "",
			wantErr: true,
		},
		{
			name:    "自然语言",
			value:   "next Friday",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := ParseTimestamp(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, parsed.IsZero())
		})
	}
}

func TestParseTimestamp_ZSuffixEqualsExplicitOffset(t *testing.T) {
	// Z 后缀与 +00:00 指向同一时刻
	fromZ, err := ParseTimestamp("2025-06-20T15:00:00Z")
	require.NoError(t, err)

	fromOffset, err := ParseTimestamp("2025-06-20T15:00:00+00:00")
	require.NoError(t, err)

	assert.True(t, fromZ.Equal(fromOffset))
	assert.Equal(t, time.Date(2025, 6, 20, 15, 0, 0, 0, time.UTC), fromZ.UTC())
}

func TestEventValidate(t *testing.T) {
	valid := Event{
		ID:        "evt-1",
		Summary:   "Team sync",
		Start:     "2025-06-20T15:00:00Z",
		End:       "2025-06-20T16:00:00Z",
		Attendees: []string{},
	}

	t.Run("合法事件", func(t *testing.T) {
		event := valid
		assert.NoError(t, event.Validate())
	})

	t.Run("摘要为空", func(t *testing.T) {
		event := valid
		event.Summary = "   "
		assert.Error(t, event.Validate())
	})

	t.Run("开始时间非法", func(t *testing.T) {
		event := valid
		event.Start = "tomorrow"
		assert.Error(t, event.Validate())
	})

	t.Run("结束时间非法", func(t *testing.T) {
		event := valid
		event.End = "2025-06-20"
		assert.Error(t, event.Validate())
	})

	t.Run("结束早于开始", func(t *testing.T) {
		event := valid
		event.Start = "2025-06-20T16:00:00Z"
		event.End = "2025-06-20T15:00:00Z"
		assert.Error(t, event.Validate())
	})

	t.Run("零时长事件合法", func(t *testing.T) {
		event := valid
		event.End = event.Start
		assert.NoError(t, event.Validate())
	})
}
