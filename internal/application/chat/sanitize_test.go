package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripReasoning(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "无思考块",
			input: "no_action",
			want:  "no_action",
		},
		{
			name:  "单个思考块",
			input: "<think>the user wants to add an event</think>\n{\"action\":\"add\"}",
			want:  "{\"action\":\"add\"}",
		},
		{
			name:  "跨行思考块",
			input: "<think>line one\nline two\nline three</think>\nno_action",
			want:  "no_action",
		},
		{
			name:  "多个思考块",
			input: "<think>first</think>\nanswer<think>second</think>",
			want:  "answer",
		},
		{
			name:  "只有思考块",
			input: "<think>nothing else</think>\n",
			want:  "",
		},
		{
			name:  "首尾空白被去除",
			input: "  \n  No events found for that date.  \n",
			want:  "No events found for that date.",
		},
		{
			name:  "未闭合标签保留",
			input: "<think>unterminated",
			want:  "<think>unterminated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripReasoning(tt.input))
		})
	}
}
