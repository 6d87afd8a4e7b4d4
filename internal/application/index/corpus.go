package index

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/domain/chat"
)

// ErrMalformedTimestamp 事件时间戳无法解析
// 渲染遇到坏时间戳时整体失败，绝不静默跳过：
// 被跳过的事件会从检索结果里凭空消失，比重建失败更难排查
var ErrMalformedTimestamp = errors.New("malformed event timestamp")

// unknownLocation 无地点事件的占位文案
const unknownLocation = "Unknown Location"

// RenderEvent 将单个事件渲染为自然语言文档
// 输出形如 "Team sync from 9:30 AM to 10:00 AM at Room 2"，
// 时间为 12 小时制且不带前导零，供嵌入模型与回答提示词共用
func RenderEvent(event *calendar.Event) (*chat.Document, error) {
	start, err := calendar.ParseTimestamp(event.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: event %s start %q: %v", ErrMalformedTimestamp, event.ID, event.Start, err)
	}

	end, err := calendar.ParseTimestamp(event.End)
	if err != nil {
		return nil, fmt.Errorf("%w: event %s end %q: %v", ErrMalformedTimestamp, event.ID, event.End, err)
	}

	location := event.Location
	if strings.TrimSpace(location) == "" {
		location = unknownLocation
	}

	text := fmt.Sprintf("%s from %s to %s at %s",
		event.Summary, formatClock(start), formatClock(end), location)

	return &chat.Document{
		Text:          text,
		SourceEventID: event.ID,
	}, nil
}

// RenderCorpus 将全部事件渲染为文档集
// 任一事件渲染失败则整体失败
func RenderCorpus(events []*calendar.Event) ([]*chat.Document, error) {
	documents := make([]*chat.Document, 0, len(events))
	for _, event := range events {
		doc, err := RenderEvent(event)
		if err != nil {
			return nil, err
		}
		documents = append(documents, doc)
	}
	return documents, nil
}

// formatClock 12 小时制时间，不带前导零，例如 "9:30 AM"
func formatClock(t time.Time) string {
	return t.Format("3:04 PM")
}
