package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Event 日历事件
// 时间戳以 ISO 8601 UTC（Z 后缀）字符串存储，与外部日历数据源保持一致
type Event struct {
	ID        string   `json:"id"`
	Summary   string   `json:"summary"`
	Start     string   `json:"start"` // ISO 8601, 例如 2025-06-20T15:00:00Z
	End       string   `json:"end"`
	Location  string   `json:"location"`  // 空字符串表示无地点
	Attendees []string `json:"attendees"` // 参与者标识，可为空
}

// Validate 校验事件字段
// 对话核心将事件视为 append-only：写入前必须通过校验，
// 否则错误时间戳会在索引阶段才暴露
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Summary) == "" {
		return fmt.Errorf("event summary is required")
	}

	start, err := ParseTimestamp(e.Start)
	if err != nil {
		return fmt.Errorf("invalid start timestamp %q: %w", e.Start, err)
	}

	end, err := ParseTimestamp(e.End)
	if err != nil {
		return fmt.Errorf("invalid end timestamp %q: %w", e.End, err)
	}

	if end.Before(start) {
		return fmt.Errorf("event end %q is before start %q", e.End, e.Start)
	}

	return nil
}

// ParseTimestamp 解析 ISO 8601 时间戳
// 日历数据源使用 Z 后缀表示 UTC，解析前先规范化为显式 +00:00 偏移
func ParseTimestamp(value string) (time.Time, error) {
	normalized := strings.Replace(value, "Z", "+00:00", 1)
	return time.Parse(time.RFC3339, normalized)
}
