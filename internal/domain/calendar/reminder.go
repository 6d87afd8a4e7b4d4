package calendar

import "fmt"

// 提醒方式
const (
	ReminderMethodNotification = "notification"
	ReminderMethodEmail        = "email"
)

// Reminder 事件提醒
type Reminder struct {
	ID            string `json:"id"`
	EventID       string `json:"event_id"`
	MinutesBefore int    `json:"minutes_before"`
	Method        string `json:"method"`
	CreatedAt     int64  `json:"created_at"`
}

// Validate 校验提醒字段
func (r *Reminder) Validate() error {
	if r.EventID == "" {
		return fmt.Errorf("reminder event_id is required")
	}
	if r.MinutesBefore < 0 {
		return fmt.Errorf("reminder minutes_before must not be negative")
	}
	switch r.Method {
	case ReminderMethodNotification, ReminderMethodEmail:
		return nil
	default:
		return fmt.Errorf("unknown reminder method %q", r.Method)
	}
}
