package calendar

import "context"

// EventRepository 日历事件仓库
// 对话核心只消费 ListEvents/AppendEvent；其余操作服务于 CRUD 接口层。
// AppendEvent 之后 ListEvents 必须立即可见（索引重建依赖这一点）
type EventRepository interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	AppendEvent(ctx context.Context, event *Event) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	UpdateEvent(ctx context.Context, event *Event) error
	DeleteEvent(ctx context.Context, id string) error
}

// ReminderRepository 提醒仓库
type ReminderRepository interface {
	ListReminders(ctx context.Context, eventID string) ([]*Reminder, error)
	SaveReminder(ctx context.Context, reminder *Reminder) error
	DeleteReminder(ctx context.Context, id string) error
}

// SettingsRepository 设置仓库
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) error
}
