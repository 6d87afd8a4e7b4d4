package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/calenchat/backend/internal/domain/calendar"
)

// 确保 EventRepositoryImpl 实现了 calendar.EventRepository 接口
var _ calendar.EventRepository = (*EventRepositoryImpl)(nil)

// EventRepositoryImpl 日历事件仓库实现
type EventRepositoryImpl struct {
	db *sql.DB
}

// NewEventRepository 创建日历事件仓库实例
func NewEventRepository(db *sql.DB) calendar.EventRepository {
	return &EventRepositoryImpl{db: db}
}

// ListEvents 列出全部事件，按开始时间排序
func (r *EventRepositoryImpl) ListEvents(ctx context.Context) ([]*calendar.Event, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, summary, start, end, location, attendees
		FROM events
		ORDER BY start ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []*calendar.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// AppendEvent 追加事件
// 写入后对 ListEvents 立即可见，索引重建依赖这一点
func (r *EventRepositoryImpl) AppendEvent(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	attendeesJSON, err := json.Marshal(event.Attendees)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal attendees: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO events (id, summary, start, end, location, attendees, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID,
		event.Summary,
		event.Start,
		event.End,
		event.Location,
		string(attendeesJSON),
		time.Now().Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return event, nil
}

// GetEvent 按 ID 获取事件
func (r *EventRepositoryImpl) GetEvent(ctx context.Context, id string) (*calendar.Event, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, summary, start, end, location, attendees
		FROM events
		WHERE id = ?`, id)

	event, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// UpdateEvent 更新事件
func (r *EventRepositoryImpl) UpdateEvent(ctx context.Context, event *calendar.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	attendeesJSON, err := json.Marshal(event.Attendees)
	if err != nil {
		return fmt.Errorf("failed to marshal attendees: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE events
		SET summary = ?, start = ?, end = ?, location = ?, attendees = ?
		WHERE id = ?`,
		event.Summary,
		event.Start,
		event.End,
		event.Location,
		string(attendeesJSON),
		event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("event %s not found", event.ID)
	}

	return nil
}

// DeleteEvent 删除事件
func (r *EventRepositoryImpl) DeleteEvent(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("event %s not found", id)
	}

	return nil
}

// rowScanner 兼容 *sql.Row 与 *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// scanEvent 扫描一行事件记录
func scanEvent(row rowScanner) (*calendar.Event, error) {
	var event calendar.Event
	var attendeesJSON string

	err := row.Scan(
		&event.ID,
		&event.Summary,
		&event.Start,
		&event.End,
		&event.Location,
		&attendeesJSON,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	if err := json.Unmarshal([]byte(attendeesJSON), &event.Attendees); err != nil {
		return nil, fmt.Errorf("corrupt attendees for event %s: %w", event.ID, err)
	}
	if event.Attendees == nil {
		event.Attendees = []string{}
	}

	return &event, nil
}
