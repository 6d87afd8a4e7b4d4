package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/calenchat/backend/internal/domain/calendar"
)

// 确保 ReminderRepositoryImpl 实现了 calendar.ReminderRepository 接口
var _ calendar.ReminderRepository = (*ReminderRepositoryImpl)(nil)

// ReminderRepositoryImpl 提醒仓库实现
type ReminderRepositoryImpl struct {
	db *sql.DB
}

// NewReminderRepository 创建提醒仓库实例
func NewReminderRepository(db *sql.DB) calendar.ReminderRepository {
	return &ReminderRepositoryImpl{db: db}
}

// ListReminders 列出事件的全部提醒
func (r *ReminderRepositoryImpl) ListReminders(ctx context.Context, eventID string) ([]*calendar.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, event_id, minutes_before, method, created_at
		FROM reminders
		WHERE event_id = ?
		ORDER BY minutes_before ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminders: %w", err)
	}
	defer rows.Close()

	var reminders []*calendar.Reminder
	for rows.Next() {
		var reminder calendar.Reminder
		err := rows.Scan(
			&reminder.ID,
			&reminder.EventID,
			&reminder.MinutesBefore,
			&reminder.Method,
			&reminder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		reminders = append(reminders, &reminder)
	}

	return reminders, rows.Err()
}

// SaveReminder 保存提醒
func (r *ReminderRepositoryImpl) SaveReminder(ctx context.Context, reminder *calendar.Reminder) error {
	if err := reminder.Validate(); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO reminders (id, event_id, minutes_before, method, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		reminder.ID,
		reminder.EventID,
		reminder.MinutesBefore,
		reminder.Method,
		reminder.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}

	return nil
}

// DeleteReminder 删除提醒
func (r *ReminderRepositoryImpl) DeleteReminder(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("reminder %s not found", id)
	}

	return nil
}
