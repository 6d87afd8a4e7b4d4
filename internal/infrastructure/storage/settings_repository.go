package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/calenchat/backend/internal/domain/calendar"
)

// 确保 SettingsRepositoryImpl 实现了 calendar.SettingsRepository 接口
var _ calendar.SettingsRepository = (*SettingsRepositoryImpl)(nil)

// SettingsRepositoryImpl 设置仓库实现（单行表）
type SettingsRepositoryImpl struct {
	db *sql.DB
}

// NewSettingsRepository 创建设置仓库实例
func NewSettingsRepository(db *sql.DB) calendar.SettingsRepository {
	return &SettingsRepositoryImpl{db: db}
}

// GetSettings 读取设置，不存在时返回默认值
func (r *SettingsRepositoryImpl) GetSettings(ctx context.Context) (*calendar.Settings, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT timezone, notifications_enabled, preferred_language
		FROM settings
		WHERE id = 1`)

	var settings calendar.Settings
	var notificationsEnabled int

	err := row.Scan(&settings.Timezone, &notificationsEnabled, &settings.PreferredLanguage)
	if err == sql.ErrNoRows {
		return calendar.DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}

	settings.NotificationsEnabled = notificationsEnabled != 0
	return &settings, nil
}

// SaveSettings 写入设置
func (r *SettingsRepositoryImpl) SaveSettings(ctx context.Context, settings *calendar.Settings) error {
	notificationsEnabled := 0
	if settings.NotificationsEnabled {
		notificationsEnabled = 1
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO settings (id, timezone, notifications_enabled, preferred_language)
		VALUES (1, ?, ?, ?)`,
		settings.Timezone,
		notificationsEnabled,
		settings.PreferredLanguage,
	)
	if err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
