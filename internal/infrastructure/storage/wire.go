package storage

import (
	"database/sql"

	"github.com/google/wire"

	"github.com/calenchat/backend/internal/infrastructure/config"
)

// ProvideDB 提供数据库连接并初始化表结构
func ProvideDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := OpenDB(cfg.Path)
	if err != nil {
		return nil, err
	}
	if err := InitDatabase(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,                // 提供数据库连接
	NewEventRepository,       // 日历事件仓储
	NewReminderRepository,    // 提醒仓储
	NewSettingsRepository,    // 设置仓储
	NewInteractionRepository, // 对话历史仓储
)
