package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// GetDBPath 获取 calenchat 数据库路径
// Windows: %USERPROFILE%\.calenchat\calenchat.db
// macOS/Linux: ~/.calenchat/calenchat.db
func GetDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".calenchat", "calenchat.db"), nil
}

// OpenDB 打开数据库连接
// path 为空时使用默认路径
func OpenDB(path string) (*sql.DB, error) {
	if path == "" {
		defaultPath, err := GetDBPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	// 确保目录存在
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// InitDatabase 初始化表结构
func InitDatabase(db *sql.DB) error {
	createEventsSQL := `
	CREATE TABLE IF NOT EXISTS events (
		id TEXT PRIMARY KEY,
		summary TEXT NOT NULL,
		start TEXT NOT NULL,
		end TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		attendees TEXT NOT NULL DEFAULT '[]',
		created_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createEventsSQL); err != nil {
		return fmt.Errorf("failed to create events table: %w", err)
	}

	createEventsIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_events_start ON events(start);`

	if _, err := db.Exec(createEventsIndexSQL); err != nil {
		return fmt.Errorf("failed to create events index: %w", err)
	}

	createRemindersSQL := `
	CREATE TABLE IF NOT EXISTS reminders (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		minutes_before INTEGER NOT NULL,
		method TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		FOREIGN KEY (event_id) REFERENCES events(id) ON DELETE CASCADE
	);`

	if _, err := db.Exec(createRemindersSQL); err != nil {
		return fmt.Errorf("failed to create reminders table: %w", err)
	}

	createRemindersIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_reminders_event ON reminders(event_id);`

	if _, err := db.Exec(createRemindersIndexSQL); err != nil {
		return fmt.Errorf("failed to create reminders index: %w", err)
	}

	createSettingsSQL := `
	CREATE TABLE IF NOT EXISTS settings (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		timezone TEXT NOT NULL,
		notifications_enabled INTEGER NOT NULL,
		preferred_language TEXT NOT NULL
	);`

	if _, err := db.Exec(createSettingsSQL); err != nil {
		return fmt.Errorf("failed to create settings table: %w", err)
	}

	createInteractionsSQL := `
	CREATE TABLE IF NOT EXISTS interactions (
		id TEXT PRIMARY KEY,
		query TEXT NOT NULL,
		answer TEXT NOT NULL,
		kind TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);`

	if _, err := db.Exec(createInteractionsSQL); err != nil {
		return fmt.Errorf("failed to create interactions table: %w", err)
	}

	createInteractionsIndexSQL := `
	CREATE INDEX IF NOT EXISTS idx_interactions_created ON interactions(created_at);`

	if _, err := db.Exec(createInteractionsIndexSQL); err != nil {
		return fmt.Errorf("failed to create interactions index: %w", err)
	}

	return nil
}
