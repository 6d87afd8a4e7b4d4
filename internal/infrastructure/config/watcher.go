package config

import (
	"fmt"
	"path/filepath"

	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher 配置文件热更新监听器
// 只对可热更新的字段生效（日志级别等），结构性配置仍需重启
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload func(*Config)
	logger   *slog.Logger
	done     chan struct{}
}

// NewWatcher 创建配置监听器
func NewWatcher(path string, onReload func(*Config), logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &Watcher{
		path:     path,
		watcher:  fsWatcher,
		onReload: onReload,
		logger:   logger,
		done:     make(chan struct{}),
	}, nil
}

// Start 开始监听
// 监听配置文件所在目录：编辑器保存时常以 rename+create 方式替换文件，
// 直接监听文件本身会在第一次替换后失效
func (w *Watcher) Start() error {
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch config directory: %w", err)
	}

	go w.loop()
	return nil
}

// Stop 停止监听
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) loop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			cfg, err := LoadFrom(w.path)
			if err != nil {
				w.logger.Warn("Failed to reload config, keeping previous values",
					"path", w.path,
					"error", err,
				)
				continue
			}

			w.logger.Info("Config reloaded", "path", w.path)
			if w.onReload != nil {
				w.onReload(cfg)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("Config watcher error", "error", err)

		case <-w.done:
			return
		}
	}
}
