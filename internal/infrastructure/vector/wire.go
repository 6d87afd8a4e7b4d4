package vector

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/wire"

	"github.com/calenchat/backend/internal/infrastructure/config"
)

// ProvideStore 按配置选择索引后端
func ProvideStore(cfg *config.VectorConfig) (Store, error) {
	switch cfg.Backend {
	case config.VectorBackendQdrant:
		return NewQdrantStore(cfg.QdrantHost, cfg.QdrantPort, cfg.Collection)
	case config.VectorBackendLocal, "":
		path := cfg.DataPath
		if path == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			path = filepath.Join(homeDir, ".calenchat", "calendar_index")
		}
		return NewLocalStore(path)
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.Backend)
	}
}

// ProviderSet 向量索引基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideStore,
)
