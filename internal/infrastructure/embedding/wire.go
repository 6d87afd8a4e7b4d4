package embedding

import (
	"github.com/google/wire"

	"github.com/calenchat/backend/internal/infrastructure/config"
)

// ProvideClient 从配置创建 Embedding 客户端
func ProvideClient(cfg *config.Config) *Client {
	return NewClient(cfg.Embedding.URL, cfg.Embedding.APIKey, cfg.Embedding.Model)
}

// ProviderSet Embedding 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideClient,
)
