package llm

import (
	"github.com/google/wire"

	"github.com/calenchat/backend/internal/infrastructure/config"
)

// ProvideClient 从配置创建 Chat 客户端
func ProvideClient(cfg *config.Config) *Client {
	return NewClient(cfg.LLM.URL, cfg.LLM.APIKey, cfg.LLM.Model)
}

// ProviderSet LLM 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideClient,
)
