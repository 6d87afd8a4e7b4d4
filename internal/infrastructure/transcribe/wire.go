package transcribe

import (
	"github.com/google/wire"

	"github.com/calenchat/backend/internal/infrastructure/config"
)

// ProvideClient 从配置创建转写客户端
func ProvideClient(cfg *config.Config) *Client {
	return NewClient(cfg.Transcribe.URL)
}

// ProviderSet 转写基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideClient,
)
