//go:build wireinject
// +build wireinject

package wire

import (
	"github.com/google/wire"

	"github.com/calenchat/backend/internal/application"
	appChat "github.com/calenchat/backend/internal/application/chat"
	appIndex "github.com/calenchat/backend/internal/application/index"
	"github.com/calenchat/backend/internal/infrastructure"
	"github.com/calenchat/backend/internal/infrastructure/embedding"
	"github.com/calenchat/backend/internal/infrastructure/llm"
	"github.com/calenchat/backend/internal/infrastructure/notify"
	"github.com/calenchat/backend/internal/infrastructure/transcribe"
	"github.com/calenchat/backend/internal/interfaces"
)

// InitializeAll 初始化所有服务（HTTP + MCP）
func InitializeAll() (*App, error) {
	wire.Build(
		// 按层组合 ProviderSet
		infrastructure.ProviderSet, // 基础设施层
		application.ProviderSet,    // 应用层
		interfaces.ProviderSet,     // 接口层
		// 接口绑定：应用层能力 -> 基础设施实现
		wire.Bind(new(appIndex.Embedder), new(*embedding.Client)),
		wire.Bind(new(appChat.CompletionClient), new(*llm.Client)),
		wire.Bind(new(appChat.Transcriber), new(*transcribe.Client)),
		wire.Bind(new(appChat.Notifier), new(*notify.Hub)),
		NewApp, // 组合所有服务的应用结构
	)
	return nil, nil
}
