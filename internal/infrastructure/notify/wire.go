package notify

import "github.com/google/wire"

// ProviderSet 推送基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	NewHub,
)
