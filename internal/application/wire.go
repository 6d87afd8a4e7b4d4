package application

import (
	"github.com/google/wire"

	"github.com/calenchat/backend/internal/application/chat"
	"github.com/calenchat/backend/internal/application/index"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	index.ProviderSet,
	chat.ProviderSet,
)
