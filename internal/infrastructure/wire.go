package infrastructure

import (
	"github.com/google/wire"

	"github.com/calenchat/backend/internal/infrastructure/config"
	"github.com/calenchat/backend/internal/infrastructure/embedding"
	"github.com/calenchat/backend/internal/infrastructure/llm"
	"github.com/calenchat/backend/internal/infrastructure/notify"
	"github.com/calenchat/backend/internal/infrastructure/storage"
	"github.com/calenchat/backend/internal/infrastructure/transcribe"
	"github.com/calenchat/backend/internal/infrastructure/vector"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	notify.ProviderSet,
	embedding.ProviderSet,
	llm.ProviderSet,
	transcribe.ProviderSet,
	vector.ProviderSet,
)
