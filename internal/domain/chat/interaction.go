package chat

import "context"

// 交互类型
const (
	InteractionKindQuestion = "question"
	InteractionKindMutation = "mutation"
	InteractionKindFailure  = "failure"
)

// Interaction 一轮对话记录
type Interaction struct {
	ID        string `json:"id"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	Kind      string `json:"kind"`
	CreatedAt int64  `json:"created_at"`
}

// InteractionRepository 对话历史仓库
type InteractionRepository interface {
	SaveInteraction(ctx context.Context, interaction *Interaction) error
	ListInteractions(ctx context.Context, limit int) ([]*Interaction, error)
	ClearInteractions(ctx context.Context) error
}
