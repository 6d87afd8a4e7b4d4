package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/calenchat/backend/internal/domain/chat"
)

// 确保 InteractionRepositoryImpl 实现了 chat.InteractionRepository 接口
var _ chat.InteractionRepository = (*InteractionRepositoryImpl)(nil)

// InteractionRepositoryImpl 对话历史仓库实现
type InteractionRepositoryImpl struct {
	db *sql.DB
}

// NewInteractionRepository 创建对话历史仓库实例
func NewInteractionRepository(db *sql.DB) chat.InteractionRepository {
	return &InteractionRepositoryImpl{db: db}
}

// SaveInteraction 保存一轮对话
func (r *InteractionRepositoryImpl) SaveInteraction(ctx context.Context, interaction *chat.Interaction) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO interactions (id, query, answer, kind, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		interaction.ID,
		interaction.Query,
		interaction.Answer,
		interaction.Kind,
		interaction.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save interaction: %w", err)
	}

	return nil
}

// ListInteractions 按时间倒序列出历史记录
func (r *InteractionRepositoryImpl) ListInteractions(ctx context.Context, limit int) ([]*chat.Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, query, answer, kind, created_at
		FROM interactions
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query interactions: %w", err)
	}
	defer rows.Close()

	var interactions []*chat.Interaction
	for rows.Next() {
		var interaction chat.Interaction
		err := rows.Scan(
			&interaction.ID,
			&interaction.Query,
			&interaction.Answer,
			&interaction.Kind,
			&interaction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interaction: %w", err)
		}
		interactions = append(interactions, &interaction)
	}

	return interactions, rows.Err()
}

// ClearInteractions 清空历史记录
func (r *InteractionRepositoryImpl) ClearInteractions(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM interactions`); err != nil {
		return fmt.Errorf("failed to clear interactions: %w", err)
	}
	return nil
}
