package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/calenchat/backend/internal/infrastructure/vector"
)

// 检索参数
// 阈值偏低是刻意的：日历语料短而同质，过高的阈值会把
// 换种说法的提问全部挡成空结果
const (
	// DefaultTopK 最多返回的 chunk 数
	DefaultTopK = 3
	// DefaultScoreThreshold 相似度下限
	DefaultScoreThreshold float32 = 0.2
)

// Embedder 文本向量化能力
type Embedder interface {
	EmbedTexts(texts []string) ([][]float32, error)
}

// Retriever 相似度阈值检索器
// 绑定一次重建产出的索引快照，重建后必须整体换新，不支持原地更新
type Retriever struct {
	embedder  Embedder
	store     vector.Store
	topK      int
	threshold float32
	logger    *slog.Logger
}

// NewRetriever 创建检索器
func NewRetriever(embedder Embedder, store vector.Store) *Retriever {
	return &Retriever{
		embedder:  embedder,
		store:     store,
		topK:      DefaultTopK,
		threshold: DefaultScoreThreshold,
		logger:    log.NewModuleLogger("index", "retriever"),
	}
}

// Retrieve 检索与查询最相关的 chunk
// 结果按分数降序，数量不超过 topK；没有达到阈值的 chunk 时返回空切片，
// 空结果交由上层生成 "No events found" 类回答，本层不视为错误
func (r *Retriever) Retrieve(ctx context.Context, query string) ([]*chat.ScoredChunk, error) {
	vectors, err := r.embedder.EmbedTexts([]string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query vector, got %d", len(vectors))
	}

	hits, err := r.store.Query(ctx, vectors[0], r.topK, r.threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to query vector store: %w", err)
	}

	r.logger.Debug("检索完成",
		"query_length", len(query),
		"hits", len(hits))

	return hits, nil
}
