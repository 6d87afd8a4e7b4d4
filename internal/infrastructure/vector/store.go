package vector

import (
	"context"
	"errors"

	"github.com/calenchat/backend/internal/domain/chat"
)

// ErrRebuild 索引重建失败
// 重建失败后旧索引已不可信，调用方必须把该错误上抛而不是继续检索
var ErrRebuild = errors.New("vector index rebuild failed")

// Store 向量索引后端
// Rebuild 是破坏性的全量重建：丢弃全部旧向量后用当前 chunk 集重建。
// 两次 Rebuild 不允许并发；单线程回合循环保证这一点，
// 并发实现必须在外层加互斥锁
type Store interface {
	// Rebuild 全量重建索引，chunks 与 vectors 一一对应
	Rebuild(ctx context.Context, chunks []*chat.Chunk, vectors [][]float32) error

	// Query 相似度检索：最多返回 limit 条、分数不低于 threshold 的结果，
	// 按分数降序。零结果不是错误
	Query(ctx context.Context, queryVector []float32, limit int, threshold float32) ([]*chat.ScoredChunk, error)

	// Close 释放后端资源
	Close() error
}
