package vector

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/qdrant/go-client/qdrant"
)

// QdrantStore Qdrant 承载的向量索引
// 与 LocalStore 满足同一个 Store 契约：重建等价于删除集合后重建集合。
// 这里没有文件系统删除重试的问题，集合删除由 Qdrant 原子完成
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	logger     *slog.Logger
}

// NewQdrantStore 创建 Qdrant 向量索引
func NewQdrantStore(host string, port int, collection string) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to qdrant: %w", err)
	}

	return &QdrantStore{
		client:     client,
		collection: collection,
		logger:     log.NewModuleLogger("vector", "qdrant_store"),
	}, nil
}

// Rebuild 全量重建索引
func (s *QdrantStore) Rebuild(ctx context.Context, chunks []*chat.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", ErrRebuild, len(chunks), len(vectors))
	}

	// 1. 退役旧集合
	if err := s.dropCollection(ctx); err != nil {
		return fmt.Errorf("%w: failed to drop previous collection: %v", ErrRebuild, err)
	}

	// 空日历也要有可查询的空索引，维度未知时推迟建集合
	if len(chunks) == 0 {
		s.logger.Info("Index rebuilt empty", "collection", s.collection)
		return nil
	}

	// 2. 重建集合
	dimension := uint64(len(vectors[0]))
	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     dimension,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("%w: failed to create collection: %v", ErrRebuild, err)
	}

	// 3. 写入全量向量
	points := make([]*qdrant.PointStruct, len(chunks))
	for i, chunk := range chunks {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewID(chunk.ID),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"text":            chunk.Text,
				"source_event_id": chunk.SourceEventID,
				"chunk_index":     int64(chunk.ChunkIndex),
				"token_count":     int64(chunk.TokenCount),
			}),
		}
	}

	if _, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	}); err != nil {
		return fmt.Errorf("%w: failed to upsert points: %v", ErrRebuild, err)
	}

	s.logger.Info("Index rebuilt",
		"collection", s.collection,
		"chunk_count", len(chunks),
		"dimension", dimension,
	)

	return nil
}

// Query 相似度检索
func (s *QdrantStore) Query(ctx context.Context, queryVector []float32, limit int, threshold float32) ([]*chat.ScoredChunk, error) {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check collection: %w", err)
	}
	if !exists {
		return nil, nil
	}

	queryLimit := uint64(limit)
	scoreThreshold := threshold

	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(queryVector...),
		Limit:          &queryLimit,
		ScoreThreshold: &scoreThreshold,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query qdrant: %w", err)
	}

	results := make([]*chat.ScoredChunk, 0, len(hits))
	for _, hit := range hits {
		chunk := s.hitToChunk(hit)
		if chunk == nil {
			continue
		}
		results = append(results, chunk)
	}

	return results, nil
}

// Close 释放资源
func (s *QdrantStore) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// dropCollection 删除集合（不存在时静默成功）
func (s *QdrantStore) dropCollection(ctx context.Context) error {
	exists, err := s.collectionExists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	return s.client.DeleteCollection(ctx, s.collection)
}

// collectionExists 检查集合是否存在
func (s *QdrantStore) collectionExists(ctx context.Context) (bool, error) {
	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range collections {
		if name == s.collection {
			return true, nil
		}
	}
	return false, nil
}

// hitToChunk 将命中转换为检索结果
func (s *QdrantStore) hitToChunk(hit *qdrant.ScoredPoint) *chat.ScoredChunk {
	payload := hit.GetPayload()
	if payload == nil {
		return nil
	}

	result := &chat.ScoredChunk{
		Score: hit.GetScore(),
	}

	if id := hit.GetId(); id != nil {
		result.ID = id.GetUuid()
	}
	if val, ok := payload["text"]; ok {
		result.Text = val.GetStringValue()
	}
	if val, ok := payload["source_event_id"]; ok {
		result.SourceEventID = val.GetStringValue()
	}
	if val, ok := payload["chunk_index"]; ok {
		result.ChunkIndex = int(val.GetIntegerValue())
	}
	if val, ok := payload["token_count"]; ok {
		result.TokenCount = int(val.GetIntegerValue())
	}

	return result
}

// WaitReady 等待 Qdrant 可用
// 守护进程常与 Qdrant 一同拉起，启动阶段给出一个就绪窗口
func (s *QdrantStore) WaitReady(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, err := s.client.ListCollections(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("timeout waiting for qdrant to be ready")
}
