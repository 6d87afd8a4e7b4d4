package index

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"

	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/calenchat/backend/internal/infrastructure/vector"
)

// 切分参数，与语料的事件描述长度匹配
const (
	chunkSize    = 512
	chunkOverlap = 50
)

// Stats 最近一次重建的索引统计
type Stats struct {
	Events    int       `json:"events"`
	Chunks    int       `json:"chunks"`
	Tokens    int       `json:"tokens"`
	RebuiltAt time.Time `json:"rebuilt_at"`
}

// Manager 索引管理器
// 负责 渲染 → 切分 → 向量化 → 全量重建 的完整流水线
// 重建是破坏性的：旧索引先整体废弃，再从当前事件全集构建新索引
type Manager struct {
	events   calendar.EventRepository
	embedder Embedder
	store    vector.Store
	splitter textsplitter.RecursiveCharacter
	counter  *TokenCounter
	logger   *slog.Logger

	// 串行化重建，同一时刻最多一个重建在进行
	mu    sync.Mutex
	stats *Stats
}

// NewManager 创建索引管理器
func NewManager(events calendar.EventRepository, embedder Embedder, store vector.Store) (*Manager, error) {
	counter, err := GetTokenCounter()
	if err != nil {
		return nil, fmt.Errorf("failed to init token counter: %w", err)
	}

	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
	)

	return &Manager{
		events:   events,
		embedder: embedder,
		store:    store,
		splitter: splitter,
		counter:  counter,
		logger:   log.NewModuleLogger("index", "manager"),
	}, nil
}

// Rebuild 全量重建索引并返回绑定新索引的检索器
// 任一阶段失败都不产出检索器，调用方必须继续持有旧检索器或进入降级状态
func (m *Manager) Rebuild(ctx context.Context) (*Retriever, *Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	startedAt := time.Now()

	// 1. 读取事件全集
	events, err := m.events.ListEvents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list events: %w", err)
	}

	// 2. 渲染为文档
	documents, err := RenderCorpus(events)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render corpus: %w", err)
	}

	// 3. 切分为 chunk
	chunks, err := m.splitDocuments(documents)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to split documents: %w", err)
	}

	// 4. 向量化
	var vectors [][]float32
	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, chunk := range chunks {
			texts[i] = chunk.Text
		}
		vectors, err = m.embedder.EmbedTexts(texts)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to embed chunks: %w", err)
		}
	}

	// 5. 破坏性重建存储
	if err := m.store.Rebuild(ctx, chunks, vectors); err != nil {
		return nil, nil, err
	}

	stats := &Stats{
		Events:    len(events),
		Chunks:    len(chunks),
		RebuiltAt: time.Now(),
	}
	for _, chunk := range chunks {
		stats.Tokens += chunk.TokenCount
	}
	m.stats = stats

	m.logger.Info("索引重建完成",
		"events", stats.Events,
		"chunks", stats.Chunks,
		"tokens", stats.Tokens,
		"duration", time.Since(startedAt).String())

	return NewRetriever(m.embedder, m.store), stats, nil
}

// Stats 返回最近一次重建的统计，尚未重建时返回 nil
func (m *Manager) Stats() *Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stats
}

// splitDocuments 将文档切分为 chunk
// 事件描述通常远短于切分长度，多数文档恰好产出一个 chunk
func (m *Manager) splitDocuments(documents []*chat.Document) ([]*chat.Chunk, error) {
	var chunks []*chat.Chunk
	for _, doc := range documents {
		pieces, err := m.splitter.SplitText(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to split document for event %s: %w", doc.SourceEventID, err)
		}

		for i, piece := range pieces {
			chunks = append(chunks, &chat.Chunk{
				ID:            uuid.NewString(),
				Text:          piece,
				SourceEventID: doc.SourceEventID,
				ChunkIndex:    i,
				TokenCount:    m.counter.CountTokens(piece),
			})
		}
	}
	return chunks, nil
}
