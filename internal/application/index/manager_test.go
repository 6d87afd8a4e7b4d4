package index

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/infrastructure/vector"
)

// stubEvents 固定事件集的仓库，只实现 Manager 用到的读路径
type stubEvents struct {
	events []*calendar.Event
	err    error
}

func (s *stubEvents) ListEvents(ctx context.Context) ([]*calendar.Event, error) {
	return s.events, s.err
}

func (s *stubEvents) AppendEvent(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	s.events = append(s.events, event)
	return event, nil
}

func (s *stubEvents) GetEvent(ctx context.Context, id string) (*calendar.Event, error) {
	return nil, nil
}

func (s *stubEvents) UpdateEvent(ctx context.Context, event *calendar.Event) error {
	return nil
}

func (s *stubEvents) DeleteEvent(ctx context.Context, id string) error {
	return nil
}

// unitEmbedder 每个文本一个单位向量，位置由调用顺序决定
// 所有向量彼此正交，检索结果完全由查询向量决定
type unitEmbedder struct {
	dim  int
	next int
}

func (u *unitEmbedder) EmbedTexts(texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i := range texts {
		vec := make([]float32, u.dim)
		vec[u.next%u.dim] = 1
		u.next++
		vectors[i] = vec
	}
	return vectors, nil
}

// failEmbedder 总是失败的嵌入器
type failEmbedder struct{}

func (failEmbedder) EmbedTexts(texts []string) ([][]float32, error) {
	return nil, fmt.Errorf("embedding service unavailable")
}

func testEvents() []*calendar.Event {
	return []*calendar.Event{
		{ID: "a", Summary: "Team sync", Start: "2025-06-20T09:30:00Z", End: "2025-06-20T10:00:00Z", Location: "Room 2"},
		{ID: "b", Summary: "Dentist", Start: "2025-06-21T15:00:00Z", End: "2025-06-21T16:00:00Z"},
	}
}

func TestManagerRebuild(t *testing.T) {
	store, err := vector.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	manager, err := NewManager(&stubEvents{events: testEvents()}, &unitEmbedder{dim: 8}, store)
	require.NoError(t, err)

	retriever, stats, err := manager.Rebuild(context.Background())
	require.NoError(t, err)
	require.NotNil(t, retriever)
	require.NotNil(t, stats)

	assert.Equal(t, 2, stats.Events)
	// 事件描述远短于切分长度，每个事件恰好一个 chunk
	assert.Equal(t, 2, stats.Chunks)
	assert.Positive(t, stats.Tokens)
	assert.False(t, stats.RebuiltAt.IsZero())

	assert.Equal(t, stats, manager.Stats())
}

func TestManagerRebuildEmptyCorpus(t *testing.T) {
	store, err := vector.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	manager, err := NewManager(&stubEvents{}, &unitEmbedder{dim: 8}, store)
	require.NoError(t, err)

	retriever, stats, err := manager.Rebuild(context.Background())
	require.NoError(t, err)
	require.NotNil(t, retriever)
	assert.Equal(t, 0, stats.Events)
	assert.Equal(t, 0, stats.Chunks)

	// 空索引上的检索返回空，不报错
	hits, err := retriever.Retrieve(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestManagerRebuildMalformedEventFailsWhole(t *testing.T) {
	store, err := vector.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	events := testEvents()
	events[1].Start = "garbage"

	manager, err := NewManager(&stubEvents{events: events}, &unitEmbedder{dim: 8}, store)
	require.NoError(t, err)

	retriever, stats, err := manager.Rebuild(context.Background())
	assert.Nil(t, retriever)
	assert.Nil(t, stats)
	assert.ErrorIs(t, err, ErrMalformedTimestamp)
	assert.Nil(t, manager.Stats())
}

func TestManagerRebuildEmbedFailure(t *testing.T) {
	store, err := vector.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	manager, err := NewManager(&stubEvents{events: testEvents()}, failEmbedder{}, store)
	require.NoError(t, err)

	retriever, _, err := manager.Rebuild(context.Background())
	assert.Nil(t, retriever)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed chunks")
}

func TestManagerStatsBeforeRebuild(t *testing.T) {
	store, err := vector.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	manager, err := NewManager(&stubEvents{}, &unitEmbedder{dim: 8}, store)
	require.NoError(t, err)

	assert.Nil(t, manager.Stats())
}

func TestRetrieverTopKAndThreshold(t *testing.T) {
	store, err := vector.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	// 构造五个彼此正交的事件向量
	embedder := &unitEmbedder{dim: 8}
	events := []*calendar.Event{
		{ID: "a", Summary: "One", Start: "2025-06-20T09:00:00Z", End: "2025-06-20T10:00:00Z"},
		{ID: "b", Summary: "Two", Start: "2025-06-21T09:00:00Z", End: "2025-06-21T10:00:00Z"},
		{ID: "c", Summary: "Three", Start: "2025-06-22T09:00:00Z", End: "2025-06-22T10:00:00Z"},
		{ID: "d", Summary: "Four", Start: "2025-06-23T09:00:00Z", End: "2025-06-23T10:00:00Z"},
		{ID: "e", Summary: "Five", Start: "2025-06-24T09:00:00Z", End: "2025-06-24T10:00:00Z"},
	}

	manager, err := NewManager(&stubEvents{events: events}, embedder, store)
	require.NoError(t, err)

	retriever, _, err := manager.Rebuild(context.Background())
	require.NoError(t, err)

	// 查询向量落在第 6 个维度，与 chunk 向量全部正交，低于阈值 → 空结果
	hits, err := retriever.Retrieve(context.Background(), "unrelated")
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestTokenCounter(t *testing.T) {
	counter, err := GetTokenCounter()
	require.NoError(t, err)

	assert.Zero(t, counter.CountTokens(""))
	assert.Positive(t, counter.CountTokens("Team sync from 9:30 AM to 10:00 AM at Room 2"))

	// 单例
	again, err := GetTokenCounter()
	require.NoError(t, err)
	assert.Same(t, counter, again)
}
