package vector

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calenchat/backend/internal/domain/chat"
)

func testChunk(id, text string) *chat.Chunk {
	return &chat.Chunk{
		ID:            id,
		Text:          text,
		SourceEventID: "evt-" + id,
		ChunkIndex:    0,
		TokenCount:    len(text) / 4,
	}
}

func TestLocalStoreRebuildAndQuery(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	chunks := []*chat.Chunk{
		testChunk("a", "Team sync at Room 2"),
		testChunk("b", "Dentist appointment"),
		testChunk("c", "Lunch with Alex"),
	}
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}

	require.NoError(t, store.Rebuild(context.Background(), chunks, vectors))

	// 与第一个向量同向的查询应命中 chunk a，分数 1.0
	hits, err := store.Query(context.Background(), []float32{1, 0, 0}, 3, 0.2)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
	assert.InDelta(t, 1.0, float64(hits[0].Score), 1e-6)
}

func TestLocalStoreQueryThresholdAndLimit(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	chunks := []*chat.Chunk{
		testChunk("exact", "x"),
		testChunk("close", "y"),
		testChunk("far", "z"),
		testChunk("opposite", "w"),
	}
	vectors := [][]float32{
		{1, 0},
		{1, 0.5},
		{0.1, 1},
		{-1, 0},
	}

	require.NoError(t, store.Rebuild(context.Background(), chunks, vectors))

	query := []float32{1, 0}

	t.Run("阈值过滤", func(t *testing.T) {
		// opposite 的相似度为 -1，far 约 0.0995，都低于阈值
		hits, err := store.Query(context.Background(), query, 10, 0.2)
		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.Equal(t, "exact", hits[0].ID)
		assert.Equal(t, "close", hits[1].ID)
	})

	t.Run("limit 截断", func(t *testing.T) {
		hits, err := store.Query(context.Background(), query, 1, 0.2)
		require.NoError(t, err)
		require.Len(t, hits, 1)
		assert.Equal(t, "exact", hits[0].ID)
	})

	t.Run("分数降序", func(t *testing.T) {
		hits, err := store.Query(context.Background(), query, 10, -1)
		require.NoError(t, err)
		require.Len(t, hits, 4)
		for i := 1; i < len(hits); i++ {
			assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
		}
	})
}

func TestLocalStoreConsecutiveRebuilds(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Rebuild(context.Background(),
		[]*chat.Chunk{testChunk("old", "old event")},
		[][]float32{{1, 0}},
	))

	// 第二次重建后旧 chunk 必须消失，索引只反映最新全集
	require.NoError(t, store.Rebuild(context.Background(),
		[]*chat.Chunk{testChunk("new", "new event")},
		[][]float32{{1, 0}},
	))

	hits, err := store.Query(context.Background(), []float32{1, 0}, 10, 0.2)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "new", hits[0].ID)
}

func TestLocalStoreEmptyRebuild(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Rebuild(context.Background(),
		[]*chat.Chunk{testChunk("a", "something")},
		[][]float32{{1}},
	))

	// 空语料重建合法，之后查询返回空
	require.NoError(t, store.Rebuild(context.Background(), nil, nil))

	hits, err := store.Query(context.Background(), []float32{1}, 3, 0.2)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLocalStoreQueryBeforeBuild(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	// 尚未建立索引时查询返回空而不是错误
	hits, err := store.Query(context.Background(), []float32{1, 0}, 3, 0.2)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestLocalStoreSnapshotSurvivesRestart(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Rebuild(context.Background(),
		[]*chat.Chunk{testChunk("a", "persisted event")},
		[][]float32{{1, 0}},
	))

	// 重新打开同一目录，快照应自动加载
	reopened, err := NewLocalStore(dir)
	require.NoError(t, err)

	hits, err := reopened.Query(context.Background(), []float32{1, 0}, 3, 0.2)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
}

func TestLocalStoreRebuildRemovesOldDirectory(t *testing.T) {
	dir := t.TempDir()

	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Rebuild(context.Background(),
		[]*chat.Chunk{testChunk("a", "first")},
		[][]float32{{1}},
	))

	// 在索引目录里放一个残留文件，重建必须连同目录一起清掉
	strayPath := filepath.Join(dir, "stray.tmp")
	require.NoError(t, os.WriteFile(strayPath, []byte("leftover"), 0644))

	require.NoError(t, store.Rebuild(context.Background(),
		[]*chat.Chunk{testChunk("b", "second")},
		[][]float32{{1}},
	))

	_, err = os.Stat(strayPath)
	assert.True(t, os.IsNotExist(err), "stray file should be removed by destructive rebuild")
}

func TestLocalStoreRebuildValidation(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	t.Run("chunk 与向量数量不一致", func(t *testing.T) {
		err := store.Rebuild(context.Background(),
			[]*chat.Chunk{testChunk("a", "x"), testChunk("b", "y")},
			[][]float32{{1, 0}},
		)
		assert.ErrorIs(t, err, ErrRebuild)
	})

	t.Run("向量维度不一致", func(t *testing.T) {
		err := store.Rebuild(context.Background(),
			[]*chat.Chunk{testChunk("a", "x"), testChunk("b", "y")},
			[][]float32{{1, 0}, {1, 0, 0}},
		)
		assert.ErrorIs(t, err, ErrRebuild)
	})

	t.Run("空向量", func(t *testing.T) {
		err := store.Rebuild(context.Background(),
			[]*chat.Chunk{testChunk("a", "x")},
			[][]float32{{}},
		)
		assert.ErrorIs(t, err, ErrRebuild)
	})
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "同向", a: []float32{1, 0}, b: []float32{2, 0}, want: 1},
		{name: "正交", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "反向", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "零向量", a: []float32{0, 0}, b: []float32{1, 0}, want: 0},
		{name: "维度不一致", a: []float32{1}, b: []float32{1, 0}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, float64(got), 1e-6)
		})
	}
}

func TestLocalStoreConcurrentQueryDuringRebuild(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Rebuild(context.Background(),
		[]*chat.Chunk{testChunk("a", "first")},
		[][]float32{{1, 0}},
	))

	// 重建期间持续查询（gin 会并发处理 /chat 与 /index/rebuild），
	// 查询只能看到完整的旧全集、完整的新全集或空，绝不触碰半成品
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
			}
			hits, qerr := store.Query(context.Background(), []float32{1, 0}, 3, 0.2)
			assert.NoError(t, qerr)
			for _, hit := range hits {
				assert.Contains(t, []string{"a", "b"}, hit.ID)
			}
		}
	}()

	for _, id := range []string{"b", "a"} {
		require.NoError(t, store.Rebuild(context.Background(),
			[]*chat.Chunk{testChunk(id, "rebuilt")},
			[][]float32{{1, 0}},
		))
	}

	close(done)
	wg.Wait()

	hits, err := store.Query(context.Background(), []float32{1, 0}, 3, 0.2)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "a", hits[0].ID)
}

func TestErrRebuildWrapping(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", ErrRebuild)
	assert.ErrorIs(t, wrapped, ErrRebuild)
}
