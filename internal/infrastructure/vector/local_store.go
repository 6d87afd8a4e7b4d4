package vector

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"
	"time"

	"log/slog"

	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/log"
)

// 重建时删除旧索引目录的重试参数
const (
	removeRetries = 3
	removeBackoff = 1 * time.Second

	// settleDelay 解除旧索引引用后、删除目录前的等待，
	// 给操作系统层面的文件句柄一个释放窗口。
	// 这只是缓解手段，真正的正确性机制是带重试的删除
	settleDelay = 500 * time.Millisecond
)

// snapshotFile 索引目录内的快照文件名
const snapshotFile = "index.json"

// indexEntry 快照中的一条向量记录
type indexEntry struct {
	Chunk  chat.Chunk `json:"chunk"`
	Vector []float32  `json:"vector"`
}

// indexSnapshot 磁盘快照
type indexSnapshot struct {
	Dimension int          `json:"dimension"`
	Entries   []indexEntry `json:"entries"`
}

// LocalStore 磁盘目录承载的向量索引
// 进程内同一时刻至多存在一份活索引；索引目录归本实现独占，
// 重建时旧目录必须先完整退役（解引用并删除）再落新索引。
// 重建与查询来自不同的 HTTP 请求，可能并发，
// 活快照用原子指针承载，查询拿到的要么是旧全集要么是新全集
type LocalStore struct {
	dataPath string
	snapshot atomic.Pointer[indexSnapshot]
	logger   *slog.Logger
}

// NewLocalStore 创建本地向量索引
// 目录中已有快照时加载它，进程重启后在首次重建前仍可检索
func NewLocalStore(dataPath string) (*LocalStore, error) {
	s := &LocalStore{
		dataPath: dataPath,
		logger:   log.NewModuleLogger("vector", "local_store"),
	}

	if err := s.loadSnapshot(); err != nil {
		s.logger.Warn("Failed to load existing index snapshot, starting empty",
			"path", dataPath,
			"error", err,
		)
	}

	return s, nil
}

// Rebuild 全量重建索引
func (s *LocalStore) Rebuild(ctx context.Context, chunks []*chat.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks but %d vectors", ErrRebuild, len(chunks), len(vectors))
	}

	// 1. 解除当前活索引引用
	s.snapshot.Store(nil)

	// 2. 短暂等待，让仍持有旧文件句柄的读写方释放
	time.Sleep(settleDelay)

	// 3. 带重试地删除旧索引目录。删除失败必须响亮地失败：
	//    在残留数据上继续建索引会让已删除/过期的事件再次被检索到
	if err := removeDirWithRetry(s.dataPath, s.logger); err != nil {
		return fmt.Errorf("%w: failed to remove previous index directory: %v", ErrRebuild, err)
	}

	// 4. 从当前 chunk 全集构建并持久化新索引
	dimension := 0
	entries := make([]indexEntry, len(chunks))
	for i, chunk := range chunks {
		if len(vectors[i]) == 0 {
			return fmt.Errorf("%w: empty vector for chunk %s", ErrRebuild, chunk.ID)
		}
		if dimension == 0 {
			dimension = len(vectors[i])
		} else if len(vectors[i]) != dimension {
			return fmt.Errorf("%w: inconsistent vector dimension for chunk %s", ErrRebuild, chunk.ID)
		}
		entries[i] = indexEntry{
			Chunk:  *chunk,
			Vector: vectors[i],
		}
	}

	snapshot := &indexSnapshot{
		Dimension: dimension,
		Entries:   entries,
	}

	if err := s.writeSnapshot(snapshot); err != nil {
		return fmt.Errorf("%w: %v", ErrRebuild, err)
	}

	s.snapshot.Store(snapshot)

	s.logger.Info("Index rebuilt",
		"path", s.dataPath,
		"chunk_count", len(entries),
		"dimension", dimension,
	)

	return nil
}

// Query 相似度检索
func (s *LocalStore) Query(ctx context.Context, queryVector []float32, limit int, threshold float32) ([]*chat.ScoredChunk, error) {
	snapshot := s.snapshot.Load()
	if snapshot == nil || len(snapshot.Entries) == 0 {
		return nil, nil
	}

	scored := make([]*chat.ScoredChunk, 0, len(snapshot.Entries))
	for i := range snapshot.Entries {
		entry := &snapshot.Entries[i]
		score := cosineSimilarity(queryVector, entry.Vector)
		if score < threshold {
			continue
		}
		scored = append(scored, &chat.ScoredChunk{
			Chunk: entry.Chunk,
			Score: score,
		})
	}

	// 分数降序；同分时保持 chunk 原始顺序，检索结果可复现
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if limit > 0 && len(scored) > limit {
		scored = scored[:limit]
	}

	return scored, nil
}

// Close 释放资源
func (s *LocalStore) Close() error {
	s.snapshot.Store(nil)
	return nil
}

// DataPath 返回索引目录
func (s *LocalStore) DataPath() string {
	return s.dataPath
}

// loadSnapshot 从磁盘加载快照
func (s *LocalStore) loadSnapshot() error {
	path := filepath.Join(s.dataPath, snapshotFile)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	var snapshot indexSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("corrupt index snapshot: %w", err)
	}

	s.snapshot.Store(&snapshot)
	return nil
}

// writeSnapshot 持久化快照
func (s *LocalStore) writeSnapshot(snapshot *indexSnapshot) error {
	if err := os.MkdirAll(s.dataPath, 0755); err != nil {
		return fmt.Errorf("failed to create index directory: %w", err)
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal index snapshot: %w", err)
	}

	path := filepath.Join(s.dataPath, snapshotFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write index snapshot: %w", err)
	}

	return nil
}

// removeDirWithRetry 带重试地删除索引目录
// 容忍瞬时的文件锁竞争（Windows 上尤其常见）；
// 该策略只属于文件系统后端，其他后端没有这个问题
func removeDirWithRetry(path string, logger *slog.Logger) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= removeRetries; attempt++ {
		lastErr = os.RemoveAll(path)
		if lastErr == nil {
			return nil
		}

		logger.Warn("Failed to remove index directory, retrying",
			"path", path,
			"attempt", attempt,
			"max_attempts", removeRetries,
			"error", lastErr,
		)

		if attempt < removeRetries {
			time.Sleep(removeBackoff)
		}
	}

	return fmt.Errorf("failed to remove %s after %d attempts: %w", path, removeRetries, lastErr)
}

// cosineSimilarity 计算余弦相似度，取值 [-1, 1]
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return float32(dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)))
}
