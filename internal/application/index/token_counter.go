package index

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// 在包初始化时设置离线加载器
func init() {
	tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
}

// TokenCounter 使用 tiktoken 精确统计 chunk 的 Token 数量
// 统计结果随 chunk 一起写入索引载荷，用于索引统计接口
type TokenCounter struct {
	encoding *tiktoken.Tiktoken
	mu       sync.RWMutex
}

// tokenCounterInstance 单例实例
var (
	tokenCounterInstance *TokenCounter
	tokenCounterOnce     sync.Once
	tokenCounterErr      error
)

// GetTokenCounter 获取 TokenCounter 单例
// 使用单例模式避免重复加载编码文件
func GetTokenCounter() (*TokenCounter, error) {
	tokenCounterOnce.Do(func() {
		// 使用 cl100k_base 编码（与主流嵌入模型兼容）
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			tokenCounterErr = err
			return
		}
		tokenCounterInstance = &TokenCounter{
			encoding: enc,
		}
	})

	if tokenCounterErr != nil {
		return nil, tokenCounterErr
	}
	return tokenCounterInstance, nil
}

// CountTokens 计算文本的 Token 数量
func (c *TokenCounter) CountTokens(text string) int {
	if text == "" {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	tokens := c.encoding.Encode(text, nil, nil)
	return len(tokens)
}
