package chat

// Document 由单个日历事件渲染出的自然语言文档
// 固定结构，不携带开放式 metadata 映射，索引载荷因此天然全部为标量
type Document struct {
	Text          string `json:"text"`
	SourceEventID string `json:"source_event_id"`
}

// Chunk 文档切分后的索引单元
// 文档超过切分长度时一个事件会产生多个 chunk，每个 chunk 只属于一个事件
type Chunk struct {
	ID            string `json:"id"`
	Text          string `json:"text"`
	SourceEventID string `json:"source_event_id"`
	ChunkIndex    int    `json:"chunk_index"`
	TokenCount    int    `json:"token_count"`
}

// ScoredChunk 带相似度分数的检索结果
type ScoredChunk struct {
	Chunk
	Score float32 `json:"score"`
}

// 意图动作
const (
	// ActionAdd 添加日历事件
	ActionAdd = "add"
)

// IntentResult 意图识别结果
// Action 为空表示无动作（纯提问），等价于模型输出 no_action
type IntentResult struct {
	Action  string `json:"action"`
	Summary string `json:"summary"`
	Start   string `json:"start"` // ISO 8601
	End     string `json:"end"`
}

// NoAction 无动作结果
func NoAction() *IntentResult {
	return &IntentResult{}
}

// IsAddEvent 是否为添加事件意图
func (r *IntentResult) IsAddEvent() bool {
	return r != nil && r.Action == ActionAdd
}
