package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/log"
)

// ErrModelInvocation 模型调用失败
var ErrModelInvocation = errors.New("model invocation failed")

// CompletionClient 大模型补全能力
type CompletionClient interface {
	Complete(prompt string) (string, error)
}

// intentPromptTemplate 意图识别提示词
// 要求模型只输出 JSON 或字面量 no_action，方便机器解析
const intentPromptTemplate = `Today is %s.
You are a calendar assistant.
If the user wants to add a calendar event, return a JSON object like:
{
  "action": "add",
  "summary": "...",
  "start": "...",   // ISO8601 format
  "end": "..."
}
If the user is just asking questions or making statements without intent to add events, return exactly "no_action".

Do NOT interpret the user as wanting to meet with the assistant.
Only respond with the JSON or "no_action", no explanations or other text.

User input:
%s
`

// noActionLiteral 模型表示无动作时输出的字面量
const noActionLiteral = "no_action"

// Classifier 用户意图分类器
type Classifier struct {
	llm    CompletionClient
	now    func() time.Time
	logger *slog.Logger
}

// NewClassifier 创建意图分类器
func NewClassifier(llm CompletionClient) *Classifier {
	return &Classifier{
		llm:    llm,
		now:    time.Now,
		logger: log.NewModuleLogger("chat", "intent"),
	}
}

// Classify 识别用户输入的意图
// 模型输出无法解析时降级为无动作：把一次解析失败当成提问处理，
// 最坏结果是少加一个事件，而误判成添加会污染日历
// 模型调用本身失败时返回错误，由上层决定本轮对话如何收场
func (c *Classifier) Classify(input string) (*chat.IntentResult, error) {
	today := c.now().Format("2006-01-02")
	prompt := fmt.Sprintf(intentPromptTemplate, today, input)

	raw, err := c.llm.Complete(prompt)
	if err != nil {
		return nil, fmt.Errorf("intent %w: %v", ErrModelInvocation, err)
	}

	content := StripReasoning(raw)

	if strings.HasPrefix(strings.ToLower(content), noActionLiteral) {
		return chat.NoAction(), nil
	}

	var result chat.IntentResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		c.logger.Warn("意图 JSON 解析失败，降级为无动作",
			"content", content,
			"error", err.Error())
		return chat.NoAction(), nil
	}

	return &result, nil
}
