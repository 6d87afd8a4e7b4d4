package chat

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/log"
)

// answerPromptTemplate 回答生成提示词
// 回答只允许基于检索到的上下文，模型不得编造日历之外的信息
const answerPromptTemplate = `
You are a concise and practical productivity assistant focused on calendar management.
Respond shortly and clearly. No extra explanations or questions.
- Provide short, clear answers focused on the user's calendar events.
- If the user asks about events on a specific date, only list all matching events with their time, summary, and location. if no event on this date say something like "no event".
- Show times in a human-readable 12-hour format with AM/PM (e.g., "5 PM", "9:30 AM").
- If no events match, respond with: "No events found for that date."
- For general calendar-related questions, answer briefly and clearly.
- Do not add extra explanations or questions.
- Do not invent or assume information not present in the context.

Context:
%s

Question:
%s
`

// Responder 基于检索上下文的回答生成器
type Responder struct {
	llm    CompletionClient
	logger *slog.Logger
}

// NewResponder 创建回答生成器
func NewResponder(llm CompletionClient) *Responder {
	return &Responder{
		llm:    llm,
		logger: log.NewModuleLogger("chat", "responder"),
	}
}

// Answer 生成基于上下文的回答
// 检索为空时上下文为空字符串，提示词会引导模型回答没有匹配事件，
// 空检索不是错误，照常走模型
func (r *Responder) Answer(question string, hits []*chat.ScoredChunk) (string, error) {
	texts := make([]string, len(hits))
	for i, hit := range hits {
		texts[i] = hit.Text
	}
	context := strings.Join(texts, "\n")

	prompt := fmt.Sprintf(answerPromptTemplate, context, question)

	raw, err := r.llm.Complete(prompt)
	if err != nil {
		return "", fmt.Errorf("answer %w: %v", ErrModelInvocation, err)
	}

	answer := StripReasoning(raw)

	r.logger.Debug("回答生成完成",
		"context_chunks", len(hits),
		"answer_length", len(answer))

	return answer, nil
}
