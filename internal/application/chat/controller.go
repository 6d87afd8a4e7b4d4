package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/calenchat/backend/internal/application/index"
	"github.com/calenchat/backend/internal/domain/calendar"
	"github.com/calenchat/backend/internal/domain/chat"
	"github.com/calenchat/backend/internal/infrastructure/log"
	"github.com/calenchat/backend/internal/infrastructure/notify"
)

// Transcriber 语音转写能力
type Transcriber interface {
	Transcribe(audio []byte, filename string) (string, error)
}

// Notifier 前端推送能力
type Notifier interface {
	Broadcast(eventType string, payload interface{}) error
}

// TurnResult 一轮对话的结果
type TurnResult struct {
	Answer     string          `json:"answer"`
	Transcript string          `json:"transcript,omitempty"`
	EventAdded *calendar.Event `json:"event_added,omitempty"`
}

// Controller 对话控制器
// 串起 意图识别 → 事件写入/索引重建 或 检索 → 回答生成 的完整回合，
// 并持有当前生效的检索器
type Controller struct {
	events       calendar.EventRepository
	interactions chat.InteractionRepository
	manager      *index.Manager
	classifier   *Classifier
	responder    *Responder
	transcriber  Transcriber
	notifier     Notifier
	logger       *slog.Logger

	// retriever 只在初始化和重建成功后整体替换，
	// 重建失败时保持 nil 或旧值，绝不指向半成品索引
	mu        sync.RWMutex
	retriever *index.Retriever
}

// NewController 创建对话控制器
func NewController(
	events calendar.EventRepository,
	interactions chat.InteractionRepository,
	manager *index.Manager,
	classifier *Classifier,
	responder *Responder,
	transcriber Transcriber,
	notifier Notifier,
) *Controller {
	return &Controller{
		events:       events,
		interactions: interactions,
		manager:      manager,
		classifier:   classifier,
		responder:    responder,
		transcriber:  transcriber,
		notifier:     notifier,
		logger:       log.NewModuleLogger("chat", "controller"),
	}
}

// Start 启动时构建初始索引
// 初始重建失败是致命错误，没有索引的服务回答不了任何问题
func (c *Controller) Start(ctx context.Context) error {
	retriever, stats, err := c.manager.Rebuild(ctx)
	if err != nil {
		return fmt.Errorf("initial index build failed: %w", err)
	}

	c.mu.Lock()
	c.retriever = retriever
	c.mu.Unlock()

	c.logger.Info("初始索引构建完成",
		"events", stats.Events,
		"chunks", stats.Chunks)
	return nil
}

// HandleTurn 处理一轮文本对话
func (c *Controller) HandleTurn(ctx context.Context, input string) (*TurnResult, error) {
	// 1. 意图识别
	intent, err := c.classifier.Classify(input)
	if err != nil {
		c.recordFailure(ctx, input, err)
		return nil, err
	}

	// 2. 添加事件分支
	if intent.IsAddEvent() {
		return c.handleAddEvent(ctx, input, intent)
	}

	// 3. 问答分支
	return c.handleQuestion(ctx, input)
}

// HandleVoiceTurn 处理一轮语音对话
// 先转写为文本，再走普通文本回合
func (c *Controller) HandleVoiceTurn(ctx context.Context, audio []byte, filename string) (*TurnResult, error) {
	transcript, err := c.transcriber.Transcribe(audio, filename)
	if err != nil {
		return nil, fmt.Errorf("failed to transcribe audio: %w", err)
	}

	c.logger.Info("语音转写完成", "transcript_length", len(transcript))

	result, err := c.HandleTurn(ctx, transcript)
	if err != nil {
		return nil, err
	}
	result.Transcript = transcript
	return result, nil
}

// handleAddEvent 添加事件并重建索引
func (c *Controller) handleAddEvent(ctx context.Context, input string, intent *chat.IntentResult) (*TurnResult, error) {
	event := &calendar.Event{
		ID:        uuid.NewString(),
		Summary:   intent.Summary,
		Start:     intent.Start,
		End:       intent.End,
		Location:  "",
		Attendees: []string{},
	}

	if err := event.Validate(); err != nil {
		// 意图识别给出了无法成事件的字段，本轮失败但不落库
		c.recordFailure(ctx, input, err)
		return nil, fmt.Errorf("intent produced invalid event: %w", err)
	}

	// 相同 (summary, start, end) 的重复事件允许写入，只留日志
	// 用户确实可能连续安排两场同名会议，拦截比放行更容易误伤
	if dup, derr := c.findDuplicate(ctx, event); derr == nil && dup != nil {
		c.logger.Warn("添加了重复事件",
			"summary", event.Summary,
			"start", event.Start,
			"existing_id", dup.ID)
	}

	if _, err := c.events.AppendEvent(ctx, event); err != nil {
		c.recordFailure(ctx, input, err)
		return nil, fmt.Errorf("failed to append event: %w", err)
	}

	// 事件已落库，索引必须重建；重建失败时事件保留，
	// 但本轮必须响亮失败，不能让用户以为新事件可检索
	retriever, _, err := c.manager.Rebuild(ctx)
	if err != nil {
		c.recordFailure(ctx, input, err)
		if c.notifier != nil {
			_ = c.notifier.Broadcast(notify.TurnFailed, map[string]string{"reason": err.Error()})
		}
		return nil, fmt.Errorf("event %s saved but index rebuild failed: %w", event.ID, err)
	}

	c.mu.Lock()
	c.retriever = retriever
	c.mu.Unlock()

	answer := fmt.Sprintf("Added event: %s from %s to %s", event.Summary, event.Start, event.End)
	c.recordInteraction(ctx, input, answer, chat.InteractionKindMutation)

	if c.notifier != nil {
		_ = c.notifier.Broadcast(notify.EventAdded, event)
		_ = c.notifier.Broadcast(notify.IndexRebuilt, c.manager.Stats())
	}

	return &TurnResult{
		Answer:     answer,
		EventAdded: event,
	}, nil
}

// handleQuestion 检索并生成回答
func (c *Controller) handleQuestion(ctx context.Context, input string) (*TurnResult, error) {
	c.mu.RLock()
	retriever := c.retriever
	c.mu.RUnlock()

	if retriever == nil {
		err := fmt.Errorf("retriever not initialized")
		c.recordFailure(ctx, input, err)
		return nil, err
	}

	hits, err := retriever.Retrieve(ctx, input)
	if err != nil {
		c.recordFailure(ctx, input, err)
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	answer, err := c.responder.Answer(input, hits)
	if err != nil {
		c.recordFailure(ctx, input, err)
		return nil, err
	}

	c.recordInteraction(ctx, input, answer, chat.InteractionKindQuestion)

	return &TurnResult{Answer: answer}, nil
}

// RebuildIndex 手动触发全量重建
// 成功后替换当前检索器并推送通知
func (c *Controller) RebuildIndex(ctx context.Context) (*index.Stats, error) {
	retriever, stats, err := c.manager.Rebuild(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.retriever = retriever
	c.mu.Unlock()

	if c.notifier != nil {
		_ = c.notifier.Broadcast(notify.IndexRebuilt, stats)
	}

	return stats, nil
}

// IndexStats 当前索引统计
func (c *Controller) IndexStats() *index.Stats {
	return c.manager.Stats()
}

// findDuplicate 查找 (summary, start, end) 完全相同的既有事件
func (c *Controller) findDuplicate(ctx context.Context, event *calendar.Event) (*calendar.Event, error) {
	existing, err := c.events.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range existing {
		if e.Summary == event.Summary && e.Start == event.Start && e.End == event.End {
			return e, nil
		}
	}
	return nil, nil
}

// recordInteraction 保存一轮对话记录
// 历史记录是旁路数据，保存失败只记日志不影响回合结果
func (c *Controller) recordInteraction(ctx context.Context, query, answer, kind string) {
	interaction := &chat.Interaction{
		ID:        uuid.NewString(),
		Query:     query,
		Answer:    answer,
		Kind:      kind,
		CreatedAt: time.Now().Unix(),
	}
	if err := c.interactions.SaveInteraction(ctx, interaction); err != nil {
		c.logger.Warn("保存对话记录失败", "error", err.Error())
	}
}

// recordFailure 保存失败回合
func (c *Controller) recordFailure(ctx context.Context, query string, cause error) {
	c.recordInteraction(ctx, query, cause.Error(), chat.InteractionKindFailure)
}
