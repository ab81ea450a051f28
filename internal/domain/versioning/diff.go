package versioning

import (
	"fmt"
	"strings"

	"github.com/roundtable/backend/internal/domain/discussion"
)

// ModifiedMessage 两侧都存在但内容不同的消息
type ModifiedMessage struct {
	ID       string             `json:"id"`
	Old      discussion.Message `json:"old"`
	New      discussion.Message `json:"new"`
	LineDiff []LineChange       `json:"lineDiff"`
}

// DiffStats 差异计数
type DiffStats struct {
	Added    int `json:"added"`
	Removed  int `json:"removed"`
	Modified int `json:"modified"`
}

// IsEmpty 是否没有任何消息变化
func (s DiffStats) IsEmpty() bool {
	return s.Added == 0 && s.Removed == 0 && s.Modified == 0
}

// MessageDiff 消息列表差异
type MessageDiff struct {
	Added    []discussion.Message `json:"added"`
	Removed  []discussion.Message `json:"removed"`
	Modified []ModifiedMessage    `json:"modified"`
	Stats    DiffStats            `json:"stats"`
}

// FieldChange 单个上下文字段的变化
type FieldChange[T comparable] struct {
	Old     T    `json:"old"`
	New     T    `json:"new"`
	Changed bool `json:"changed"`
}

func fieldChange[T comparable](oldValue, newValue T) FieldChange[T] {
	return FieldChange[T]{Old: oldValue, New: newValue, Changed: oldValue != newValue}
}

// ContextChanges 上下文字段差异
type ContextChanges struct {
	Topic  FieldChange[string]            `json:"topic"`
	Status FieldChange[discussion.Status] `json:"status"`
	Rounds FieldChange[int]               `json:"rounds"`
}

// Changed 返回发生变化的字段名
func (c ContextChanges) Changed() []string {
	fields := make([]string, 0, 3)
	if c.Topic.Changed {
		fields = append(fields, "topic")
	}
	if c.Status.Changed {
		fields = append(fields, "status")
	}
	if c.Rounds.Changed {
		fields = append(fields, "rounds")
	}
	return fields
}

// SnapshotDiff 两个状态之间的完整差异
type SnapshotDiff struct {
	From           Ref            `json:"from"`
	To             Ref            `json:"to"`
	MessageChanges MessageDiff    `json:"messageChanges"`
	ContextChanges ContextChanges `json:"contextChanges"`
	Summary        string         `json:"summary"`
}

// CompareMessageLists 比较两个消息列表
// 消息身份只由 ID 决定，与位置无关：只在新列表中的为新增，只在旧列表中的为删除，
// 两侧都有但 content 不同的为修改
func CompareMessageLists(oldList, newList []discussion.Message) MessageDiff {
	oldByID := make(map[string]discussion.Message, len(oldList))
	for _, m := range oldList {
		oldByID[m.ID] = m
	}
	newByID := make(map[string]struct{}, len(newList))

	diff := MessageDiff{
		Added:    []discussion.Message{},
		Removed:  []discussion.Message{},
		Modified: []ModifiedMessage{},
	}

	for _, m := range newList {
		newByID[m.ID] = struct{}{}
		old, ok := oldByID[m.ID]
		if !ok {
			diff.Added = append(diff.Added, m.Clone())
			continue
		}
		if old.Content != m.Content {
			diff.Modified = append(diff.Modified, ModifiedMessage{
				ID:       m.ID,
				Old:      old.Clone(),
				New:      m.Clone(),
				LineDiff: GetTextDiff(old.Content, m.Content),
			})
		}
	}

	for _, m := range oldList {
		if _, ok := newByID[m.ID]; !ok {
			diff.Removed = append(diff.Removed, m.Clone())
		}
	}

	diff.Stats = DiffStats{
		Added:    len(diff.Added),
		Removed:  len(diff.Removed),
		Modified: len(diff.Modified),
	}
	return diff
}

// CompareContexts 比较上下文字段
func CompareContexts(oldCtx, newCtx ContextState) ContextChanges {
	return ContextChanges{
		Topic:  fieldChange(oldCtx.Topic, newCtx.Topic),
		Status: fieldChange(oldCtx.Status, newCtx.Status),
		Rounds: fieldChange(oldCtx.Rounds, newCtx.Rounds),
	}
}

// CompareStates 比较任意两个状态
func CompareStates(from, to Ref, fromState, toState State) SnapshotDiff {
	messageChanges := CompareMessageLists(fromState.Messages, toState.Messages)
	contextChanges := CompareContexts(fromState.Context, toState.Context)
	return SnapshotDiff{
		From:           from,
		To:             to,
		MessageChanges: messageChanges,
		ContextChanges: contextChanges,
		Summary:        Summarize(messageChanges.Stats, contextChanges),
	}
}

// CompareSnapshots 比较两个快照
func CompareSnapshots(s1, s2 *Snapshot) SnapshotDiff {
	return CompareStates(s1.Ref(), s2.Ref(), s1.Data, s2.Data)
}

// Summarize 生成可读的差异摘要
func Summarize(stats DiffStats, ctx ContextChanges) string {
	var parts []string
	if stats.Added > 0 {
		parts = append(parts, fmt.Sprintf("新增 %d 条消息", stats.Added))
	}
	if stats.Removed > 0 {
		parts = append(parts, fmt.Sprintf("删除 %d 条消息", stats.Removed))
	}
	if stats.Modified > 0 {
		parts = append(parts, fmt.Sprintf("修改 %d 条消息", stats.Modified))
	}
	if ctx.Topic.Changed {
		parts = append(parts, "主题已更改")
	}
	if ctx.Status.Changed {
		parts = append(parts, "状态已更改")
	}
	if ctx.Rounds.Changed {
		parts = append(parts, "轮次已更改")
	}
	if len(parts) == 0 {
		return "无变化"
	}
	return strings.Join(parts, "，")
}
