// Package versioning 定义讨论快照、分支以及结构化差异比较
package versioning

import (
	"time"

	"github.com/roundtable/backend/internal/domain/discussion"
)

// SnapshotType 快照类型
type SnapshotType string

const (
	// SnapshotTypeManual 手动创建
	SnapshotTypeManual SnapshotType = "manual"
	// SnapshotTypeAuto 自动创建
	SnapshotTypeAuto SnapshotType = "auto"
	// SnapshotTypePreRestore 恢复前的自动备份
	SnapshotTypePreRestore SnapshotType = "pre-restore"
)

// IsValid 检查快照类型是否合法
func (t SnapshotType) IsValid() bool {
	switch t {
	case SnapshotTypeManual, SnapshotTypeAuto, SnapshotTypePreRestore:
		return true
	}
	return false
}

// ContextState 快照/分支保存的上下文字段
type ContextState struct {
	Topic        string                   `json:"topic"`
	Status       discussion.Status        `json:"status"`
	Rounds       int                      `json:"rounds"`
	Participants []discussion.Participant `json:"participants"`
}

// State 某一时刻的讨论状态：消息 + 上下文
type State struct {
	Messages []discussion.Message `json:"messages"`
	Context  ContextState         `json:"context"`
}

// Clone 深拷贝
func (s State) Clone() State {
	ctx := s.Context
	ctx.Participants = discussion.CloneParticipants(s.Context.Participants)
	return State{
		Messages: discussion.CloneMessages(s.Messages),
		Context:  ctx,
	}
}

// StateOf 从讨论中截取状态（深拷贝，不与讨论共享引用）
func StateOf(d *discussion.Discussion) State {
	return State{
		Messages: discussion.CloneMessages(d.Messages),
		Context: ContextState{
			Topic:        d.Topic,
			Status:       d.Status,
			Rounds:       d.Rounds,
			Participants: discussion.CloneParticipants(d.Participants),
		},
	}
}

// Snapshot 讨论快照，创建后不再修改
type Snapshot struct {
	ID           string       `json:"id"`
	DiscussionID string       `json:"discussionId"`
	Version      int          `json:"version"`
	Timestamp    time.Time    `json:"timestamp"`
	Description  string       `json:"description"`
	Tags         []string     `json:"tags"`
	Type         SnapshotType `json:"type"`
	Data         State        `json:"data"`
}

// Ref 返回差异比较中使用的快照引用
func (s *Snapshot) Ref() Ref {
	return Ref{ID: s.ID, Version: s.Version, Timestamp: s.Timestamp}
}

// Branch 讨论分支：冻结的一份独立副本
type Branch struct {
	ID                 string    `json:"id"`
	SourceDiscussionID string    `json:"sourceDiscussionId"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	CreatedAt          time.Time `json:"createdAt"`
	SnapshotID         string    `json:"snapshotId,omitempty"`
	Data               State     `json:"data"`
}

// Ref 差异比较的一端
type Ref struct {
	ID        string    `json:"id"`
	Version   int       `json:"version,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
