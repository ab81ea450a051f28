package events

import "time"

// DiscussionEvent 讨论/快照/分支变更事件
type DiscussionEvent struct {
	// EventType 事件类型
	EventType EventType `json:"type"`
	// DiscussionID 所属讨论 ID
	DiscussionID string `json:"discussionId"`
	// SnapshotID 相关快照 ID（可选）
	SnapshotID string `json:"snapshotId,omitempty"`
	// BranchID 相关分支 ID（可选）
	BranchID string `json:"branchId,omitempty"`
	// Summary 变更摘要（可选）
	Summary string `json:"summary,omitempty"`
	// RelatedIDs 关联的其他讨论 ID（合并时为源讨论）
	RelatedIDs []string `json:"relatedIds,omitempty"`
	// EventTime 事件发生时间
	EventTime time.Time `json:"timestamp"`
}

// NewDiscussionEvent 创建讨论事件
func NewDiscussionEvent(eventType EventType, discussionID string) *DiscussionEvent {
	return &DiscussionEvent{
		EventType:    eventType,
		DiscussionID: discussionID,
		EventTime:    time.Now().UTC(),
	}
}

// Type 实现 Event 接口
func (e *DiscussionEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *DiscussionEvent) Timestamp() time.Time {
	return e.EventTime
}

// Discussion 实现 DiscussionScoped 接口
func (e *DiscussionEvent) Discussion() string {
	return e.DiscussionID
}

// DiscussionFileEvent 讨论文件变更事件
// 当 discussions/<id>.json 被外部修改时触发
type DiscussionFileEvent struct {
	// EventType 事件类型（created/modified/deleted）
	EventType EventType
	// DiscussionID 讨论 ID（文件名去掉 .json 后缀）
	DiscussionID string
	// FilePath 文件完整路径
	FilePath string
	// ModTime 文件最后修改时间
	ModTime time.Time
	// EventTime 事件发生时间
	EventTime time.Time
}

// Type 实现 Event 接口
func (e *DiscussionFileEvent) Type() EventType {
	return e.EventType
}

// Timestamp 实现 Event 接口
func (e *DiscussionFileEvent) Timestamp() time.Time {
	return e.EventTime
}

// Discussion 实现 DiscussionScoped 接口
func (e *DiscussionFileEvent) Discussion() string {
	return e.DiscussionID
}
