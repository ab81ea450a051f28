// Package events 定义领域事件类型和接口
// 用于系统内部的事件驱动通信
package events

import "time"

// EventType 事件类型标识
type EventType string

// 讨论文件相关事件类型（来自文件监听）
const (
	// DiscussionFileCreated 讨论文件创建
	DiscussionFileCreated EventType = "discussion.file.created"
	// DiscussionFileModified 讨论文件修改
	DiscussionFileModified EventType = "discussion.file.modified"
	// DiscussionFileDeleted 讨论文件删除
	DiscussionFileDeleted EventType = "discussion.file.deleted"
)

// 讨论与版本管理事件类型（来自应用服务）
const (
	// DiscussionUpdated 讨论内容发生变化（追加消息、恢复、合并、外部编辑）
	DiscussionUpdated EventType = "discussion.updated"
	// DiscussionDeleted 讨论被删除（合并后的源讨论）
	DiscussionDeleted EventType = "discussion.deleted"
	// DiscussionRestored 讨论从快照恢复
	DiscussionRestored EventType = "discussion.restored"
	// DiscussionsMerged 多个讨论合并到目标讨论
	DiscussionsMerged EventType = "discussions.merged"
	// SnapshotCreated 快照创建
	SnapshotCreated EventType = "snapshot.created"
	// SnapshotDeleted 快照删除
	SnapshotDeleted EventType = "snapshot.deleted"
	// BranchCreated 分支创建
	BranchCreated EventType = "branch.created"
	// BranchMerged 分支合并回源讨论
	BranchMerged EventType = "branch.merged"
	// BranchDeleted 分支删除
	BranchDeleted EventType = "branch.deleted"
)

// Event 领域事件接口
// 所有事件类型都必须实现此接口
type Event interface {
	// Type 返回事件类型
	Type() EventType
	// Timestamp 返回事件发生时间
	Timestamp() time.Time
}

// DiscussionScoped 归属于某个讨论的事件，用于按讨论推送
type DiscussionScoped interface {
	Event
	// Discussion 返回事件所属讨论 ID
	Discussion() string
}
