package versioning

// SnapshotRepository 快照仓储接口，每个快照一个文件
type SnapshotRepository interface {
	// Save 持久化快照，返回前文件已完整写入
	Save(s *Snapshot) error
	// Get 获取快照，不存在时返回 nil, nil
	Get(id string) (*Snapshot, error)
	// ListByDiscussion 获取讨论的全部快照，按版本升序
	ListByDiscussion(discussionID string) ([]*Snapshot, error)
	// Delete 删除快照，返回是否存在
	Delete(id string) (bool, error)
}

// BranchRepository 分支仓储接口，每个分支一个文件
type BranchRepository interface {
	// Save 持久化分支
	Save(b *Branch) error
	// Get 获取分支，不存在时返回 nil, nil
	Get(id string) (*Branch, error)
	// Scan 扫描存储中源讨论为 sourceID 的全部分支（无序）
	Scan(sourceID string) ([]*Branch, error)
	// Delete 删除分支，返回是否存在
	Delete(id string) (bool, error)
}
