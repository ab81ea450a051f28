package versioning

import (
	"fmt"

	"github.com/roundtable/backend/internal/domain/discussion"
)

// 快照相关错误
var (
	// ErrSnapshotNotFound 快照不存在
	ErrSnapshotNotFound = fmt.Errorf("snapshot %w", discussion.ErrNotFound)
	// ErrSnapshotMismatch 快照不属于目标讨论
	ErrSnapshotMismatch = fmt.Errorf("snapshot does not belong to discussion: %w", discussion.ErrNotFound)
	// ErrCompareParamsRequired 比较缺少 from/to
	ErrCompareParamsRequired = fmt.Errorf("%w: both from and to snapshot ids are required", discussion.ErrInvalidArgument)
	// ErrInvalidSnapshotType 不支持的快照类型
	ErrInvalidSnapshotType = fmt.Errorf("%w: snapshot type must be manual, auto or pre-restore", discussion.ErrInvalidArgument)
)

// 恢复相关错误
var (
	// ErrInvalidRestoreMode 不支持的恢复模式
	ErrInvalidRestoreMode = fmt.Errorf("%w: restore mode must be replace or merge", discussion.ErrInvalidArgument)
	// ErrSnapshotIDRequired 缺少快照 ID
	ErrSnapshotIDRequired = fmt.Errorf("%w: snapshotId is required", discussion.ErrInvalidArgument)
)

// 分支相关错误
var (
	// ErrBranchNotFound 分支不存在
	ErrBranchNotFound = fmt.Errorf("branch %w", discussion.ErrNotFound)
)
