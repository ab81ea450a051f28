package versioning

import "github.com/google/wire"

// ProviderSet 版本管理应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewSnapshotService,
	NewRestoreService,
	NewBranchService,
)
