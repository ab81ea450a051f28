package storage

import (
	"github.com/google/wire"
	"github.com/roundtable/backend/internal/domain/discussion"
	"github.com/roundtable/backend/internal/domain/similarity"
	"github.com/roundtable/backend/internal/domain/versioning"
)

// ProviderSet Storage 基础设施层 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideDB,               // 提供数据库连接
	NewDiscussionRepository, // 讨论文件仓储
	NewSnapshotRepository,   // 快照文件仓储
	NewBranchRepository,     // 分支文件仓储
	NewSimilarityRepository, // 相似度模型仓储
	wire.Bind(new(discussion.Repository), new(*DiscussionRepository)),
	wire.Bind(new(discussion.Reloader), new(*DiscussionRepository)),
	wire.Bind(new(versioning.SnapshotRepository), new(*SnapshotRepository)),
	wire.Bind(new(versioning.BranchRepository), new(*BranchRepository)),
	wire.Bind(new(similarity.ModelRepository), new(*SimilarityRepository)),
)
