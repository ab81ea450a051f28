package similarity

import "github.com/google/wire"

// ProviderSet 相似度应用层 ProviderSet
var ProviderSet = wire.NewSet(
	NewService,
	ProvideRetrainScheduler,
)
