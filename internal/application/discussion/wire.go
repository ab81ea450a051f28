package discussion

import "github.com/google/wire"

// ProviderSet 讨论应用层 ProviderSet
var ProviderSet = wire.NewSet(NewService)
