package lock

import "github.com/google/wire"

// ProviderSet 锁 ProviderSet，进程内共享同一个 KeyedMutex
var ProviderSet = wire.NewSet(NewKeyedMutex)
