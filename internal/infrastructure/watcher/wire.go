package watcher

import (
	"github.com/google/wire"
	"github.com/roundtable/backend/internal/domain/events"
	"github.com/roundtable/backend/internal/infrastructure/config"
)

// ProviderSet 事件总线与文件监听 ProviderSet
var ProviderSet = wire.NewSet(
	ProvideEventBus,
	ProvideFileWatcher,
)

// ProvideEventBus 提供事件总线实例
func ProvideEventBus() events.EventBus {
	return NewEventBus()
}

// ProvideFileWatcher 提供讨论文件监听器实例
func ProvideFileWatcher(eventBus events.EventBus, storageCfg *config.StorageConfig, watcherCfg *config.WatcherConfig) (*FileWatcher, error) {
	return NewFileWatcher(WatchConfig{
		DiscussionsDir: storageCfg.DiscussionsDir(),
		DebounceDelay:  watcherCfg.DebounceDelay,
	}, eventBus)
}
