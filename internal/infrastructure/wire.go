package infrastructure

import (
	"github.com/google/wire"
	"github.com/roundtable/backend/internal/infrastructure/config"
	"github.com/roundtable/backend/internal/infrastructure/lock"
	"github.com/roundtable/backend/internal/infrastructure/metrics"
	"github.com/roundtable/backend/internal/infrastructure/storage"
	"github.com/roundtable/backend/internal/infrastructure/watcher"
	"github.com/roundtable/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	lock.ProviderSet,
	metrics.ProviderSet,
	storage.ProviderSet,
	watcher.ProviderSet,
	websocket.ProviderSet,
)
