package application

import (
	"github.com/google/wire"
	"github.com/roundtable/backend/internal/application/discussion"
	"github.com/roundtable/backend/internal/application/similarity"
	"github.com/roundtable/backend/internal/application/versioning"
)

// ProviderSet Application 层总 ProviderSet
var ProviderSet = wire.NewSet(
	discussion.ProviderSet,
	versioning.ProviderSet,
	similarity.ProviderSet,
)
