package similarity

import (
	"fmt"

	"github.com/roundtable/backend/internal/domain/discussion"
)

// ErrEmptySourceIDs 合并时未提供源讨论
var ErrEmptySourceIDs = fmt.Errorf("%w: sourceIds must not be empty", discussion.ErrInvalidArgument)
