package feedback

import (
	"context"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// Repository is the append-only feedback ledger.
type Repository interface {
	Append(ctx context.Context, entry domain.FeedbackEntry) error
	LoadAll(ctx context.Context) ([]domain.FeedbackEntry, error)
}

// Recalibrator recomputes the threshold adjustment after a submission
// and exposes the state the stats report draws from.
type Recalibrator interface {
	ProcessFeedback(ctx context.Context) (domain.CalibrationState, error)
	State() domain.CalibrationState
}
