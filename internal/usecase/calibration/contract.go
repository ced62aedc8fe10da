package calibration

import (
	"context"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// Repository persists the singleton calibration state row.
type Repository interface {
	Load(ctx context.Context) (domain.CalibrationState, error)
	Save(ctx context.Context, state domain.CalibrationState) error
}

// Ledger reads the feedback ledger the engine learns from.
type Ledger interface {
	LoadAll(ctx context.Context) ([]domain.FeedbackEntry, error)
}
