// Package calibration persists the singleton calibration state row.
package calibration

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// store is the consumer interface for calibration state (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// Repo stores the single calibration row.
type Repo struct {
	store store
}

// New creates a calibration repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Load returns the stored calibration state, or the cold-start defaults
// when no row exists yet. The defaults are not written back; the row
// appears on the first Save.
func (r *Repo) Load(ctx context.Context) (domain.CalibrationState, error) {
	fields, err := r.store.HGetAll(ctx, stateKey)
	if err != nil {
		return domain.CalibrationState{}, fmt.Errorf("hgetall %s: %w", stateKey, err)
	}
	if len(fields) == 0 {
		return domain.DefaultCalibrationState(), nil
	}
	return parseHashFields(fields)
}

// Save overwrites the calibration row.
func (r *Repo) Save(ctx context.Context, state domain.CalibrationState) error {
	if err := r.store.HSet(ctx, stateKey, buildHashFields(state)); err != nil {
		return fmt.Errorf("hset %s: %w", stateKey, err)
	}
	return nil
}
