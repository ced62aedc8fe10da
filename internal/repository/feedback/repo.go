// Package feedback persists the append-only feedback ledger.
package feedback

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// store is the consumer interface for the feedback ledger (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements durable storage for feedback entries. The ledger is
// append-only: there is no delete or update.
type Repo struct {
	store store
}

// New creates a feedback repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Append writes one feedback entry.
func (r *Repo) Append(ctx context.Context, entry domain.FeedbackEntry) error {
	key := entryKey(entry.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(&entry)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// LoadAll returns every ledger entry in storage order. Rows that fail
// to decode are skipped.
func (r *Repo) LoadAll(ctx context.Context) ([]domain.FeedbackEntry, error) {
	keys, err := r.store.Scan(ctx, scanPattern())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", scanPattern(), err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall %d feedback keys: %w", len(keys), err)
	}

	entries := make([]domain.FeedbackEntry, 0, len(rows))
	for _, fields := range rows {
		entry, err := parseHashFields(fields)
		if err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Count returns the number of ledger entries.
func (r *Repo) Count(ctx context.Context) (int, error) {
	keys, err := r.store.Scan(ctx, scanPattern())
	if err != nil {
		return 0, fmt.Errorf("scan %s: %w", scanPattern(), err)
	}
	return len(keys), nil
}
