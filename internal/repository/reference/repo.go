// Package reference persists the reference corpus to the hash store so
// the in-memory index survives restarts.
package reference

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// store is the consumer interface for reference documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements durable storage for the corpus index.
type Repo struct {
	store store
}

// New creates a reference document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save writes a document, overwriting any previous row with the same id.
func (r *Repo) Save(ctx context.Context, doc domain.ReferenceDocument) error {
	key := docKey(doc.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(&doc)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Delete removes a document row. Deleting an absent row is not an error;
// presence is the index's concern.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := docKey(id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// DeleteAll removes every corpus row.
func (r *Repo) DeleteAll(ctx context.Context) error {
	keys, err := r.store.Scan(ctx, scanPattern())
	if err != nil {
		return fmt.Errorf("scan %s: %w", scanPattern(), err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("del %d corpus keys: %w", len(keys), err)
	}
	return nil
}

// LoadAll returns every stored document. Rows that fail to decode are
// skipped so one corrupt row cannot block hydration.
func (r *Repo) LoadAll(ctx context.Context) ([]domain.ReferenceDocument, error) {
	keys, err := r.store.Scan(ctx, scanPattern())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", scanPattern(), err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall %d corpus keys: %w", len(keys), err)
	}

	docs := make([]domain.ReferenceDocument, 0, len(rows))
	for _, fields := range rows {
		doc, err := parseHashFields(fields)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
