// Package userdoc persists user-owned documents for the cross-user
// index.
package userdoc

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// store is the consumer interface for user documents (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// Repo implements durable storage for the user document index.
type Repo struct {
	store store
}

// New creates a user document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Save writes a document under its (owner, id) key, overwriting any
// previous row.
func (r *Repo) Save(ctx context.Context, doc domain.UserDocument) error {
	key := docKey(doc.Owner(), doc.ID())
	if err := r.store.HSet(ctx, key, buildHashFields(&doc)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Delete removes a document row. Absence is not an error.
func (r *Repo) Delete(ctx context.Context, owner, id string) error {
	key := docKey(owner, id)
	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// LoadAllUserDocuments returns every stored user document. Rows that
// fail to decode are skipped.
func (r *Repo) LoadAllUserDocuments(ctx context.Context) ([]domain.UserDocument, error) {
	keys, err := r.store.Scan(ctx, scanPattern())
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", scanPattern(), err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	rows, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall %d user doc keys: %w", len(keys), err)
	}

	docs := make([]domain.UserDocument, 0, len(rows))
	for _, fields := range rows {
		doc, err := parseHashFields(fields)
		if err != nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}
