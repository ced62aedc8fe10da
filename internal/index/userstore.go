package index

import (
	"context"
	"sync"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// UserLoader hydrates the user document index at startup.
type UserLoader interface {
	LoadAllUserDocuments(ctx context.Context) ([]domain.UserDocument, error)
}

type userMeta struct {
	owner string
	meta
}

// UserStore is the in-memory index of user-owned documents scanned by
// cross-user detection. Same aligned-slices layout as Store, keyed by
// (owner, doc id).
type UserStore struct {
	mu          sync.RWMutex
	loader      UserLoader
	initialized bool

	docs    []userMeta
	vectors [][]float32
}

// NewUserStore creates an empty user index backed by the given loader.
func NewUserStore(loader UserLoader) *UserStore {
	return &UserStore{loader: loader}
}

// Initialize hydrates the index from durable storage, at most once.
func (s *UserStore) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true

	docs, err := s.loader.LoadAllUserDocuments(ctx)
	if err != nil {
		return err
	}

	for i := range docs {
		s.append(&docs[i])
	}
	return nil
}

// Add appends a user document and its vector.
func (s *UserStore) Add(doc domain.UserDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(&doc)
}

// append requires s.mu held for writing.
func (s *UserStore) append(doc *domain.UserDocument) {
	s.docs = append(s.docs, userMeta{
		owner: doc.Owner(),
		meta: meta{
			id:           doc.ID(),
			text:         doc.Text(),
			language:     doc.Language(),
			modelVersion: doc.ModelVersion(),
			createdAt:    doc.CreatedAt(),
		},
	})
	s.vectors = append(s.vectors, doc.Vector())
}

// Remove deletes the (owner, id) entry. Returns false if absent.
func (s *UserStore) Remove(owner, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].owner == owner && s.docs[i].id == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			s.vectors = append(s.vectors[:i], s.vectors[i+1:]...)
			return true
		}
	}
	return false
}

// Exists reports whether (owner, id) is present.
func (s *UserStore) Exists(owner, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.docs {
		if s.docs[i].owner == owner && s.docs[i].id == id {
			return true
		}
	}
	return false
}

// ListByOwner returns every document owned by the given user, in
// insertion order.
func (s *UserStore) ListByOwner(owner string) []domain.UserDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.UserDocument
	for i := range s.docs {
		if s.docs[i].owner == owner {
			out = append(out, s.reconstruct(i))
		}
	}
	return out
}

// Count returns the total number of user documents across all owners.
func (s *UserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// SnapshotOthers returns scan-stable candidates owned by anyone except
// the given user. Cross-user detection never matches a document against
// its own owner's corpus.
func (s *UserStore) SnapshotOthers(owner string) []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []Candidate
	for i := range s.docs {
		if s.docs[i].owner == owner {
			continue
		}
		out = append(out, Candidate{
			DocID:        s.docs[i].id,
			Text:         s.docs[i].text,
			Language:     s.docs[i].language,
			ModelVersion: s.docs[i].modelVersion,
			Owner:        s.docs[i].owner,
			Vector:       s.vectors[i],
		})
	}
	return out
}

// ReplaceVector swaps in a freshly computed vector and model tag for an
// existing (owner, id) entry. Returns false if absent.
func (s *UserStore) ReplaceVector(owner, id string, vector []float32, modelVersion string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].owner == owner && s.docs[i].id == id {
			s.vectors[i] = vector
			s.docs[i].modelVersion = modelVersion
			return true
		}
	}
	return false
}

// reconstruct requires s.mu held.
func (s *UserStore) reconstruct(i int) domain.UserDocument {
	m := &s.docs[i]
	return domain.ReconstructUserDocument(
		m.owner, m.id, m.text, s.vectors[i], m.language, m.modelVersion, m.createdAt,
	)
}
