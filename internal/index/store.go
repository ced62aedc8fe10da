// Package index holds the in-memory similarity indexes the matcher
// scans. Document metadata and embedding vectors live in two
// order-preserving slices kept aligned 1:1 under a single lock:
// removing index i removes both the metadata entry and the i-th vector,
// so a partial-write state is never observable.
package index

import (
	"context"
	"sync"
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// Loader hydrates an index from durable storage at startup.
type Loader interface {
	LoadAll(ctx context.Context) ([]domain.ReferenceDocument, error)
}

// Candidate is one scannable entry: aligned metadata plus its vector.
type Candidate struct {
	DocID        string
	Text         string
	Language     string
	ModelVersion string
	Owner        string // set only by the user index
	Vector       []float32
}

type meta struct {
	id           string
	text         string
	language     string
	modelVersion string
	createdAt    time.Time
}

// Store is the in-memory reference corpus index.
type Store struct {
	mu          sync.RWMutex
	loader      Loader
	initialized bool

	docs    []meta
	vectors [][]float32
}

// New creates an empty corpus index backed by the given loader.
func New(loader Loader) *Store {
	return &Store{loader: loader}
}

// Initialize hydrates the index from durable storage. It runs the load
// at most once; repeat calls are no-ops. On failure the index stays
// empty and usable — the caller logs the returned error as a warning
// and detection degrades to "no matches" instead of crashing.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true

	docs, err := s.loader.LoadAll(ctx)
	if err != nil {
		return err
	}

	for i := range docs {
		s.append(&docs[i])
	}
	return nil
}

// Add appends a document and its vector. Duplicate ids are the caller
// layer's concern; the index itself keeps whatever it is given.
func (s *Store) Add(doc domain.ReferenceDocument) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.append(&doc)
}

// append requires s.mu held for writing.
func (s *Store) append(doc *domain.ReferenceDocument) {
	s.docs = append(s.docs, meta{
		id:           doc.ID(),
		text:         doc.Text(),
		language:     doc.Language(),
		modelVersion: doc.ModelVersion(),
		createdAt:    doc.CreatedAt(),
	})
	s.vectors = append(s.vectors, doc.Vector())
}

// Remove deletes the document with the given id from both slices.
// Returns false if the id is absent.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].id == id {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			s.vectors = append(s.vectors[:i], s.vectors[i+1:]...)
			return true
		}
	}
	return false
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = nil
	s.vectors = nil
}

// Get returns the document with the given id.
func (s *Store) Get(id string) (domain.ReferenceDocument, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.docs {
		if s.docs[i].id == id {
			return s.reconstruct(i), true
		}
	}
	return domain.ReferenceDocument{}, false
}

// List returns every document in insertion order.
func (s *Store) List() []domain.ReferenceDocument {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ReferenceDocument, len(s.docs))
	for i := range s.docs {
		out[i] = s.reconstruct(i)
	}
	return out
}

// Exists reports whether a document id is present.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.docs {
		if s.docs[i].id == id {
			return true
		}
	}
	return false
}

// Count returns the number of indexed documents.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Snapshot returns a scan-stable copy of all candidates in insertion
// order. Vectors are shared, not copied: entries are immutable once
// added, so readers only race with slice mutation, which the copy
// shields against.
func (s *Store) Snapshot() []Candidate {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Candidate, len(s.docs))
	for i := range s.docs {
		out[i] = Candidate{
			DocID:        s.docs[i].id,
			Text:         s.docs[i].text,
			Language:     s.docs[i].language,
			ModelVersion: s.docs[i].modelVersion,
			Vector:       s.vectors[i],
		}
	}
	return out
}

// ReplaceVector swaps in a freshly computed vector and model tag for an
// existing document (embedding model upgrade path). Returns false if
// the id is absent.
func (s *Store) ReplaceVector(id string, vector []float32, modelVersion string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.docs {
		if s.docs[i].id == id {
			s.vectors[i] = vector
			s.docs[i].modelVersion = modelVersion
			return true
		}
	}
	return false
}

// reconstruct requires s.mu held.
func (s *Store) reconstruct(i int) domain.ReferenceDocument {
	m := &s.docs[i]
	return domain.ReconstructReferenceDocument(
		m.id, m.text, s.vectors[i], m.language, m.modelVersion, m.createdAt,
	)
}
