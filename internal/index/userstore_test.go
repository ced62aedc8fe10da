package index

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

type stubUserLoader struct {
	docs []domain.UserDocument
	err  error
}

func (l *stubUserLoader) LoadAllUserDocuments(_ context.Context) ([]domain.UserDocument, error) {
	return l.docs, l.err
}

func userDoc(owner, id, text string, vec []float32) domain.UserDocument {
	return domain.ReconstructUserDocument(
		owner, id, text, vec, "en", "text-embedding-3-small", time.Now().UTC(),
	)
}

func TestUserStore_OwnerScopedUniqueness(t *testing.T) {
	s := NewUserStore(&stubUserLoader{})

	// Same doc id under two owners is two distinct entries.
	s.Add(userDoc("alice", "essay.txt", "alice text", []float32{1, 0}))
	s.Add(userDoc("bob", "essay.txt", "bob text", []float32{0, 1}))

	if got := s.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
	if !s.Exists("alice", "essay.txt") || !s.Exists("bob", "essay.txt") {
		t.Error("Exists() should find both owner-scoped entries")
	}

	if !s.Remove("alice", "essay.txt") {
		t.Fatal("Remove(alice) = false, want true")
	}
	if s.Exists("alice", "essay.txt") {
		t.Error("alice entry still present after Remove")
	}
	if !s.Exists("bob", "essay.txt") {
		t.Error("bob entry removed by alice's Remove")
	}
}

func TestUserStore_SnapshotOthers(t *testing.T) {
	s := NewUserStore(&stubUserLoader{})
	s.Add(userDoc("alice", "a1.txt", "first", []float32{1, 0}))
	s.Add(userDoc("bob", "b1.txt", "second", []float32{0, 1}))
	s.Add(userDoc("carol", "c1.txt", "third", []float32{1, 1}))

	snap := s.SnapshotOthers("bob")
	if len(snap) != 2 {
		t.Fatalf("SnapshotOthers(bob) len = %d, want 2", len(snap))
	}
	for _, c := range snap {
		if c.Owner == "bob" {
			t.Errorf("SnapshotOthers(bob) returned bob's own document %q", c.DocID)
		}
		if c.Owner == "" {
			t.Errorf("candidate %q missing owner", c.DocID)
		}
	}
}

func TestUserStore_ListByOwner(t *testing.T) {
	s := NewUserStore(&stubUserLoader{})
	s.Add(userDoc("alice", "a1.txt", "first", []float32{1, 0}))
	s.Add(userDoc("bob", "b1.txt", "second", []float32{0, 1}))
	s.Add(userDoc("alice", "a2.txt", "third", []float32{1, 1}))

	docs := s.ListByOwner("alice")
	if len(docs) != 2 {
		t.Fatalf("ListByOwner(alice) len = %d, want 2", len(docs))
	}
	if docs[0].ID() != "a1.txt" || docs[1].ID() != "a2.txt" {
		t.Errorf("ListByOwner order = %q, %q; want insertion order", docs[0].ID(), docs[1].ID())
	}
	if got := s.ListByOwner("nobody"); len(got) != 0 {
		t.Errorf("ListByOwner(nobody) len = %d, want 0", len(got))
	}
}

func TestUserStore_Initialize(t *testing.T) {
	loader := &stubUserLoader{docs: []domain.UserDocument{
		userDoc("alice", "a1.txt", "first", []float32{1, 0}),
	}}
	s := NewUserStore(loader)

	if err := s.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if got := s.Count(); got != 1 {
		t.Errorf("Count() = %d, want 1", got)
	}
}
