package reference

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/domain"
	"github.com/kailas-cloud/simdex/internal/index"
)

// --- Mocks ---

type mockRepo struct {
	saved      []string
	deleted    []string
	cleared    bool
	saveErr    error
	deleteErr  error
	clearErr   error
}

func (m *mockRepo) Save(_ context.Context, doc domain.ReferenceDocument) error {
	m.saved = append(m.saved, doc.ID())
	return m.saveErr
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return m.deleteErr
}

func (m *mockRepo) DeleteAll(_ context.Context) error {
	m.cleared = true
	return m.clearErr
}

type mockUserRepo struct {
	saved   []string
	deleted []string
	saveErr error
}

func (m *mockUserRepo) Save(_ context.Context, doc domain.UserDocument) error {
	m.saved = append(m.saved, doc.Owner()+"/"+doc.ID())
	return m.saveErr
}

func (m *mockUserRepo) Delete(_ context.Context, owner, id string) error {
	m.deleted = append(m.deleted, owner+"/"+id)
	return nil
}

type mockEmbedder struct {
	vec   []float32
	err   error
	calls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: 3}, nil
}

func (m *mockEmbedder) ModelVersion() string { return "model-v2" }

type mockLangDetector struct{}

func (m *mockLangDetector) Detect(_ string) domain.Language {
	return domain.Language{Code: "en", Name: "English"}
}

type emptyLoader struct{}

func (emptyLoader) LoadAll(_ context.Context) ([]domain.ReferenceDocument, error) { return nil, nil }
func (emptyLoader) LoadAllUserDocuments(_ context.Context) ([]domain.UserDocument, error) {
	return nil, nil
}

func newTestService(t *testing.T) (*Service, *mockRepo, *mockUserRepo, *mockEmbedder) {
	t.Helper()
	repo := &mockRepo{}
	userRepo := &mockUserRepo{}
	emb := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(
		index.New(emptyLoader{}),
		index.NewUserStore(emptyLoader{}),
		repo, userRepo, emb, &mockLangDetector{}, zap.NewNop(),
	)
	return svc, repo, userRepo, emb
}

// --- Tests ---

func TestService_AddDocument(t *testing.T) {
	svc, repo, _, emb := newTestService(t)

	doc, err := svc.AddDocument(context.Background(), "essay.txt", "some reference text")
	if err != nil {
		t.Fatalf("AddDocument() error = %v", err)
	}
	if doc.Language() != "en" || doc.ModelVersion() != "model-v2" {
		t.Errorf("doc = lang %q model %q", doc.Language(), doc.ModelVersion())
	}
	if emb.calls != 1 {
		t.Errorf("embedder calls = %d, want 1", emb.calls)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want 1", svc.Count())
	}
	if len(repo.saved) != 1 || repo.saved[0] != "essay.txt" {
		t.Errorf("persisted = %v", repo.saved)
	}
}

func TestService_AddDocument_Duplicate(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	if _, err := svc.AddDocument(context.Background(), "a.txt", "text one"); err != nil {
		t.Fatalf("first AddDocument() error = %v", err)
	}
	_, err := svc.AddDocument(context.Background(), "a.txt", "text two")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("error = %v, want ErrAlreadyExists", err)
	}
}

func TestService_AddDocument_EmptyText(t *testing.T) {
	svc, _, _, emb := newTestService(t)

	_, err := svc.AddDocument(context.Background(), "a.txt", "   ")
	if !errors.Is(err, domain.ErrEmptyText) {
		t.Fatalf("error = %v, want ErrEmptyText", err)
	}
	if emb.calls != 0 {
		t.Errorf("embedder called %d times for invalid input", emb.calls)
	}
}

func TestService_AddDocument_EmbedError(t *testing.T) {
	svc, _, _, emb := newTestService(t)
	emb.err = errors.New("provider down")

	if _, err := svc.AddDocument(context.Background(), "a.txt", "text"); err == nil {
		t.Fatal("AddDocument() error = nil, want error")
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d after failed add, want 0", svc.Count())
	}
}

func TestService_AddDocument_StorageFailureIsNotFatal(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	repo.saveErr = errors.New("connection reset")

	if _, err := svc.AddDocument(context.Background(), "a.txt", "text"); err != nil {
		t.Fatalf("AddDocument() error = %v, want nil despite storage failure", err)
	}
	if svc.Count() != 1 {
		t.Errorf("Count() = %d, want indexed anyway", svc.Count())
	}
}

func TestService_RemoveDocument(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	if _, err := svc.AddDocument(context.Background(), "a.txt", "text"); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveDocument(context.Background(), "a.txt"); err != nil {
		t.Fatalf("RemoveDocument() error = %v", err)
	}
	if svc.Count() != 0 {
		t.Errorf("Count() = %d, want 0", svc.Count())
	}
	if len(repo.deleted) != 1 {
		t.Errorf("storage deletes = %v", repo.deleted)
	}

	err := svc.RemoveDocument(context.Background(), "a.txt")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want ErrDocumentNotFound", err)
	}
}

func TestService_Clear(t *testing.T) {
	svc, repo, _, _ := newTestService(t)
	if _, err := svc.AddDocument(context.Background(), "a.txt", "text"); err != nil {
		t.Fatal(err)
	}

	svc.Clear(context.Background())
	if svc.Count() != 0 {
		t.Errorf("Count() = %d, want 0", svc.Count())
	}
	if !repo.cleared {
		t.Error("storage not cleared")
	}
}

func TestService_GetList(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.AddDocument(context.Background(), "a.txt", "text"); err != nil {
		t.Fatal(err)
	}

	doc, err := svc.Get("a.txt")
	if err != nil || doc.ID() != "a.txt" {
		t.Errorf("Get() = %v, %v", doc.ID(), err)
	}
	if _, err := svc.Get("missing"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("Get(missing) error = %v", err)
	}
	if docs := svc.List(); len(docs) != 1 {
		t.Errorf("List() len = %d", len(docs))
	}
}

func TestService_AddUserDocument(t *testing.T) {
	svc, _, userRepo, _ := newTestService(t)

	doc, err := svc.AddUserDocument(context.Background(), "alice", "essay.txt", "submission text")
	if err != nil {
		t.Fatalf("AddUserDocument() error = %v", err)
	}
	if doc.Owner() != "alice" {
		t.Errorf("Owner() = %q", doc.Owner())
	}
	if len(userRepo.saved) != 1 || userRepo.saved[0] != "alice/essay.txt" {
		t.Errorf("persisted = %v", userRepo.saved)
	}

	// Same id under another owner is fine.
	if _, err := svc.AddUserDocument(context.Background(), "bob", "essay.txt", "other text"); err != nil {
		t.Fatalf("AddUserDocument(bob) error = %v", err)
	}
	// Same (owner, id) is not.
	_, err = svc.AddUserDocument(context.Background(), "alice", "essay.txt", "again")
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("error = %v, want ErrAlreadyExists", err)
	}
}

func TestService_RemoveUserDocument(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.AddUserDocument(context.Background(), "alice", "a.txt", "text"); err != nil {
		t.Fatal(err)
	}

	if err := svc.RemoveUserDocument(context.Background(), "alice", "a.txt"); err != nil {
		t.Fatalf("RemoveUserDocument() error = %v", err)
	}
	err := svc.RemoveUserDocument(context.Background(), "alice", "a.txt")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("error = %v, want ErrDocumentNotFound", err)
	}
}

func TestService_ListUserDocuments(t *testing.T) {
	svc, _, _, _ := newTestService(t)
	if _, err := svc.AddUserDocument(context.Background(), "alice", "a.txt", "text a"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.AddUserDocument(context.Background(), "bob", "b.txt", "text b"); err != nil {
		t.Fatal(err)
	}

	docs := svc.ListUserDocuments("alice")
	if len(docs) != 1 || docs[0].ID() != "a.txt" {
		t.Errorf("ListUserDocuments(alice) = %d docs", len(docs))
	}
}
