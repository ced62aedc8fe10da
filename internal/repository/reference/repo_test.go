package reference

import (
	"context"
	"errors"
	"testing"
)

func TestRepo_Save(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	doc := testDocument(t, "essay.txt")
	if err := repo.Save(context.Background(), doc); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if gotKey != "simdex:ref:essay.txt" {
		t.Errorf("key = %q, want simdex:ref:essay.txt", gotKey)
	}
	if gotFields[fieldText] != "sample reference text" {
		t.Errorf("text field = %q", gotFields[fieldText])
	}
	if gotFields[fieldModelVersion] != "text-embedding-3-small" {
		t.Errorf("model_version field = %q", gotFields[fieldModelVersion])
	}
	if gotFields[fieldVector] == "" {
		t.Error("vector field empty")
	}
}

func TestRepo_Save_StoreError(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection reset")
	}

	if err := repo.Save(context.Background(), testDocument(t, "a.txt")); err == nil {
		t.Fatal("Save() error = nil, want error")
	}
}

func TestRepo_Delete(t *testing.T) {
	repo, ms := newTestRepo(t)

	var gotKey string
	ms.delFn = func(_ context.Context, key string) error {
		gotKey = key
		return nil
	}

	if err := repo.Delete(context.Background(), "essay.txt"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if gotKey != "simdex:ref:essay.txt" {
		t.Errorf("key = %q", gotKey)
	}
}

func TestRepo_DeleteAll(t *testing.T) {
	repo, ms := newTestRepo(t)

	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "simdex:ref:*" {
			t.Errorf("scan pattern = %q", pattern)
		}
		return []string{"simdex:ref:a.txt", "simdex:ref:b.txt"}, nil
	}
	var gotKeys []string
	ms.delMultiFn = func(_ context.Context, keys []string) error {
		gotKeys = keys
		return nil
	}

	if err := repo.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
	if len(gotKeys) != 2 {
		t.Errorf("deleted %d keys, want 2", len(gotKeys))
	}
}

func TestRepo_DeleteAll_Empty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.delMultiFn = func(_ context.Context, _ []string) error {
		t.Error("DelMulti called on empty scan")
		return nil
	}

	if err := repo.DeleteAll(context.Background()); err != nil {
		t.Fatalf("DeleteAll() error = %v", err)
	}
}

func TestRepo_LoadAll_RoundTrip(t *testing.T) {
	repo, ms := newTestRepo(t)
	doc := testDocument(t, "essay.txt")

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"simdex:ref:essay.txt"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{buildHashFields(&doc)}, nil
	}

	docs, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("LoadAll() len = %d, want 1", len(docs))
	}

	got := docs[0]
	if got.ID() != doc.ID() || got.Text() != doc.Text() || got.Language() != doc.Language() {
		t.Errorf("round trip mismatch: got id=%q text=%q lang=%q", got.ID(), got.Text(), got.Language())
	}
	if got.ModelVersion() != doc.ModelVersion() {
		t.Errorf("ModelVersion() = %q, want %q", got.ModelVersion(), doc.ModelVersion())
	}
	if len(got.Vector()) != 3 || got.Vector()[1] != doc.Vector()[1] {
		t.Errorf("Vector() = %v, want %v", got.Vector(), doc.Vector())
	}
	if !got.CreatedAt().Equal(doc.CreatedAt()) {
		t.Errorf("CreatedAt() = %v, want %v", got.CreatedAt(), doc.CreatedAt())
	}
}

func TestRepo_LoadAll_SkipsCorruptRows(t *testing.T) {
	repo, ms := newTestRepo(t)
	good := testDocument(t, "good.txt")

	ms.scanFn = func(_ context.Context, _ string) ([]string, error) {
		return []string{"simdex:ref:bad.txt", "simdex:ref:good.txt"}, nil
	}
	ms.hgetAllMultiFn = func(_ context.Context, _ []string) ([]map[string]string, error) {
		return []map[string]string{
			{fieldID: "bad.txt", fieldVector: "!!not-base64!!"},
			buildHashFields(&good),
		}, nil
	}

	docs, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if len(docs) != 1 || docs[0].ID() != "good.txt" {
		t.Errorf("LoadAll() = %d docs, want only good.txt", len(docs))
	}
}

func TestDecodeVector_Invalid(t *testing.T) {
	// 3 bytes: valid base64, invalid float32 payload.
	if _, err := decodeVector("YWJj"); err == nil {
		t.Error("decodeVector() error = nil for truncated payload")
	}
}
