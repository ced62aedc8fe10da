package feedback

import (
	"context"
	"testing"
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testEntry(t *testing.T, id string) domain.FeedbackEntry {
	t.Helper()
	confidence := 85
	return domain.ReconstructFeedbackEntry(
		id, "alice", "essay.txt", "deadbeef",
		72, domain.FeedbackFalsePositive, 60, domain.LayerSemantic,
		&confidence, "cited correctly", true,
		time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	)
}
