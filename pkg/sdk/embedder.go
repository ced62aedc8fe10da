package simdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// Embedder converts text to vector embeddings. Implementations must be
// deterministic for identical input within a single model version; the
// version tag is stored next to every vector so stale vectors can be
// re-embedded after a model change.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelVersion() string
}

// embedderAdapter wraps the public Embedder to satisfy the internal
// embedding contract.
type embedderAdapter struct {
	inner Embedder
}

func (a *embedderAdapter) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := a.inner.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("embed: %w", err)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

func (a *embedderAdapter) ModelVersion() string {
	return a.inner.ModelVersion()
}
