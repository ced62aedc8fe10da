package domain

import "context"

// Embedder is the shared text vectorization contract between layers.
// Implementations must be deterministic for identical input within a
// single model version: mixing vectors produced by different model
// versions silently corrupts cosine similarity, which is why every
// stored vector carries a ModelVersion tag.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker verifies embedding provider availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ModelVersioner exposes the model tag an embedder stamps on vectors.
// Decorators forward it from the provider at the end of the chain.
type ModelVersioner interface {
	ModelVersion() string
}

// EmbeddingResult carries the embedding vector and token usage through the decorator chain.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}
