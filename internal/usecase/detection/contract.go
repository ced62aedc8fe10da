package detection

import (
	"context"

	"github.com/kailas-cloud/simdex/internal/domain"
	"github.com/kailas-cloud/simdex/internal/index"
)

// Corpus provides scan access to the reference index.
type Corpus interface {
	Snapshot() []index.Candidate
	ReplaceVector(id string, vector []float32, modelVersion string) bool
}

// UserCorpus provides scan access to other users' documents.
type UserCorpus interface {
	SnapshotOthers(owner string) []index.Candidate
	ReplaceVector(owner, id string, vector []float32, modelVersion string) bool
}

// Embedder vectorizes query and candidate text.
type Embedder interface {
	domain.Embedder
	domain.ModelVersioner
}

// LanguageDetector identifies the language of a text.
type LanguageDetector interface {
	Detect(text string) domain.Language
}

// StyleAnalyzer computes the stylometric profile of a text.
type StyleAnalyzer interface {
	Analyze(text string) domain.StyleMetrics
}

// Thresholds supplies the calibrated detection threshold (0-100 scale)
// applied when a request does not carry its own.
type Thresholds interface {
	EffectiveThreshold(ctx context.Context) (float64, error)
}
