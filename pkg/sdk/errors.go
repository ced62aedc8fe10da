package simdex

import "github.com/kailas-cloud/simdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound               = domain.ErrNotFound
	ErrAlreadyExists          = domain.ErrAlreadyExists
	ErrDocumentNotFound       = domain.ErrDocumentNotFound
	ErrEmptyText              = domain.ErrEmptyText
	ErrInvalidFeedbackType    = domain.ErrInvalidFeedbackType
	ErrInvalidDetectionLayer  = domain.ErrInvalidDetectionLayer
	ErrInvalidSeverity        = domain.ErrInvalidSeverity
	ErrInvalidConfidence      = domain.ErrInvalidConfidence
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
)
