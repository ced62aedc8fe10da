package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrDocumentNotFound signals a missing document.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrEmptyText signals a blank query or document text.
	ErrEmptyText = errors.New("text is empty")

	// ErrInvalidFeedbackType signals a feedback type outside the closed set.
	ErrInvalidFeedbackType = errors.New("invalid feedback type")
	// ErrInvalidDetectionLayer signals an unrecognized detection layer.
	ErrInvalidDetectionLayer = errors.New("invalid detection layer")
	// ErrInvalidSeverity signals a severity outside [0, 100].
	ErrInvalidSeverity = errors.New("severity out of range")
	// ErrInvalidConfidence signals a confidence override outside [0, 100].
	ErrInvalidConfidence = errors.New("confidence override out of range")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
)
