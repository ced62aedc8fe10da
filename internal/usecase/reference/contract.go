package reference

import (
	"context"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// Repository defines durable storage for the reference corpus. The
// in-memory index stays authoritative; storage failures degrade to
// warnings, not request errors.
type Repository interface {
	Save(ctx context.Context, doc domain.ReferenceDocument) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) error
}

// UserRepository defines durable storage for user documents.
type UserRepository interface {
	Save(ctx context.Context, doc domain.UserDocument) error
	Delete(ctx context.Context, owner, id string) error
}

// Embedder vectorizes document text.
type Embedder interface {
	domain.Embedder
	domain.ModelVersioner
}

// LanguageDetector identifies the language of a text.
type LanguageDetector interface {
	Detect(text string) domain.Language
}
