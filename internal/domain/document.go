package domain

import (
	"fmt"
	"strings"
	"time"
)

// MaxDocumentSize is the maximum document text size in bytes.
const MaxDocumentSize = 163840 // 160KB

// ReferenceDocument is a corpus document with its embedding vector.
// Immutable once created: there is no update operation, only removal
// followed by a fresh addition.
type ReferenceDocument struct {
	id           string
	text         string
	vector       []float32
	language     string // detected language code, "unknown" when undetectable
	modelVersion string // embedding model that produced the vector
	createdAt    time.Time
}

// NewReferenceDocument validates and creates a ReferenceDocument.
// The id is externally supplied (typically a filename) and must be non-blank.
func NewReferenceDocument(id, text string, vector []float32, language, modelVersion string) (ReferenceDocument, error) {
	if strings.TrimSpace(id) == "" {
		return ReferenceDocument{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return ReferenceDocument{}, fmt.Errorf("document ID too long (max 256)")
	}
	if strings.TrimSpace(text) == "" {
		return ReferenceDocument{}, fmt.Errorf("document %q: %w", id, ErrEmptyText)
	}
	if len(text) > MaxDocumentSize {
		return ReferenceDocument{}, fmt.Errorf("document %q too large (max %d bytes)", id, MaxDocumentSize)
	}
	return ReferenceDocument{
		id:           id,
		text:         text,
		vector:       vector,
		language:     language,
		modelVersion: modelVersion,
		createdAt:    time.Now().UTC(),
	}, nil
}

// ReconstructReferenceDocument creates a ReferenceDocument without validation (storage hydration).
func ReconstructReferenceDocument(
	id, text string, vector []float32, language, modelVersion string, createdAt time.Time,
) ReferenceDocument {
	return ReferenceDocument{
		id: id, text: text, vector: vector,
		language: language, modelVersion: modelVersion, createdAt: createdAt,
	}
}

// ID returns the document identifier.
func (d *ReferenceDocument) ID() string { return d.id }

// Text returns the raw document text.
func (d *ReferenceDocument) Text() string { return d.text }

// Vector returns the embedding vector.
func (d *ReferenceDocument) Vector() []float32 { return d.vector }

// Language returns the detected language code.
func (d *ReferenceDocument) Language() string { return d.language }

// ModelVersion returns the embedding model tag.
func (d *ReferenceDocument) ModelVersion() string { return d.modelVersion }

// CreatedAt returns the creation timestamp.
func (d *ReferenceDocument) CreatedAt() time.Time { return d.createdAt }

// WithVector returns a copy with a new vector and model tag (re-embedding path).
func (d *ReferenceDocument) WithVector(vector []float32, modelVersion string) ReferenceDocument {
	c := *d
	c.vector = vector
	c.modelVersion = modelVersion
	return c
}

// UserDocument is a document scoped to an owning user, used for
// cross-user detection. Uniqueness is (owner, doc id), not global.
type UserDocument struct {
	ReferenceDocument
	owner string
}

// NewUserDocument validates and creates a UserDocument.
func NewUserDocument(owner, id, text string, vector []float32, language, modelVersion string) (UserDocument, error) {
	if strings.TrimSpace(owner) == "" {
		return UserDocument{}, fmt.Errorf("owner is required")
	}
	ref, err := NewReferenceDocument(id, text, vector, language, modelVersion)
	if err != nil {
		return UserDocument{}, err
	}
	return UserDocument{ReferenceDocument: ref, owner: owner}, nil
}

// ReconstructUserDocument creates a UserDocument without validation (storage hydration).
func ReconstructUserDocument(
	owner, id, text string, vector []float32, language, modelVersion string, createdAt time.Time,
) UserDocument {
	return UserDocument{
		ReferenceDocument: ReconstructReferenceDocument(id, text, vector, language, modelVersion, createdAt),
		owner:             owner,
	}
}

// Owner returns the owning user identifier.
func (d *UserDocument) Owner() string { return d.owner }

// Preview returns the first n characters of text with an ellipsis when
// truncated. Counts runes, not bytes, so multi-byte text is never split.
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
