package domain

import (
	"fmt"
	"time"
)

// FeedbackType is a closed enumeration of human judgments on a match.
type FeedbackType string

// Recognized feedback types.
const (
	FeedbackFalsePositive FeedbackType = "false_positive"
	FeedbackConfirmed     FeedbackType = "confirmed"
)

// ParseFeedbackType validates a raw feedback type value.
func ParseFeedbackType(raw string) (FeedbackType, error) {
	switch FeedbackType(raw) {
	case FeedbackFalsePositive, FeedbackConfirmed:
		return FeedbackType(raw), nil
	default:
		return "", fmt.Errorf("%w: %q (want false_positive or confirmed)", ErrInvalidFeedbackType, raw)
	}
}

// DetectionLayer identifies which signal family produced a match.
type DetectionLayer string

// Recognized detection layers. LayerUnset marks feedback that was not
// attributed to a specific layer.
const (
	LayerSemantic   DetectionLayer = "semantic"
	LayerStylometry DetectionLayer = "stylometry"
	LayerCrossLang  DetectionLayer = "cross_lang"
	LayerParaphrase DetectionLayer = "paraphrase"
	LayerUnset      DetectionLayer = ""
)

// WeightedLayers are the layers whose relative trust is tuned by the
// calibration engine. Paraphrase is tracked for reporting only.
var WeightedLayers = []DetectionLayer{LayerSemantic, LayerStylometry, LayerCrossLang}

// ParseDetectionLayer validates a raw detection layer value. Empty input
// is allowed and maps to LayerUnset.
func ParseDetectionLayer(raw string) (DetectionLayer, error) {
	switch DetectionLayer(raw) {
	case LayerSemantic, LayerStylometry, LayerCrossLang, LayerParaphrase, LayerUnset:
		return DetectionLayer(raw), nil
	default:
		return "", fmt.Errorf(
			"%w: %q (want semantic, stylometry, cross_lang, or paraphrase)",
			ErrInvalidDetectionLayer, raw,
		)
	}
}

// DefaultSeverity is used when a submission carries no severity.
const DefaultSeverity = 50

// FeedbackEntry is one append-only human judgment on a detection result.
// Entries are never mutated or deleted. The submitted text itself is not
// retained, only its SHA-256 hash.
type FeedbackEntry struct {
	id                 string
	user               string // optional submitting user
	docID              string // matched reference document
	textHash           string // hex SHA-256 of the submitted text
	matchScore         int    // 0-100, fractional precision dropped on storage
	feedbackType       FeedbackType
	severity           int // 0-100
	detectionLayer     DetectionLayer
	confidenceOverride *int // optional, 0-100
	notes              string
	instructorReview   bool
	createdAt          time.Time
}

// FeedbackParams carries the validated inputs for NewFeedbackEntry.
type FeedbackParams struct {
	ID                 string
	User               string
	DocID              string
	TextHash           string
	MatchScore         float64
	Type               FeedbackType
	Severity           int
	Layer              DetectionLayer
	ConfidenceOverride *int
	Notes              string
	InstructorReview   bool
}

// NewFeedbackEntry validates ranges and creates an entry. The match
// score is truncated to an integer and clamped to [0, 100].
func NewFeedbackEntry(p FeedbackParams) (FeedbackEntry, error) {
	if p.Severity < 0 || p.Severity > 100 {
		return FeedbackEntry{}, fmt.Errorf("%w: %d", ErrInvalidSeverity, p.Severity)
	}
	if p.ConfidenceOverride != nil && (*p.ConfidenceOverride < 0 || *p.ConfidenceOverride > 100) {
		return FeedbackEntry{}, fmt.Errorf("%w: %d", ErrInvalidConfidence, *p.ConfidenceOverride)
	}

	score := int(p.MatchScore)
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	return FeedbackEntry{
		id:                 p.ID,
		user:               p.User,
		docID:              p.DocID,
		textHash:           p.TextHash,
		matchScore:         score,
		feedbackType:       p.Type,
		severity:           p.Severity,
		detectionLayer:     p.Layer,
		confidenceOverride: p.ConfidenceOverride,
		notes:              p.Notes,
		instructorReview:   p.InstructorReview,
		createdAt:          time.Now().UTC(),
	}, nil
}

// ReconstructFeedbackEntry creates an entry without validation (storage hydration).
func ReconstructFeedbackEntry(
	id, user, docID, textHash string, matchScore int, feedbackType FeedbackType,
	severity int, layer DetectionLayer, confidenceOverride *int, notes string,
	instructorReview bool, createdAt time.Time,
) FeedbackEntry {
	return FeedbackEntry{
		id: id, user: user, docID: docID, textHash: textHash,
		matchScore: matchScore, feedbackType: feedbackType, severity: severity,
		detectionLayer: layer, confidenceOverride: confidenceOverride,
		notes: notes, instructorReview: instructorReview, createdAt: createdAt,
	}
}

// ID returns the entry identifier.
func (e *FeedbackEntry) ID() string { return e.id }

// User returns the submitting user, empty when anonymous.
func (e *FeedbackEntry) User() string { return e.user }

// DocID returns the matched reference document id.
func (e *FeedbackEntry) DocID() string { return e.docID }

// TextHash returns the hex SHA-256 of the submitted text.
func (e *FeedbackEntry) TextHash() string { return e.textHash }

// MatchScore returns the original match score, truncated to 0-100.
func (e *FeedbackEntry) MatchScore() int { return e.matchScore }

// Type returns the feedback type.
func (e *FeedbackEntry) Type() FeedbackType { return e.feedbackType }

// Severity returns the 0-100 severity.
func (e *FeedbackEntry) Severity() int { return e.severity }

// Layer returns the implicated detection layer, LayerUnset when untagged.
func (e *FeedbackEntry) Layer() DetectionLayer { return e.detectionLayer }

// ConfidenceOverride returns the optional reviewer confidence, nil when absent.
func (e *FeedbackEntry) ConfidenceOverride() *int { return e.confidenceOverride }

// Notes returns the free-form reviewer notes.
func (e *FeedbackEntry) Notes() string { return e.notes }

// InstructorReview reports whether an instructor submitted the entry.
func (e *FeedbackEntry) InstructorReview() bool { return e.instructorReview }

// CreatedAt returns the submission timestamp.
func (e *FeedbackEntry) CreatedAt() time.Time { return e.createdAt }
