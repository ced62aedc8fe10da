package feedback

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

var keyPrefix = domain.KeyPrefix + "feedback:"

const (
	fieldID               = "id"
	fieldUser             = "user"
	fieldDocID            = "doc_id"
	fieldTextHash         = "text_hash"
	fieldMatchScore       = "match_score"
	fieldType             = "type"
	fieldSeverity         = "severity"
	fieldLayer            = "layer"
	fieldConfidence       = "confidence_override"
	fieldNotes            = "notes"
	fieldInstructorReview = "instructor_review"
	fieldCreatedAt        = "created_at"
)

func entryKey(id string) string {
	return keyPrefix + id
}

func scanPattern() string {
	return keyPrefix + "*"
}

func buildHashFields(e *domain.FeedbackEntry) map[string]string {
	m := map[string]string{
		fieldID:               e.ID(),
		fieldUser:             e.User(),
		fieldDocID:            e.DocID(),
		fieldTextHash:         e.TextHash(),
		fieldMatchScore:       strconv.Itoa(e.MatchScore()),
		fieldType:             string(e.Type()),
		fieldSeverity:         strconv.Itoa(e.Severity()),
		fieldLayer:            string(e.Layer()),
		fieldNotes:            e.Notes(),
		fieldInstructorReview: strconv.FormatBool(e.InstructorReview()),
		fieldCreatedAt:        e.CreatedAt().Format(time.RFC3339Nano),
	}
	if c := e.ConfidenceOverride(); c != nil {
		m[fieldConfidence] = strconv.Itoa(*c)
	}
	return m
}

func parseHashFields(fields map[string]string) (domain.FeedbackEntry, error) {
	id := fields[fieldID]
	if id == "" {
		return domain.FeedbackEntry{}, fmt.Errorf("missing entry id")
	}

	fbType, err := domain.ParseFeedbackType(fields[fieldType])
	if err != nil {
		return domain.FeedbackEntry{}, fmt.Errorf("entry %q: %w", id, err)
	}
	layer, err := domain.ParseDetectionLayer(fields[fieldLayer])
	if err != nil {
		return domain.FeedbackEntry{}, fmt.Errorf("entry %q: %w", id, err)
	}

	matchScore, _ := strconv.Atoi(fields[fieldMatchScore])
	severity, _ := strconv.Atoi(fields[fieldSeverity])
	instructorReview, _ := strconv.ParseBool(fields[fieldInstructorReview])

	var confidence *int
	if raw, ok := fields[fieldConfidence]; ok && raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return domain.FeedbackEntry{}, fmt.Errorf("entry %q: bad confidence %q", id, raw)
		}
		confidence = &v
	}

	createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt])
	if err != nil {
		createdAt = time.Time{}
	}

	return domain.ReconstructFeedbackEntry(
		id, fields[fieldUser], fields[fieldDocID], fields[fieldTextHash],
		matchScore, fbType, severity, layer, confidence,
		fields[fieldNotes], instructorReview, createdAt,
	), nil
}
