package chi

import (
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
)

// previewLength is the number of characters of document text returned in
// list responses.
const previewLength = 100

type detectRequest struct {
	Text          string  `json:"text"`
	Threshold     float64 `json:"threshold,omitempty"`      // 0-1 fraction; 0 means calibrated
	CrossLanguage *bool   `json:"cross_language,omitempty"` // default true
}

type addDocumentRequest struct {
	DocID string `json:"doc_id"`
	Text  string `json:"text"`
}

type feedbackRequest struct {
	DocID              string  `json:"doc_id"`
	SubmittedText      string  `json:"submitted_text"`
	MatchScore         float64 `json:"match_score"`
	FeedbackType       string  `json:"feedback_type"`
	Severity           *int    `json:"severity,omitempty"`
	DetectionLayer     string  `json:"detection_layer,omitempty"`
	ConfidenceOverride *int    `json:"confidence_override,omitempty"`
	Notes              string  `json:"notes,omitempty"`
	InstructorReview   bool    `json:"instructor_review,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type addedResponse struct {
	Status   string `json:"status"`
	DocID    string `json:"doc_id"`
	Language string `json:"language,omitempty"`
	Owner    string `json:"owner,omitempty"`
}

type deletedResponse struct {
	Status    string `json:"status"`
	DocID     string `json:"doc_id"`
	Remaining int    `json:"remaining"`
}

type clearedResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type documentSummary struct {
	DocID    string `json:"doc_id"`
	Preview  string `json:"preview"`
	Language string `json:"language,omitempty"`
}

type listReferencesResponse struct {
	References []documentSummary `json:"references"`
	Count      int               `json:"count"`
}

type referenceResponse struct {
	DocID        string    `json:"doc_id"`
	Text         string    `json:"text"`
	Language     string    `json:"language"`
	ModelVersion string    `json:"model_version"`
	CreatedAt    time.Time `json:"created_at"`
}

type userDocumentsResponse struct {
	Owner     string            `json:"owner"`
	Documents []documentSummary `json:"documents"`
	Count     int               `json:"count"`
}

type feedbackResponse struct {
	ID                  string  `json:"id"`
	Status              string  `json:"status"`
	FeedbackType        string  `json:"feedback_type"`
	ThresholdAdjustment float64 `json:"threshold_adjustment"`
}

type feedbackEntryDTO struct {
	ID                 string    `json:"id"`
	User               string    `json:"user,omitempty"`
	DocID              string    `json:"doc_id"`
	TextHash           string    `json:"text_hash"`
	MatchScore         int       `json:"match_score"`
	FeedbackType       string    `json:"feedback_type"`
	Severity           int       `json:"severity"`
	DetectionLayer     string    `json:"detection_layer,omitempty"`
	ConfidenceOverride *int      `json:"confidence_override,omitempty"`
	Notes              string    `json:"notes,omitempty"`
	InstructorReview   bool      `json:"instructor_review"`
	CreatedAt          time.Time `json:"created_at"`
}

type historyResponse struct {
	History []feedbackEntryDTO `json:"history"`
	Count   int                `json:"count"`
}

type healthResponse struct {
	Status             string            `json:"status"`
	Checks             map[string]string `json:"checks"`
	ReferenceDocuments int               `json:"reference_documents"`
	UserDocuments      int               `json:"user_documents"`
}

func referenceToSummary(d *domain.ReferenceDocument) documentSummary {
	return documentSummary{
		DocID:    d.ID(),
		Preview:  domain.Preview(d.Text(), previewLength),
		Language: d.Language(),
	}
}

func userDocumentToSummary(d *domain.UserDocument) documentSummary {
	return documentSummary{
		DocID:    d.ID(),
		Preview:  domain.Preview(d.Text(), previewLength),
		Language: d.Language(),
	}
}

func feedbackEntryToDTO(e *domain.FeedbackEntry) feedbackEntryDTO {
	return feedbackEntryDTO{
		ID:                 e.ID(),
		User:               e.User(),
		DocID:              e.DocID(),
		TextHash:           e.TextHash(),
		MatchScore:         e.MatchScore(),
		FeedbackType:       string(e.Type()),
		Severity:           e.Severity(),
		DetectionLayer:     string(e.Layer()),
		ConfidenceOverride: e.ConfidenceOverride(),
		Notes:              e.Notes(),
		InstructorReview:   e.InstructorReview(),
		CreatedAt:          e.CreatedAt(),
	}
}
