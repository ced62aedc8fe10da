package simdex

import (
	"time"

	"github.com/kailas-cloud/simdex/internal/domain"
	calibrationuc "github.com/kailas-cloud/simdex/internal/usecase/calibration"
	feedbackuc "github.com/kailas-cloud/simdex/internal/usecase/feedback"
)

// FeedbackType classifies a grader verdict.
type FeedbackType string

// Feedback type constants.
const (
	FeedbackFalsePositive FeedbackType = "false_positive"
	FeedbackConfirmed     FeedbackType = "confirmed_plagiarism"
	FeedbackMissed        FeedbackType = "missed_detection"
	FeedbackSeverity      FeedbackType = "severity_adjustment"
)

// DetectionLayer identifies which signal family produced a match.
type DetectionLayer string

// Detection layer constants. An empty layer is accepted and excluded
// from weight rebalancing.
const (
	LayerSemantic   DetectionLayer = "semantic"
	LayerStylometry DetectionLayer = "stylometry"
	LayerCrossLang  DetectionLayer = "cross_lang"
	LayerParaphrase DetectionLayer = "paraphrase"
)

// Language is an identified language code/name pair.
type Language struct {
	Code string
	Name string
}

// StyleMetrics is the surface stylometric profile of a text.
type StyleMetrics struct {
	AvgSentenceLength  float64
	VocabularyRichness float64
	TotalSentences     int
	TotalWords         int
}

// Match is one candidate above the detection threshold.
type Match struct {
	DocID           string
	Score           float64 // similarity × 100
	Snippet         string
	Language        string
	IsCrossLanguage bool
	Owner           string // cross-user mode only
}

// DetectionResult is the outcome of one detection call.
type DetectionResult struct {
	MaxScore              float64
	Matches               []Match
	Stylometry            StyleMetrics
	QueryLanguage         Language
	CrossLanguageEnabled  bool
	CrossLanguageMatches  int
	TotalDocumentsChecked int // cross-user mode only
}

// DetectOptions tunes a single detection call. The zero value uses the
// calibrated threshold and enables cross-language matching.
type DetectOptions struct {
	// Threshold is a 0-1 similarity fraction. Zero means use the
	// calibrated threshold.
	Threshold float64
	// DisableCrossLanguage skips candidates in a different identified
	// language instead of matching them.
	DisableCrossLanguage bool
}

// Reference is a stored reference document.
type Reference struct {
	DocID        string
	Text         string
	Language     string
	ModelVersion string
	CreatedAt    time.Time
}

// UserDocument is a stored per-user document.
type UserDocument struct {
	Owner        string
	DocID        string
	Text         string
	Language     string
	ModelVersion string
	CreatedAt    time.Time
}

// Feedback is one grader verdict on a detection outcome.
type Feedback struct {
	User               string
	DocID              string
	Text               string // the checked text; stored as a hash only
	MatchScore         float64
	Type               FeedbackType
	Severity           *int // 0-100, nil = default 50
	Layer              DetectionLayer
	ConfidenceOverride *int // 0-100
	Notes              string
	InstructorReview   bool
}

// FeedbackResult is the outcome of a submission.
type FeedbackResult struct {
	ID                  string
	ThresholdAdjustment float64
}

// FeedbackEntry is one accepted ledger record.
type FeedbackEntry struct {
	ID                 string
	User               string
	DocID              string
	TextHash           string
	MatchScore         int
	Type               FeedbackType
	Severity           int
	Layer              DetectionLayer
	ConfidenceOverride *int
	Notes              string
	InstructorReview   bool
	CreatedAt          time.Time
}

// FeedbackStats aggregates the whole ledger.
type FeedbackStats struct {
	TotalFeedback         int
	FalsePositives        int
	ConfirmedPlagiarism   int
	FalsePositiveRate     float64 // percent
	AvgFalsePositiveScore float64
	AvgConfirmedScore     float64
	ThresholdAdjustment   float64
	LearningActive        bool
}

// CalibrationSnapshot is the current calibration state: layer weights
// and the effective threshold on the 0-100 scale.
type CalibrationSnapshot struct {
	SemanticWeight         float64
	StylometryWeight       float64
	CrossLangWeight        float64
	BaseThreshold          float64
	ThresholdAdjustment    float64
	EffectiveThreshold     float64
	TotalFeedbackProcessed int
	UpdatedAt              time.Time
}

// RetrainResult reports the effective threshold after a full retrain.
type RetrainResult struct {
	EffectiveThreshold float64
	LearningActive     bool
}

// --- converters ---

func fromInternalResult(r domain.DetectionResult) DetectionResult {
	matches := make([]Match, len(r.Matches))
	for i, m := range r.Matches {
		matches[i] = Match{
			DocID:           m.DocID,
			Score:           m.Score,
			Snippet:         m.Snippet,
			Language:        m.Language,
			IsCrossLanguage: m.IsCrossLanguage,
			Owner:           m.Owner,
		}
	}
	return DetectionResult{
		MaxScore:              r.MaxScore,
		Matches:               matches,
		Stylometry:            StyleMetrics(r.Stylometry),
		QueryLanguage:         Language(r.QueryLanguage),
		CrossLanguageEnabled:  r.CrossLanguageEnabled,
		CrossLanguageMatches:  r.CrossLanguageMatches,
		TotalDocumentsChecked: r.TotalDocumentsChecked,
	}
}

func fromInternalReference(d domain.ReferenceDocument) Reference {
	return Reference{
		DocID:        d.ID(),
		Text:         d.Text(),
		Language:     d.Language(),
		ModelVersion: d.ModelVersion(),
		CreatedAt:    d.CreatedAt(),
	}
}

func fromInternalUserDocument(d domain.UserDocument) UserDocument {
	return UserDocument{
		Owner:        d.Owner(),
		DocID:        d.ID(),
		Text:         d.Text(),
		Language:     d.Language(),
		ModelVersion: d.ModelVersion(),
		CreatedAt:    d.CreatedAt(),
	}
}

func fromInternalEntry(e domain.FeedbackEntry) FeedbackEntry {
	return FeedbackEntry{
		ID:                 e.ID(),
		User:               e.User(),
		DocID:              e.DocID(),
		TextHash:           e.TextHash(),
		MatchScore:         e.MatchScore(),
		Type:               FeedbackType(e.Type()),
		Severity:           e.Severity(),
		Layer:              DetectionLayer(e.Layer()),
		ConfidenceOverride: e.ConfidenceOverride(),
		Notes:              e.Notes(),
		InstructorReview:   e.InstructorReview(),
		CreatedAt:          e.CreatedAt(),
	}
}

func fromInternalStats(s feedbackuc.Stats) FeedbackStats {
	return FeedbackStats{
		TotalFeedback:         s.TotalFeedback,
		FalsePositives:        s.FalsePositives,
		ConfirmedPlagiarism:   s.ConfirmedPlagiarism,
		FalsePositiveRate:     s.FalsePositiveRate,
		AvgFalsePositiveScore: s.AvgFalsePositiveScore,
		AvgConfirmedScore:     s.AvgConfirmedScore,
		ThresholdAdjustment:   s.ThresholdAdjustment,
		LearningActive:        s.LearningActive,
	}
}

func fromInternalSnapshot(s calibrationuc.Snapshot) CalibrationSnapshot {
	return CalibrationSnapshot{
		SemanticWeight:         s.SemanticWeight,
		StylometryWeight:       s.StylometryWeight,
		CrossLangWeight:        s.CrossLangWeight,
		BaseThreshold:          s.BaseThreshold,
		ThresholdAdjustment:    s.ThresholdAdjustment,
		EffectiveThreshold:     s.EffectiveThreshold,
		TotalFeedbackProcessed: s.TotalFeedbackProcessed,
		UpdatedAt:              s.UpdatedAt,
	}
}
