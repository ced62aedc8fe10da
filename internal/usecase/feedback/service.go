// Package feedback accepts human judgments on detection results and
// feeds them to the calibration engine.
package feedback

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/domain"
	"github.com/kailas-cloud/simdex/internal/metrics"
)

// DefaultHistoryLimit caps history responses when no limit is given.
const DefaultHistoryLimit = 20

// Service handles feedback submission and reporting.
type Service struct {
	repo         Repository
	recalibrator Recalibrator
	logger       *zap.Logger
	historyLimit int
}

// New creates a feedback service.
func New(repo Repository, recalibrator Recalibrator, logger *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		recalibrator: recalibrator,
		logger:       logger,
		historyLimit: DefaultHistoryLimit,
	}
}

// WithHistoryLimit overrides the history cap used when a request
// carries no limit.
func (s *Service) WithHistoryLimit(limit int) *Service {
	if limit > 0 {
		s.historyLimit = limit
	}
	return s
}

// SubmitParams carries one feedback submission. Optional fields are
// pointers so absence is distinguishable from zero.
type SubmitParams struct {
	User               string
	DocID              string
	Text               string // the submitted text that was checked; stored as a hash only
	MatchScore         float64
	Type               domain.FeedbackType
	Severity           *int
	Layer              domain.DetectionLayer
	ConfidenceOverride *int
	Notes              string
	InstructorReview   bool
}

// Result is the outcome of a submission, including the threshold
// adjustment now in force.
type Result struct {
	Entry               domain.FeedbackEntry
	ThresholdAdjustment float64
}

// Submit appends a ledger entry and synchronously recomputes the
// threshold adjustment, so the next detection call already reflects it.
func (s *Service) Submit(ctx context.Context, p SubmitParams) (Result, error) {
	if strings.TrimSpace(p.DocID) == "" {
		return Result{}, fmt.Errorf("doc_id is required")
	}
	if strings.TrimSpace(p.Text) == "" {
		return Result{}, domain.ErrEmptyText
	}

	severity := domain.DefaultSeverity
	if p.Severity != nil {
		severity = *p.Severity
	}

	entry, err := domain.NewFeedbackEntry(domain.FeedbackParams{
		ID:                 uuid.NewString(),
		User:               p.User,
		DocID:              p.DocID,
		TextHash:           hashText(p.Text),
		MatchScore:         p.MatchScore,
		Type:               p.Type,
		Severity:           severity,
		Layer:              p.Layer,
		ConfidenceOverride: p.ConfidenceOverride,
		Notes:              p.Notes,
		InstructorReview:   p.InstructorReview,
	})
	if err != nil {
		return Result{}, err
	}

	if err := s.repo.Append(ctx, entry); err != nil {
		return Result{}, fmt.Errorf("append feedback: %w", err)
	}
	metrics.FeedbackTotal.WithLabelValues(string(entry.Type())).Inc()

	state, err := s.recalibrator.ProcessFeedback(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("recompute threshold: %w", err)
	}

	s.logger.Info("Feedback recorded",
		zap.String("feedback_id", entry.ID()),
		zap.String("type", string(entry.Type())),
		zap.Float64("threshold_adjustment", state.ThresholdAdjustment))

	return Result{Entry: entry, ThresholdAdjustment: state.ThresholdAdjustment}, nil
}

// Stats is the ledger summary.
type Stats struct {
	TotalFeedback         int     `json:"total_feedback"`
	FalsePositives        int     `json:"false_positives"`
	ConfirmedPlagiarism   int     `json:"confirmed_plagiarism"`
	FalsePositiveRate     float64 `json:"false_positive_rate"` // percent, 1 decimal
	AvgFalsePositiveScore float64 `json:"avg_false_positive_score"`
	AvgConfirmedScore     float64 `json:"avg_confirmed_score"`
	ThresholdAdjustment   float64 `json:"threshold_adjustment"`
	LearningActive        bool    `json:"learning_active"`
}

// Stats aggregates the whole ledger.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	entries, err := s.repo.LoadAll(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("load feedback ledger: %w", err)
	}

	var fp, confirmed, fpScoreSum, confirmedScoreSum int
	for i := range entries {
		e := &entries[i]
		switch e.Type() {
		case domain.FeedbackFalsePositive:
			fp++
			fpScoreSum += e.MatchScore()
		case domain.FeedbackConfirmed:
			confirmed++
			confirmedScoreSum += e.MatchScore()
		}
	}

	total := len(entries)
	stats := Stats{
		TotalFeedback:       total,
		FalsePositives:      fp,
		ConfirmedPlagiarism: confirmed,
		ThresholdAdjustment: round1(s.recalibrator.State().ThresholdAdjustment),
		LearningActive:      total >= domain.MinFeedbackForLearning,
	}
	if total > 0 {
		stats.FalsePositiveRate = round1(float64(fp) / float64(total) * 100)
	}
	if fp > 0 {
		stats.AvgFalsePositiveScore = round1(float64(fpScoreSum) / float64(fp))
	}
	if confirmed > 0 {
		stats.AvgConfirmedScore = round1(float64(confirmedScoreSum) / float64(confirmed))
	}
	return stats, nil
}

// History returns the most recent entries, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]domain.FeedbackEntry, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}

	entries, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load feedback ledger: %w", err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt().After(entries[j].CreatedAt())
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func hashText(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
