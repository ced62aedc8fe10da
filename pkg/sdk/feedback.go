package simdex

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/simdex/internal/domain"
	feedbackuc "github.com/kailas-cloud/simdex/internal/usecase/feedback"
)

// SubmitFeedback appends a verdict to the ledger and synchronously
// recomputes the threshold adjustment, so the next Detect call already
// reflects it.
func (c *Client) SubmitFeedback(ctx context.Context, f Feedback) (FeedbackResult, error) {
	fbType, err := domain.ParseFeedbackType(string(f.Type))
	if err != nil {
		return FeedbackResult{}, fmt.Errorf("submit feedback: %w", err)
	}
	layer, err := domain.ParseDetectionLayer(string(f.Layer))
	if err != nil {
		return FeedbackResult{}, fmt.Errorf("submit feedback: %w", err)
	}

	r, err := c.fbSvc.Submit(ctx, feedbackuc.SubmitParams{
		User:               f.User,
		DocID:              f.DocID,
		Text:               f.Text,
		MatchScore:         f.MatchScore,
		Type:               fbType,
		Severity:           f.Severity,
		Layer:              layer,
		ConfidenceOverride: f.ConfidenceOverride,
		Notes:              f.Notes,
		InstructorReview:   f.InstructorReview,
	})
	if err != nil {
		return FeedbackResult{}, fmt.Errorf("submit feedback: %w", err)
	}
	return FeedbackResult{
		ID:                  r.Entry.ID(),
		ThresholdAdjustment: r.ThresholdAdjustment,
	}, nil
}

// FeedbackStats aggregates the whole ledger.
func (c *Client) FeedbackStats(ctx context.Context) (FeedbackStats, error) {
	s, err := c.fbSvc.Stats(ctx)
	if err != nil {
		return FeedbackStats{}, fmt.Errorf("feedback stats: %w", err)
	}
	return fromInternalStats(s), nil
}

// FeedbackHistory returns the most recent ledger entries, newest first.
// Pass limit 0 to use the client default.
func (c *Client) FeedbackHistory(ctx context.Context, limit int) ([]FeedbackEntry, error) {
	entries, err := c.fbSvc.History(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("feedback history: %w", err)
	}
	out := make([]FeedbackEntry, len(entries))
	for i, e := range entries {
		out[i] = fromInternalEntry(e)
	}
	return out, nil
}

// Retrain recomputes the adaptive threshold and rebalances layer
// weights from the full ledger.
func (c *Client) Retrain(ctx context.Context) (RetrainResult, error) {
	r, err := c.calSvc.TriggerRetrain(ctx)
	if err != nil {
		return RetrainResult{}, fmt.Errorf("retrain: %w", err)
	}
	return RetrainResult{
		EffectiveThreshold: r.NewEffectiveThreshold,
		LearningActive:     r.ThresholdAnalytics.LearningActive,
	}, nil
}

// Calibration returns the current layer weights and effective
// threshold.
func (c *Client) Calibration(_ context.Context) (CalibrationSnapshot, error) {
	return fromInternalSnapshot(c.calSvc.Snapshot()), nil
}
