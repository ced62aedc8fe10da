// Package calibration implements the adaptive engine: threshold tuning
// from the feedback ledger and detection layer weight rebalancing.
package calibration

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/domain"
	"github.com/kailas-cloud/simdex/internal/metrics"
)

// Service owns the in-memory calibration state. Mutations serialize on
// an internal mutex; each recompute derives from the ledger's committed
// rows at read time, so concurrent submissions converge on the same
// result.
type Service struct {
	repo   Repository
	ledger Ledger
	logger *zap.Logger

	mu          sync.Mutex
	state       domain.CalibrationState
	initialized bool
}

// New creates a calibration service. Call Initialize before use.
func New(repo Repository, ledger Ledger, logger *zap.Logger) *Service {
	return &Service{repo: repo, ledger: ledger, logger: logger}
}

// Initialize loads the persisted state (or the cold-start defaults) into
// memory and publishes the calibration gauges.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}

	state, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load calibration state: %w", err)
	}

	s.state = state
	s.initialized = true
	s.publishGauges()
	return nil
}

// State returns the current calibration state.
func (s *Service) State() domain.CalibrationState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns the state shaped for API responses.
func (s *Service) Snapshot() Snapshot {
	return snapshotOf(s.State())
}

// EffectiveThreshold returns base + adjustment on the 0-100 scale.
func (s *Service) EffectiveThreshold(_ context.Context) (float64, error) {
	return s.State().EffectiveThreshold(), nil
}

// ProcessFeedback is the light recompute run after every feedback
// submission: it refreshes the scalar threshold adjustment from the
// ledger without touching layer weights.
func (s *Service) ProcessFeedback(ctx context.Context) (domain.CalibrationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.ledger.LoadAll(ctx)
	if err != nil {
		return domain.CalibrationState{}, fmt.Errorf("load feedback ledger: %w", err)
	}

	s.state.ThresholdAdjustment = adjustment(entries)
	s.state.TotalFeedbackProcessed = len(entries)
	s.state.UpdatedAt = time.Now().UTC()

	if err := s.persist(ctx); err != nil {
		return domain.CalibrationState{}, err
	}
	return s.state, nil
}

// CalculateAdaptiveThreshold runs the full threshold analysis: per-bucket
// false-positive rates, the diagnostic optimal threshold, and the global
// adjustment, which is persisted.
func (s *Service) CalculateAdaptiveThreshold(ctx context.Context) (float64, ThresholdAnalytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.ledger.LoadAll(ctx)
	if err != nil {
		return 0, ThresholdAnalytics{}, fmt.Errorf("load feedback ledger: %w", err)
	}

	total := len(entries)
	if total < domain.MinFeedbackForLearning {
		return s.state.BaseThreshold, ThresholdAnalytics{
			LearningActive:     false,
			FeedbackNeeded:     domain.MinFeedbackForLearning - total,
			EffectiveThreshold: s.state.BaseThreshold,
		}, nil
	}

	buckets := bucketStats(entries)

	// The lowest bucket with a sub-target FP rate and at least one
	// confirmed entry marks where matches become trustworthy.
	optimal := domain.DefaultBaseThreshold
	for i, b := range buckets {
		if b.FPRate < domain.TargetFalsePositiveRate*100 && b.Confirmed > 0 {
			optimal = float64(scoreBuckets[i].low)
			break
		}
	}

	adj := adjustment(entries)
	s.state.ThresholdAdjustment = adj
	s.state.TotalFeedbackProcessed = total
	s.state.UpdatedAt = time.Now().UTC()

	if err := s.persist(ctx); err != nil {
		return 0, ThresholdAnalytics{}, err
	}

	effective := s.state.EffectiveThreshold()
	return effective, ThresholdAnalytics{
		LearningActive:      true,
		TotalFeedback:       total,
		GlobalFPRate:        round1(globalFPRate(entries) * 100),
		ThresholdAdjustment: round1(adj),
		EffectiveThreshold:  round1(effective),
		OptimalThreshold:    optimal,
		ScoreRangeAnalysis:  buckets,
	}, nil
}

// RebalanceLayerWeights recomputes the three layer weights from
// per-layer accuracy and persists them. Layers without feedback use an
// uninformative 0.5 prior.
func (s *Service) RebalanceLayerWeights(ctx context.Context) (RebalanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.ledger.LoadAll(ctx)
	if err != nil {
		return RebalanceResult{}, fmt.Errorf("load feedback ledger: %w", err)
	}

	stats := layerStatistics(entries)

	accuracies := make([]float64, len(domain.WeightedLayers))
	var sum float64
	for i, layer := range domain.WeightedLayers {
		accuracies[i] = layerAccuracy(entries, layer)
		sum += accuracies[i]
	}
	if sum == 0 {
		sum = 1
	}

	weights := make([]float64, len(accuracies))
	for i, acc := range accuracies {
		weights[i] = clampWeight(acc / sum)
	}
	normalizeClamped(weights)

	s.state.SemanticWeight = weights[0]
	s.state.StylometryWeight = weights[1]
	s.state.CrossLangWeight = weights[2]
	s.state.UpdatedAt = time.Now().UTC()

	if err := s.persist(ctx); err != nil {
		return RebalanceResult{}, err
	}

	return RebalanceResult{
		LayerStatistics: stats,
		NewWeights: Weights{
			Semantic:   round3(weights[0]),
			Stylometry: round3(weights[1]),
			CrossLang:  round3(weights[2]),
		},
		CurrentWeights: snapshotOf(s.state),
	}, nil
}

// TriggerRetrain runs the threshold recompute and the weight rebalance
// in sequence. This is the only path that touches layer weights.
func (s *Service) TriggerRetrain(ctx context.Context) (RetrainResult, error) {
	threshold, analytics, err := s.CalculateAdaptiveThreshold(ctx)
	if err != nil {
		return RetrainResult{}, err
	}

	rebalance, err := s.RebalanceLayerWeights(ctx)
	if err != nil {
		return RetrainResult{}, err
	}

	return RetrainResult{
		ThresholdAnalytics:    analytics,
		WeightRebalancing:     rebalance,
		NewEffectiveThreshold: threshold,
	}, nil
}

// Analytics aggregates the whole ledger for reporting.
func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	entries, err := s.ledger.LoadAll(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("load feedback ledger: %w", err)
	}

	var fp, confirmed, instructor int
	var severitySum int
	byLayer := map[string]int{}
	for i := range entries {
		e := &entries[i]
		switch e.Type() {
		case domain.FeedbackFalsePositive:
			fp++
		case domain.FeedbackConfirmed:
			confirmed++
		}
		if e.InstructorReview() {
			instructor++
		}
		severitySum += e.Severity()
		byLayer[layerLabel(e.Layer())]++
	}

	total := len(entries)
	avgSeverity := float64(domain.DefaultSeverity)
	fpRate := 0.0
	if total > 0 {
		avgSeverity = float64(severitySum) / float64(total)
		fpRate = float64(fp) / float64(total) * 100
	}

	return Analytics{
		TotalFeedback:       total,
		FalsePositives:      fp,
		ConfirmedPlagiarism: confirmed,
		InstructorReviews:   instructor,
		FalsePositiveRate:   round1(fpRate),
		AverageSeverity:     round1(avgSeverity),
		FeedbackByLayer:     byLayer,
		LearningActive:      total >= domain.MinFeedbackForLearning,
		CurrentWeights:      s.Snapshot(),
	}, nil
}

// persist requires s.mu held.
func (s *Service) persist(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.state); err != nil {
		return fmt.Errorf("save calibration state: %w", err)
	}
	s.publishGauges()
	return nil
}

// publishGauges requires s.mu held.
func (s *Service) publishGauges() {
	metrics.CalibrationEffectiveThreshold.Set(s.state.EffectiveThreshold())
	for _, layer := range domain.WeightedLayers {
		metrics.CalibrationLayerWeight.WithLabelValues(string(layer)).Set(s.state.Weight(layer))
	}
}

// adjustment derives the threshold adjustment from the whole ledger.
// Below the learning gate the adjustment is zero: defaults stay in
// force until enough feedback accumulates.
func adjustment(entries []domain.FeedbackEntry) float64 {
	total := len(entries)
	if total < domain.MinFeedbackForLearning {
		return 0
	}

	adj := (globalFPRate(entries) - domain.TargetFalsePositiveRate) * 20
	if adj > domain.MaxThresholdAdjustment {
		adj = domain.MaxThresholdAdjustment
	}
	if adj < -domain.MaxThresholdAdjustment {
		adj = -domain.MaxThresholdAdjustment
	}
	return adj
}

func globalFPRate(entries []domain.FeedbackEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var fp int
	for i := range entries {
		if entries[i].Type() == domain.FeedbackFalsePositive {
			fp++
		}
	}
	return float64(fp) / float64(len(entries))
}

// scoreBuckets partition the 0-100 match score range. The top bucket is
// closed so a perfect score of 100 is counted.
var scoreBuckets = []struct {
	low, high int
}{
	{0, 30},
	{30, 50},
	{50, 70},
	{70, 100},
}

func inBucket(score, low, high int) bool {
	if high == 100 {
		return score >= low && score <= high
	}
	return score >= low && score < high
}

func bucketStats(entries []domain.FeedbackEntry) []BucketStats {
	out := make([]BucketStats, len(scoreBuckets))
	for i, b := range scoreBuckets {
		var fp, confirmed int
		for j := range entries {
			e := &entries[j]
			if !inBucket(e.MatchScore(), b.low, b.high) {
				continue
			}
			switch e.Type() {
			case domain.FeedbackFalsePositive:
				fp++
			case domain.FeedbackConfirmed:
				confirmed++
			}
		}
		rate := 0.0
		if fp+confirmed > 0 {
			rate = float64(fp) / float64(fp+confirmed) * 100
		}
		out[i] = BucketStats{
			Range:          fmt.Sprintf("%d-%d", b.low, b.high),
			FalsePositives: fp,
			Confirmed:      confirmed,
			FPRate:         round1(rate),
		}
	}
	return out
}

func layerStatistics(entries []domain.FeedbackEntry) map[string]LayerStats {
	layers := []domain.DetectionLayer{
		domain.LayerSemantic, domain.LayerStylometry,
		domain.LayerCrossLang, domain.LayerParaphrase,
	}

	out := make(map[string]LayerStats, len(layers))
	for _, layer := range layers {
		var fp, confirmed int
		for i := range entries {
			e := &entries[i]
			if e.Layer() != layer {
				continue
			}
			switch e.Type() {
			case domain.FeedbackFalsePositive:
				fp++
			case domain.FeedbackConfirmed:
				confirmed++
			}
		}
		total := fp + confirmed
		accuracy := 50.0
		if total > 0 {
			accuracy = float64(confirmed) / float64(total) * 100
		}
		out[string(layer)] = LayerStats{
			FalsePositives: fp,
			Confirmed:      confirmed,
			Total:          total,
			Accuracy:       round1(accuracy),
		}
	}
	return out
}

// layerAccuracy returns the 0-1 confirm rate for a layer, 0.5 when the
// layer has no feedback.
func layerAccuracy(entries []domain.FeedbackEntry, layer domain.DetectionLayer) float64 {
	var fp, confirmed int
	for i := range entries {
		e := &entries[i]
		if e.Layer() != layer {
			continue
		}
		switch e.Type() {
		case domain.FeedbackFalsePositive:
			fp++
		case domain.FeedbackConfirmed:
			confirmed++
		}
	}
	if fp+confirmed == 0 {
		return 0.5
	}
	return float64(confirmed) / float64(fp+confirmed)
}

func clampWeight(w float64) float64 {
	if w < domain.MinLayerWeight {
		return domain.MinLayerWeight
	}
	if w > domain.MaxLayerWeight {
		return domain.MaxLayerWeight
	}
	return w
}

// normalizeClamped scales weights in place so they sum to 1.0 without
// breaking the per-weight bounds: weights that would cross a bound get
// pinned there and the rest absorb the remainder proportionally.
func normalizeClamped(w []float64) {
	pinned := make([]bool, len(w))

	for range w {
		var sumPinned, sumFree float64
		for i, v := range w {
			if pinned[i] {
				sumPinned += v
			} else {
				sumFree += v
			}
		}
		if sumFree == 0 {
			return
		}

		scale := (1 - sumPinned) / sumFree
		changed := false
		for i := range w {
			if pinned[i] {
				continue
			}
			scaled := w[i] * scale
			if scaled < domain.MinLayerWeight {
				w[i] = domain.MinLayerWeight
				pinned[i] = true
				changed = true
			} else if scaled > domain.MaxLayerWeight {
				w[i] = domain.MaxLayerWeight
				pinned[i] = true
				changed = true
			}
		}
		if changed {
			continue
		}

		for i := range w {
			if !pinned[i] {
				w[i] *= scale
			}
		}
		return
	}
}

func layerLabel(layer domain.DetectionLayer) string {
	if layer == domain.LayerUnset {
		return "unspecified"
	}
	return string(layer)
}

func snapshotOf(state domain.CalibrationState) Snapshot {
	return Snapshot{
		SemanticWeight:         round3(state.SemanticWeight),
		StylometryWeight:       round3(state.StylometryWeight),
		CrossLangWeight:        round3(state.CrossLangWeight),
		BaseThreshold:          state.BaseThreshold,
		ThresholdAdjustment:    round1(state.ThresholdAdjustment),
		EffectiveThreshold:     round1(state.EffectiveThreshold()),
		TotalFeedbackProcessed: state.TotalFeedbackProcessed,
		UpdatedAt:              state.UpdatedAt,
	}
}

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
