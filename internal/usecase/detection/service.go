// Package detection implements similarity scanning against the corpus
// and cross-user indexes.
package detection

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/domain"
	"github.com/kailas-cloud/simdex/internal/index"
	"github.com/kailas-cloud/simdex/internal/metrics"
)

// DefaultThreshold is the fractional similarity cutoff used when
// neither the request nor the calibration engine supplies one.
const DefaultThreshold = 0.4

// Service runs detection requests.
type Service struct {
	corpus           Corpus
	users            UserCorpus
	embedder         Embedder
	langs            LanguageDetector
	style            StyleAnalyzer
	thresholds       Thresholds
	logger           *zap.Logger
	defaultThreshold float64
}

// New creates a detection service.
func New(
	corpus Corpus,
	users UserCorpus,
	embedder Embedder,
	langs LanguageDetector,
	style StyleAnalyzer,
	thresholds Thresholds,
	logger *zap.Logger,
) *Service {
	return &Service{
		corpus:           corpus,
		users:            users,
		embedder:         embedder,
		langs:            langs,
		style:            style,
		thresholds:       thresholds,
		logger:           logger,
		defaultThreshold: DefaultThreshold,
	}
}

// WithDefaultThreshold overrides the fallback threshold fraction.
func (s *Service) WithDefaultThreshold(threshold float64) *Service {
	if threshold > 0 && threshold < 1 {
		s.defaultThreshold = threshold
	}
	return s
}

// Detect scans the reference corpus for documents similar to text.
// threshold is a 0-1 fraction; pass 0 to use the calibrated threshold.
// With crossLanguage disabled, candidates in a different identified
// language are skipped entirely.
func (s *Service) Detect(
	ctx context.Context, text string, threshold float64, crossLanguage bool,
) (domain.DetectionResult, error) {
	start := time.Now()

	result, err := s.detect(ctx, s.corpus.Snapshot(), s.reembedCorpus, text, threshold, crossLanguage)
	s.observe("corpus", start, result, err)
	if err != nil {
		return domain.DetectionResult{}, err
	}
	return result, nil
}

// DetectCrossUser scans every other user's documents for similarity to
// owner's text. The result counts scanned documents so "no other users"
// and "no matches" stay distinguishable.
func (s *Service) DetectCrossUser(
	ctx context.Context, owner, text string, threshold float64, crossLanguage bool,
) (domain.DetectionResult, error) {
	start := time.Now()

	candidates := s.users.SnapshotOthers(owner)
	result, err := s.detect(ctx, candidates, s.reembedUser, text, threshold, crossLanguage)
	s.observe("cross_user", start, result, err)
	if err != nil {
		return domain.DetectionResult{}, err
	}

	result.TotalDocumentsChecked = len(candidates)
	return result, nil
}

type reembedFn func(ctx context.Context, c index.Candidate) ([]float32, bool)

func (s *Service) detect(
	ctx context.Context,
	candidates []index.Candidate,
	reembed reembedFn,
	text string,
	threshold float64,
	crossLanguage bool,
) (domain.DetectionResult, error) {
	if strings.TrimSpace(text) == "" {
		return domain.DetectionResult{}, domain.ErrEmptyText
	}

	th := s.resolveThreshold(ctx, threshold)

	queryLang := s.langs.Detect(text)
	styleMetrics := s.style.Analyze(text)

	embedded, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return domain.DetectionResult{}, fmt.Errorf("embed query: %w", err)
	}

	matches := s.scan(ctx, candidates, reembed, embedded.Embedding, queryLang, th, crossLanguage)

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	result := domain.DetectionResult{
		Matches:              matches,
		Stylometry:           styleMetrics,
		QueryLanguage:        queryLang,
		CrossLanguageEnabled: crossLanguage,
	}
	if len(matches) > 0 {
		result.MaxScore = matches[0].Score
	}
	for _, m := range matches {
		if m.IsCrossLanguage {
			result.CrossLanguageMatches++
		}
	}
	return result, nil
}

// scan compares the query vector against every candidate. Candidates
// embedded under an older model are re-embedded on the fly; when that
// fails the candidate is skipped for this request only.
func (s *Service) scan(
	ctx context.Context,
	candidates []index.Candidate,
	reembed reembedFn,
	query []float32,
	queryLang domain.Language,
	threshold float64,
	crossLanguage bool,
) []domain.Match {
	var matches []domain.Match
	current := s.embedder.ModelVersion()

	for _, c := range candidates {
		vec := c.Vector
		if c.ModelVersion != current {
			fresh, ok := reembed(ctx, c)
			if !ok {
				continue
			}
			vec = fresh
		}

		sim := cosineSimilarity(query, vec)
		if sim <= threshold {
			continue
		}

		cross := domain.CrossLanguage(queryLang.Code, c.Language)
		if cross && !crossLanguage {
			continue
		}

		matches = append(matches, domain.Match{
			DocID:           c.DocID,
			Score:           round2(sim * 100),
			Snippet:         domain.Preview(c.Text, domain.SnippetLength),
			Language:        c.Language,
			IsCrossLanguage: cross,
			Owner:           c.Owner,
		})
	}
	return matches
}

func (s *Service) reembedCorpus(ctx context.Context, c index.Candidate) ([]float32, bool) {
	vec, ok := s.reembedText(ctx, c)
	if ok {
		s.corpus.ReplaceVector(c.DocID, vec, s.embedder.ModelVersion())
	}
	return vec, ok
}

func (s *Service) reembedUser(ctx context.Context, c index.Candidate) ([]float32, bool) {
	vec, ok := s.reembedText(ctx, c)
	if ok {
		s.users.ReplaceVector(c.Owner, c.DocID, vec, s.embedder.ModelVersion())
	}
	return vec, ok
}

func (s *Service) reembedText(ctx context.Context, c index.Candidate) ([]float32, bool) {
	result, err := s.embedder.Embed(ctx, c.Text)
	if err != nil {
		s.logger.Warn("Failed to re-embed stale document, skipping",
			zap.String("doc_id", c.DocID),
			zap.String("stored_model", c.ModelVersion),
			zap.Error(err))
		return nil, false
	}
	return result.Embedding, true
}

// resolveThreshold converts the calibrated 0-100 threshold to the 0-1
// scale the scanner compares on when the request carries no override.
// A calibration failure degrades to the configured default rather than
// failing the request.
func (s *Service) resolveThreshold(ctx context.Context, requested float64) float64 {
	if requested > 0 {
		return requested
	}
	effective, err := s.thresholds.EffectiveThreshold(ctx)
	if err != nil {
		s.logger.Warn("Failed to load calibrated threshold, using default",
			zap.Float64("default", s.defaultThreshold), zap.Error(err))
		return s.defaultThreshold
	}
	return effective / 100
}

func (s *Service) observe(mode string, start time.Time, result domain.DetectionResult, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.DetectionRequestsTotal.WithLabelValues(mode, status).Inc()
	metrics.DetectionDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.DetectionMatches.WithLabelValues(mode).Observe(float64(len(result.Matches)))
	}
}
