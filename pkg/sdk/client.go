package simdex

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/analysis/language"
	"github.com/kailas-cloud/simdex/internal/analysis/stylometry"
	"github.com/kailas-cloud/simdex/internal/db"
	dbRedis "github.com/kailas-cloud/simdex/internal/db/redis"
	"github.com/kailas-cloud/simdex/internal/domain"
	"github.com/kailas-cloud/simdex/internal/index"
	"github.com/kailas-cloud/simdex/internal/metrics"
	calibrationrepo "github.com/kailas-cloud/simdex/internal/repository/calibration"
	"github.com/kailas-cloud/simdex/internal/repository/embcache"
	feedbackrepo "github.com/kailas-cloud/simdex/internal/repository/feedback"
	referencerepo "github.com/kailas-cloud/simdex/internal/repository/reference"
	userdocrepo "github.com/kailas-cloud/simdex/internal/repository/userdoc"
	openaiEmb "github.com/kailas-cloud/simdex/internal/transport/openai"
	calibrationuc "github.com/kailas-cloud/simdex/internal/usecase/calibration"
	detectionuc "github.com/kailas-cloud/simdex/internal/usecase/detection"
	feedbackuc "github.com/kailas-cloud/simdex/internal/usecase/feedback"
	referenceuc "github.com/kailas-cloud/simdex/internal/usecase/reference"
)

const defaultReadinessTimeout = 10 * time.Second

// Внутренние интерфейсы для подмены в тестах.
type detectionUseCase interface {
	Detect(ctx context.Context, text string, threshold float64, crossLanguage bool) (domain.DetectionResult, error)
	DetectCrossUser(ctx context.Context, owner, text string, threshold float64, crossLanguage bool) (domain.DetectionResult, error)
}

type referenceUseCase interface {
	AddDocument(ctx context.Context, id, text string) (domain.ReferenceDocument, error)
	RemoveDocument(ctx context.Context, id string) error
	Clear(ctx context.Context)
	Get(id string) (domain.ReferenceDocument, error)
	List() []domain.ReferenceDocument
	AddUserDocument(ctx context.Context, owner, id, text string) (domain.UserDocument, error)
	RemoveUserDocument(ctx context.Context, owner, id string) error
	ListUserDocuments(owner string) []domain.UserDocument
}

type feedbackUseCase interface {
	Submit(ctx context.Context, p feedbackuc.SubmitParams) (feedbackuc.Result, error)
	Stats(ctx context.Context) (feedbackuc.Stats, error)
	History(ctx context.Context, limit int) ([]domain.FeedbackEntry, error)
}

type calibrationUseCase interface {
	Snapshot() calibrationuc.Snapshot
	TriggerRetrain(ctx context.Context) (calibrationuc.RetrainResult, error)
}

// Client is the simdex SDK entry point.
type Client struct {
	store     db.Store
	detectSvc detectionUseCase
	refSvc    referenceUseCase
	fbSvc     feedbackUseCase
	calSvc    calibrationUseCase
}

// New creates a simdex Client and connects to the database.
// The provided context is used for the initial readiness check and
// index hydration.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("simdex: database address required (use WithRedis)")
	}
	if cfg.embedder == nil && cfg.apiKey == "" {
		return nil, errors.New("simdex: embedding provider required (use WithOpenAI or WithEmbedder)")
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("simdex: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("simdex: database not ready: %w", err)
	}

	return wireClient(ctx, store, cfg)
}

func wireClient(ctx context.Context, store db.Store, cfg *clientConfig) (*Client, error) {
	logger := cfg.logger

	refRepo := referencerepo.New(store)
	userRepo := userdocrepo.New(store)
	fbRepo := feedbackrepo.New(store)
	calRepo := calibrationrepo.New(store)

	// Indexes hydrate best-effort: a failed load starts empty.
	corpus := index.New(refRepo)
	if err := corpus.Initialize(ctx); err != nil {
		logger.Warn("Failed to hydrate reference index, starting empty", zap.Error(err))
	}
	users := index.NewUserStore(userRepo)
	if err := users.Initialize(ctx); err != nil {
		logger.Warn("Failed to hydrate user index, starting empty", zap.Error(err))
	}

	calSvc := calibrationuc.New(calRepo, fbRepo, logger)
	if err := calSvc.Initialize(ctx); err != nil {
		logger.Warn("Failed to load calibration state, using defaults", zap.Error(err))
	}

	embedder := buildEmbedder(cfg, store, logger)

	langs := language.NewDetector()
	style, err := stylometry.NewAnalyzer()
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("simdex: create stylometry analyzer: %w", err)
	}

	detSvc := detectionuc.New(corpus, users, embedder, langs, style, calSvc, logger)
	if cfg.defaultThreshold > 0 {
		detSvc = detSvc.WithDefaultThreshold(cfg.defaultThreshold)
	}
	refSvc := referenceuc.New(corpus, users, refRepo, userRepo, embedder, langs, logger)
	fbSvc := feedbackuc.New(fbRepo, calSvc, logger)
	if cfg.historyLimit > 0 {
		fbSvc = fbSvc.WithHistoryLimit(cfg.historyLimit)
	}

	return &Client{
		store:     store,
		detectSvc: detSvc,
		refSvc:    refSvc,
		fbSvc:     fbSvc,
		calSvc:    calSvc,
	}, nil
}

func buildEmbedder(cfg *clientConfig, store db.Store, logger *zap.Logger) detectionuc.Embedder {
	if cfg.embedder != nil {
		return &embedderAdapter{inner: cfg.embedder}
	}
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.apiKey,
		BaseURL:    cfg.baseURL,
		Model:      cfg.model,
		Dimensions: cfg.dimensions,
		Provider:   "openai",
		Logger:     logger,
	})
	return embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
