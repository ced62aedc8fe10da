package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/simdex/internal/analysis/language"
	"github.com/kailas-cloud/simdex/internal/analysis/stylometry"
	"github.com/kailas-cloud/simdex/internal/config"
	"github.com/kailas-cloud/simdex/internal/db"
	dbRedis "github.com/kailas-cloud/simdex/internal/db/redis"
	"github.com/kailas-cloud/simdex/internal/index"
	logpkg "github.com/kailas-cloud/simdex/internal/logger"
	"github.com/kailas-cloud/simdex/internal/metrics"
	calibrationrepo "github.com/kailas-cloud/simdex/internal/repository/calibration"
	"github.com/kailas-cloud/simdex/internal/repository/embcache"
	feedbackrepo "github.com/kailas-cloud/simdex/internal/repository/feedback"
	referencerepo "github.com/kailas-cloud/simdex/internal/repository/reference"
	userdocrepo "github.com/kailas-cloud/simdex/internal/repository/userdoc"
	chiTransport "github.com/kailas-cloud/simdex/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/simdex/internal/transport/openai"
	calibrationuc "github.com/kailas-cloud/simdex/internal/usecase/calibration"
	detectionuc "github.com/kailas-cloud/simdex/internal/usecase/detection"
	feedbackuc "github.com/kailas-cloud/simdex/internal/usecase/feedback"
	healthuc "github.com/kailas-cloud/simdex/internal/usecase/health"
	referenceuc "github.com/kailas-cloud/simdex/internal/usecase/reference"
	"github.com/kailas-cloud/simdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting simdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterDetectionMetrics()

	base, embedder := buildEmbedder(cfg.Embedding, store, logger)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories over the durable mirror
	refRepo := referencerepo.New(store)
	userRepo := userdocrepo.New(store)
	fbRepo := feedbackrepo.New(store)
	calRepo := calibrationrepo.New(store)

	// In-memory indexes, hydrated best-effort: a failed load starts an
	// empty but serving index.
	corpus := index.New(refRepo)
	if err := corpus.Initialize(ctx); err != nil {
		logger.Warn("Failed to hydrate reference index, starting empty", zap.Error(err))
	}
	users := index.NewUserStore(userRepo)
	if err := users.Initialize(ctx); err != nil {
		logger.Warn("Failed to hydrate user index, starting empty", zap.Error(err))
	}
	logger.Info("Indexes hydrated",
		zap.Int("reference_documents", corpus.Count()),
		zap.Int("user_documents", users.Count()),
	)

	calSvc := calibrationuc.New(calRepo, fbRepo, logger)
	if err := calSvc.Initialize(ctx); err != nil {
		logger.Warn("Failed to load calibration state, using defaults", zap.Error(err))
	}

	langs := language.NewDetector()
	style, err := stylometry.NewAnalyzer()
	if err != nil {
		logger.Fatal("Failed to create stylometry analyzer", zap.Error(err))
	}

	refSvc := referenceuc.New(corpus, users, refRepo, userRepo, embedder, langs, logger)
	detSvc := detectionuc.New(corpus, users, embedder, langs, style, calSvc, logger).
		WithDefaultThreshold(cfg.Detection.DefaultThreshold)
	fbSvc := feedbackuc.New(fbRepo, calSvc, logger).
		WithHistoryLimit(cfg.Detection.HistoryLimit)
	healthSvc := healthuc.New(store, base, corpus, users)

	server := chiTransport.NewServer(detSvc, refSvc, fbSvc, calSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI provider -> Redis
// cache. The bare provider is returned too, for health checks.
func buildEmbedder(
	cfg config.EmbeddingConfig, store db.Store, logger *zap.Logger,
) (*openaiEmb.Embedder, *embcache.CachedEmbedder) {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Model:      cfg.Model,
		Dimensions: cfg.Dimensions,
		Provider:   cfg.Provider,
		Logger:     logger,
	})

	return base, embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
