package simdex

import (
	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	apiKey     string
	baseURL    string
	model      string
	dimensions int

	embedder Embedder

	defaultThreshold float64
	historyLimit     int

	logger *zap.Logger
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithOpenAI configures an OpenAI-compatible embedding provider.
// Pass an empty model to use the provider default.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.apiKey = apiKey
		c.model = model
	})
}

// WithBaseURL overrides the embedding provider endpoint. Use for
// OpenAI-compatible servers (Azure, local inference gateways).
func WithBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.baseURL = url
	})
}

// WithDimensions requests reduced-dimension embeddings from providers
// that support it. Zero (default) keeps the model's native size.
func WithDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithEmbedder sets a custom embedding provider, replacing the
// OpenAI-backed one. Takes precedence over WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithDefaultThreshold sets the fallback similarity threshold (0-1
// fraction) used when a detection call passes zero and no calibrated
// threshold is available.
func WithDefaultThreshold(threshold float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultThreshold = threshold
	})
}

// WithHistoryLimit sets the default page size for FeedbackHistory.
func WithHistoryLimit(limit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.historyLimit = limit
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
