package simdex

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background(), WithOpenAI("key", ""))
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_NoEmbedder(t *testing.T) {
	_, err := New(context.Background(), WithRedis("localhost:6379", ""))
	if err == nil {
		t.Fatal("expected error when no embedding provider configured")
	}
}

func TestOptions_Apply(t *testing.T) {
	cfg := &clientConfig{}
	opts := []Option{
		WithRedis("localhost:6379", "secret"),
		WithOpenAI("key", "text-embedding-3-small"),
		WithBaseURL("https://example.com/v1"),
		WithDimensions(256),
		WithDefaultThreshold(0.55),
		WithHistoryLimit(25),
		WithLogger(zap.NewNop()),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addrs = %v, want [localhost:6379]", cfg.addrs)
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}
	if cfg.apiKey != "key" || cfg.model != "text-embedding-3-small" {
		t.Errorf("embedding config = %q/%q", cfg.apiKey, cfg.model)
	}
	if cfg.baseURL != "https://example.com/v1" {
		t.Errorf("baseURL = %q", cfg.baseURL)
	}
	if cfg.dimensions != 256 {
		t.Errorf("dimensions = %d, want 256", cfg.dimensions)
	}
	if cfg.defaultThreshold != 0.55 {
		t.Errorf("defaultThreshold = %v, want 0.55", cfg.defaultThreshold)
	}
	if cfg.historyLimit != 25 {
		t.Errorf("historyLimit = %d, want 25", cfg.historyLimit)
	}
	if cfg.logger == nil {
		t.Error("logger not set")
	}
}

func TestEmbedderAdapter(t *testing.T) {
	called := false
	adapter := &embedderAdapter{inner: &mockEmbedder{
		embedFn: func(_ context.Context, text string) ([]float32, error) {
			called = true
			if text != "hello" {
				t.Errorf("text = %q, want hello", text)
			}
			return []float32{1, 2, 3}, nil
		},
		version: "custom-v1",
	}}

	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Error("inner embedder was not called")
	}
	if len(result.Embedding) != 3 {
		t.Errorf("embedding len = %d, want 3", len(result.Embedding))
	}
	if adapter.ModelVersion() != "custom-v1" {
		t.Errorf("ModelVersion = %q, want custom-v1", adapter.ModelVersion())
	}
}

func TestEmbedderAdapter_Error(t *testing.T) {
	adapter := &embedderAdapter{inner: &mockEmbedder{
		embedFn: func(_ context.Context, _ string) ([]float32, error) {
			return nil, errors.New("provider down")
		},
	}}

	_, err := adapter.Embed(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error from inner embedder")
	}
}

// --- Mocks ---

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) ([]float32, error)
	version string
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return m.embedFn(ctx, text)
}

func (m *mockEmbedder) ModelVersion() string { return m.version }
