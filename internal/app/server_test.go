package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wikinsight/wikinsight/internal/config"
	"github.com/wikinsight/wikinsight/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		AppName:                "wikinsight",
		HTTPAddr:               "127.0.0.1:0",
		BackendURI:             "http://127.0.0.1:1/api",
		BackendTimeout:         time.Second,
		SessionStore:           "bbolt",
		BBoltPath:              filepath.Join(t.TempDir(), "sessions.db"),
		SessionTTL:             time.Minute,
		SessionCleanupInterval: time.Minute,
		ContactRatePerMinute:   5,
	}
}

func TestNewServerDefaultsToLogPublisher(t *testing.T) {
	srv, err := NewServer(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer srv.close()

	if srv.fanout.Size() != 1 {
		t.Fatalf("expected log publisher only, got %d publishers", srv.fanout.Size())
	}

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz status = %d", rec.Code)
	}
}

func TestNewServerLoadsPublishersFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionStore = "memory"
	cfg.PublishersFile = filepath.Join(t.TempDir(), "publishers.yaml")
	raw := `
publishers:
  - id: audit
    type: log
  - id: hook
    type: http
    enabled: false
    http:
      url: https://example.com/hook
`
	if err := os.WriteFile(cfg.PublishersFile, []byte(raw), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	srv, err := NewServer(context.Background(), cfg, &logger.NopLogger{})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	defer srv.close()

	if srv.fanout.Size() != 1 {
		t.Fatalf("expected only enabled publishers, got %d", srv.fanout.Size())
	}
}

func TestNewServerRejectsUnknownStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionStore = "redis"
	if _, err := NewServer(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for unsupported session store")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, err := NewServer(context.Background(), testConfig(t), nil)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
