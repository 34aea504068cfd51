package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wikinsight/wikinsight/internal/config"
	"github.com/wikinsight/wikinsight/internal/contact"
	"github.com/wikinsight/wikinsight/internal/logger"
	"github.com/wikinsight/wikinsight/internal/storage"
	"github.com/wikinsight/wikinsight/internal/web"
	"github.com/wikinsight/wikinsight/internal/wikiapi"
	"github.com/wikinsight/wikinsight/pkg/publishers"
)

const shutdownTimeout = 10 * time.Second

// Server represents the wikinsight web runtime. It wires the backend client,
// session storage, contact publishers and the HTTP front end, and owns their
// cleanup.
type Server struct {
	cfg    *config.Config
	web    *web.Server
	fanout *publishers.Fanout
	store  storage.Store
	log    logger.Logger
}

// NewServer builds the runtime from configuration.
func NewServer(ctx context.Context, cfg *config.Config, log logger.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	backend := wikiapi.NewDefault(cfg.BackendURI, cfg.BackendTimeout, log)
	log.InfoObj("backend client configured", "backend_config", map[string]any{
		"base_url":        backend.BaseURL(),
		"timeout_seconds": int(cfg.BackendTimeout.Seconds()),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	storeOpts := storage.Options{
		SessionTTL:      cfg.SessionTTL,
		CleanupInterval: cfg.SessionCleanupInterval,
	}
	store, err := storage.NewStore(cfg.SessionStore, cfg.BBoltPath, storeOpts)
	if err != nil {
		_ = fanout.Close()
		return nil, fmt.Errorf("init storage: %w", err)
	}
	log.InfoObj("session storage initialized", "storage_config", map[string]any{
		"type":                     cfg.SessionStore,
		"path":                     cfg.BBoltPath,
		"session_ttl_seconds":      int(cfg.SessionTTL.Seconds()),
		"cleanup_interval_seconds": int(cfg.SessionCleanupInterval.Seconds()),
	})

	srv, err := web.New(web.Options{
		Backend:              backend,
		Sessions:             store,
		SessionTTL:           cfg.SessionTTL,
		Contact:              contact.NewService(fanout, log),
		ContactRatePerMinute: cfg.ContactRatePerMinute,
		TrustedProxies:       cfg.TrustedProxies,
		Log:                  log,
	})
	if err != nil {
		_ = store.Close()
		_ = fanout.Close()
		return nil, fmt.Errorf("init web server: %w", err)
	}

	return &Server{
		cfg:    cfg,
		web:    srv,
		fanout: fanout,
		store:  store,
		log:    log,
	}, nil
}

// buildFanout loads the contact publishers. Without a publishers file contact
// messages are only logged.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		log.InfoObj("no publishers file configured; contact messages are logged only", "publishers_meta", map[string]any{
			"count": 1,
		})
		return publishers.NewFanout([]publishers.Publisher{publishers.NewLogPublisher("log", log)}), nil
	}

	publisherReg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := publisherReg.Enabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no publishers enabled in %s", path)
	}

	clients, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, pubCfg := range enabled {
		summaries = append(summaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(clients), nil
}

// Handler exposes the HTTP handler.
func (s *Server) Handler() http.Handler { return s.web.Handler() }

// Run serves HTTP until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	if s == nil || s.web == nil {
		return fmt.Errorf("server is not initialized")
	}
	defer s.close()

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.web.Start(s.cfg.HTTPAddr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		s.log.InfoObj("http server shutting down", "reason", ctx.Err())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.web.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// close releases storage and publisher clients, logging any errors encountered.
func (s *Server) close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.ErrorObj("storage close failed", "error", err)
		}
	}
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publishers close failed", "error", err)
	}
}
