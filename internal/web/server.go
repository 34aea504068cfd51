// Package web serves the wikinsight pages and JSON API over echo.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wikinsight/wikinsight/internal/contact"
	"github.com/wikinsight/wikinsight/internal/insights"
	"github.com/wikinsight/wikinsight/internal/logger"
	"github.com/wikinsight/wikinsight/internal/storage"
)

// Backend is the insights backend surface the pages need.
type Backend interface {
	insights.PredictionFetcher
	insights.FeedFetcher
	insights.ChartFetcher
}

// Options wires the server's collaborators.
type Options struct {
	Backend              Backend
	Sessions             storage.Store
	SessionTTL           time.Duration
	Contact              *contact.Service
	ContactRatePerMinute int
	// TrustedProxies are the peers whose X-Forwarded-For is believed. With
	// none, the client IP is the connection's remote address.
	TrustedProxies       []*net.IPNet
	Log                  logger.Logger
}

// Server is the HTTP front end.
type Server struct {
	echo       *echo.Echo
	backend    Backend
	predictor  *insights.Predictor
	home       *insights.Home
	engagement *insights.Engagement
	sessions   *sessions
	contact    *contact.Service
	log        logger.Logger
}

// New builds the echo instance and registers every route.
func New(opts Options) (*Server, error) {
	if opts.Backend == nil {
		return nil, errors.New("web: backend is required")
	}
	if opts.Contact == nil {
		return nil, errors.New("web: contact service is required")
	}
	if opts.Sessions == nil {
		store, err := storage.NewStore(storage.TypeNone, "", storage.Options{})
		if err != nil {
			return nil, err
		}
		opts.Sessions = store
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.ContactRatePerMinute <= 0 {
		opts.ContactRatePerMinute = 5
	}
	log := logger.Ensure(opts.Log)

	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = r
	e.IPExtractor = ipExtractor(opts.TrustedProxies)

	s := &Server{
		echo:       e,
		backend:    opts.Backend,
		predictor:  insights.NewPredictor(opts.Backend),
		home:       insights.NewHome(opts.Backend),
		engagement: insights.NewEngagement(opts.Backend),
		sessions:   &sessions{store: opts.Sessions, ttl: opts.SessionTTL, log: log},
		contact:    opts.Contact,
		log:        log,
	}

	e.Use(middleware.Recover())
	e.Use(requestLogger(log))

	e.GET("/", s.landingPage)
	e.GET("/home", s.homePage)
	e.GET("/predict", s.predictPage)
	e.POST("/predict", s.predictPage)
	e.GET("/compare", s.comparePage)
	e.POST("/compare", s.comparePage)
	e.GET("/engagement", s.engagementPage)
	e.GET("/contact", s.contactPage)
	e.POST("/contact", s.contactSubmit, contactLimiter(opts.ContactRatePerMinute, s.contactThrottledPage))

	api := e.Group("/api")
	api.GET("/predict", s.apiPredict)
	api.GET("/compare", s.apiCompare)
	api.GET("/home", s.apiHome)
	api.GET("/engagement", s.apiEngagement)
	api.POST("/contact", s.apiContact, contactLimiter(opts.ContactRatePerMinute, s.contactThrottledAPI))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Start listens on addr until Shutdown. It returns http.ErrServerClosed after
// a graceful shutdown.
func (s *Server) Start(addr string) error {
	s.log.InfoObj("http server listening", "http_addr", addr)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ipExtractor decides where c.RealIP comes from. Forwarding headers are only
// honoured from the configured proxy ranges.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, ipNet := range trusted {
		opts = append(opts, echo.TrustIPRange(ipNet))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// requestLogger routes echo's request log through the application logger.
func requestLogger(log logger.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			p := c.Request().URL.Path
			return p == "/healthz" || p == "/metrics"
		},
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := map[string]any{
				"method":     v.Method,
				"uri":        v.URI,
				"status":     v.Status,
				"latency_ms": v.Latency.Milliseconds(),
				"remote_ip":  v.RemoteIP,
			}
			switch {
			case v.Error != nil:
				fields["error"] = v.Error.Error()
				log.ErrorObj("request failed", "http_request", fields)
			case v.Status >= http.StatusBadRequest:
				log.WarnObj("request completed", "http_request", fields)
			default:
				log.InfoObj("request completed", "http_request", fields)
			}
			return nil
		},
	})
}
