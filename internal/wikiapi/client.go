package wikiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wikinsight/wikinsight/internal/domain"
	"github.com/wikinsight/wikinsight/internal/logger"
	"github.com/wikinsight/wikinsight/internal/metrics"
	"github.com/wikinsight/wikinsight/pkg/httpclient"
)

// Endpoint labels used in errors, logs and metrics.
const (
	EndpointSearch          = "search"
	EndpointEngagementChart = "engagement_chart"
	EndpointOnThisDay       = "on_this_day"
	EndpointTopTrending     = "top_trending"
)

const (
	pathSearch          = "/wikipedia/search"
	pathEngagementChart = "/wikipedia/engagement-chart"
	pathOnThisDay       = "/wikipedia/on-this-day"
	pathTopTrending     = "/wikipedia/top-trending"

	maxErrorBodyBytes = 512
)

// Client talks to the insights backend.
type Client struct {
	baseURL string
	http    httpclient.Client
	log     logger.Logger
}

// New builds a backend client. baseURL is the API root, e.g. http://localhost:8001/api.
func New(baseURL string, client httpclient.Client, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    client,
		log:     logger.Ensure(log),
	}
}

// NewDefault builds a backend client on top of a resty transport.
func NewDefault(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return New(baseURL, httpclient.NewRestyClient(timeout), log)
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

type searchRequest struct {
	Search string `json:"search"`
}

// Search asks the backend for the engagement prediction of an article title or URL.
func (c *Client) Search(ctx context.Context, query string) (domain.Prediction, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.Prediction{}, ErrEmptyQuery
	}

	var out domain.Prediction
	err := c.do(ctx, EndpointSearch, func() (httpclient.Response, error) {
		return c.http.PostJSON(ctx, c.baseURL+pathSearch, searchRequest{Search: query}, nil)
	}, &out)
	return out, err
}

// EngagementChart fetches past and forecast pageviews for a Wikipedia URL.
func (c *Client) EngagementChart(ctx context.Context, wikiURL string) (domain.EngagementChart, error) {
	wikiURL = strings.TrimSpace(wikiURL)
	if wikiURL == "" {
		return domain.EngagementChart{}, ErrEmptyQuery
	}

	target := c.baseURL + pathEngagementChart + "?" + url.Values{"wiki_url": {wikiURL}}.Encode()
	var out domain.EngagementChart
	err := c.do(ctx, EndpointEngagementChart, func() (httpclient.Response, error) {
		return c.http.Get(ctx, target, nil)
	}, &out)
	return out, err
}

// OnThisDay fetches today's historical events.
func (c *Client) OnThisDay(ctx context.Context) ([]domain.OnThisDayEvent, error) {
	var out []domain.OnThisDayEvent
	err := c.do(ctx, EndpointOnThisDay, func() (httpclient.Response, error) {
		return c.http.Get(ctx, c.baseURL+pathOnThisDay, nil)
	}, &out)
	return out, err
}

// TopTrending fetches the most viewed articles.
func (c *Client) TopTrending(ctx context.Context) ([]domain.TrendingItem, error) {
	var out []domain.TrendingItem
	err := c.do(ctx, EndpointTopTrending, func() (httpclient.Response, error) {
		return c.http.Get(ctx, c.baseURL+pathTopTrending, nil)
	}, &out)
	return out, err
}

// do executes send, classifies the outcome and decodes the body into out.
func (c *Client) do(ctx context.Context, endpoint string, send func() (httpclient.Response, error), out any) error {
	start := time.Now()
	err := c.exchange(endpoint, send, out)
	elapsed := time.Since(start)

	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
		c.log.DebugObj("backend call completed", "backend_call", map[string]any{
			"endpoint":   endpoint,
			"elapsed_ms": elapsed.Milliseconds(),
		})
	case IsBackendError(err):
		outcome = metrics.OutcomeBackendError
		c.log.WarnObj("backend returned error", "backend_error", map[string]any{
			"endpoint": endpoint,
			"error":    err.Error(),
		})
	default:
		outcome = metrics.OutcomeRequestFailed
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			outcome = metrics.OutcomeCancelled
		}
		c.log.ErrorObj("backend request failed", "backend_request_error", map[string]any{
			"endpoint":   endpoint,
			"error":      err.Error(),
			"elapsed_ms": elapsed.Milliseconds(),
		})
	}
	metrics.RecordBackendCall(endpoint, outcome, elapsed)
	return err
}

func (c *Client) exchange(endpoint string, send func() (httpclient.Response, error), out any) error {
	if c.http == nil {
		return &RequestError{Endpoint: endpoint, Err: errors.New("client is not initialized")}
	}

	resp, err := send()
	if err != nil {
		return &RequestError{Endpoint: endpoint, Err: err}
	}

	body := resp.Body()
	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return &RequestError{Endpoint: endpoint, Status: status, Body: snippet(body)}
	}

	if msg, ok := errorField(body); ok {
		return &BackendError{Endpoint: endpoint, Message: msg}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return &RequestError{Endpoint: endpoint, Status: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorField extracts a top-level "error" from a JSON object body. Falsy
// values (null, false, 0, "") mean no error.
func errorField(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil || len(envelope.Error) == 0 {
		return "", false
	}

	raw := bytes.TrimSpace(envelope.Error)
	switch {
	case bytes.Equal(raw, []byte("null")), bytes.Equal(raw, []byte("false")), bytes.Equal(raw, []byte(`""`)):
		return "", false
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		s = strings.TrimSpace(s)
		return s, s != ""
	case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
		f, err := strconv.ParseFloat(string(raw), 64)
		if err == nil && f == 0 {
			return "", false
		}
		return string(raw), true
	default:
		return string(raw), true
	}
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > maxErrorBodyBytes {
		return s[:maxErrorBodyBytes] + "..."
	}
	if s == "" {
		return "<empty>"
	}
	return s
}
