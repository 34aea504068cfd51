package insights

import (
	"context"
	"fmt"
	"sync"

	"github.com/wikinsight/wikinsight/internal/domain"
	"github.com/wikinsight/wikinsight/internal/wikiapi"
)

// fakeBackend answers searches from a fixed table and records calls.
type fakeBackend struct {
	mu          sync.Mutex
	predictions map[string]domain.Prediction
	errs        map[string]error
	calls       []string

	events     []domain.OnThisDayEvent
	trending   []domain.TrendingItem
	eventsErr  error
	trendErr   error
	chart      domain.EngagementChart
	chartErr   error
	chartCalls int
}

func (f *fakeBackend) Search(_ context.Context, query string) (domain.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, query)
	if err, ok := f.errs[query]; ok {
		return domain.Prediction{}, err
	}
	if p, ok := f.predictions[query]; ok {
		return p, nil
	}
	return domain.Prediction{}, fmt.Errorf("unexpected query %q", query)
}

func (f *fakeBackend) OnThisDay(context.Context) ([]domain.OnThisDayEvent, error) {
	return f.events, f.eventsErr
}

func (f *fakeBackend) TopTrending(context.Context) ([]domain.TrendingItem, error) {
	return f.trending, f.trendErr
}

func (f *fakeBackend) EngagementChart(context.Context, string) (domain.EngagementChart, error) {
	f.chartCalls++
	return f.chart, f.chartErr
}

func prediction(title string, engagement domain.Engagement, pageviews ...float64) domain.Prediction {
	return domain.Prediction{
		Title:         title,
		SearchResults: engagement,
		Data: domain.PredictionData{
			Title:             title,
			TitleLength:       domain.Count(len(title)),
			ArticleLength:     domain.Count(1000 * len(title)),
			NumCategories:     domain.Count(len(title) + 1),
			NumLinks:          domain.Count(len(title) + 2),
			ZeroPageviewsDays: 1,
			RecentEditDays:    3,
			PageviewTrend:     "0.5",
			Pageviews:         pageviews,
		},
	}
}

func backendErr(msg string) error {
	return &wikiapi.BackendError{Endpoint: wikiapi.EndpointSearch, Message: msg}
}

func requestErr() error {
	return &wikiapi.RequestError{Endpoint: wikiapi.EndpointSearch, Status: 503, Body: "unavailable"}
}
