package insights

import (
	"context"

	"github.com/wikinsight/wikinsight/internal/domain"
)

// PredictionFetcher resolves an article title or URL into a prediction.
type PredictionFetcher interface {
	Search(ctx context.Context, query string) (domain.Prediction, error)
}

// FeedFetcher serves the home page feeds.
type FeedFetcher interface {
	OnThisDay(ctx context.Context) ([]domain.OnThisDayEvent, error)
	TopTrending(ctx context.Context) ([]domain.TrendingItem, error)
}

// ChartFetcher serves engagement charts.
type ChartFetcher interface {
	EngagementChart(ctx context.Context, wikiURL string) (domain.EngagementChart, error)
}
