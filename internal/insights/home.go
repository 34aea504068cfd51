package insights

import (
	"context"
	"html"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/wikinsight/wikinsight/internal/domain"
)

// OnThisDayLimit is how many historical events the home page shows.
const OnThisDayLimit = 4

// TrendingCard is a trending article ready for display.
type TrendingCard struct {
	domain.TrendingItem
	PageviewsLabel string `json:"pageviews_label"`
}

// HomeView is everything the home page renders.
type HomeView struct {
	Events   []domain.OnThisDayEvent `json:"on_this_day"`
	Trending []TrendingCard          `json:"trending"`
	Error    string                  `json:"error,omitempty"`
	Outcome  Outcome                 `json:"outcome"`
}

// Home loads the on-this-day and trending feeds.
type Home struct {
	fetcher FeedFetcher
	strip   *bluemonday.Policy
}

// NewHome builds a Home loader.
func NewHome(f FeedFetcher) *Home {
	return &Home{fetcher: f, strip: bluemonday.StrictPolicy()}
}

// Load fetches both feeds in parallel. The page fails as a whole when either does.
func (h *Home) Load(ctx context.Context) HomeView {
	var (
		events   []domain.OnThisDayEvent
		trending []domain.TrendingItem
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = h.fetcher.OnThisDay(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		trending, err = h.fetcher.TopTrending(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		outcome, inline, _ := classify(err)
		if inline == "" {
			inline = MsgRequestFailed
		}
		return HomeView{Error: inline, Outcome: outcome}
	}

	if len(events) > OnThisDayLimit {
		events = events[:OnThisDayLimit]
	}
	for i := range events {
		events[i].DisplayTitle = h.plain(events[i].DisplayTitle)
		events[i].Text = h.plain(events[i].Text)
	}

	cards := make([]TrendingCard, len(trending))
	for i, item := range trending {
		cards[i] = TrendingCard{TrendingItem: item, PageviewsLabel: FormatCount(int64(item.Pageviews))}
	}

	return HomeView{Events: events, Trending: cards, Outcome: OutcomeOK}
}

// plain strips markup such as the <i> tags Wikipedia puts in display titles.
func (h *Home) plain(s string) string {
	return html.UnescapeString(h.strip.Sanitize(s))
}

var countPrinter = message.NewPrinter(language.English)

// FormatCount renders n with thousands separators, e.g. 5,234,123.
func FormatCount(n int64) string {
	return countPrinter.Sprintf("%d", n)
}
