package insights

import (
	"context"
	"strings"

	"github.com/wikinsight/wikinsight/internal/domain"
)

// EngagementRow is one date on the past/forecast chart. Past and Future are
// nil where that series has no value.
type EngagementRow struct {
	Date   string   `json:"date"`
	Past   *float64 `json:"past,omitempty"`
	Future *float64 `json:"future,omitempty"`
}

// EngagementView is everything the engagement chart page renders.
type EngagementView struct {
	WikiURL string                  `json:"wiki_url"`
	Chart   *domain.EngagementChart `json:"chart,omitempty"`
	Rows    []EngagementRow         `json:"rows,omitempty"`
	Error   string                  `json:"error,omitempty"`
	Notices []Notice                `json:"notices,omitempty"`
	Outcome Outcome                 `json:"outcome"`
}

// Engagement runs the engagement chart flow.
type Engagement struct {
	fetcher ChartFetcher
}

// NewEngagement builds an Engagement page loader.
func NewEngagement(f ChartFetcher) *Engagement {
	return &Engagement{fetcher: f}
}

// Chart validates wikiURL, fetches the chart and merges both series into rows.
func (e *Engagement) Chart(ctx context.Context, wikiURL string) EngagementView {
	view := EngagementView{WikiURL: wikiURL, Outcome: OutcomeIdle}
	if strings.TrimSpace(wikiURL) == "" {
		view.Outcome = OutcomeInvalidInput
		view.Notices = addNotice(view.Notices, &Notice{Level: NoticeWarning, Text: MsgEmptyInput})
		return view
	}

	chart, err := e.fetcher.EngagementChart(ctx, wikiURL)
	outcome, inline, notice := classify(err)
	view.Outcome = outcome
	view.Error = inline
	view.Notices = addNotice(view.Notices, notice)
	if err != nil {
		return view
	}

	view.Chart = &chart
	view.Rows = EngagementRows(chart)
	return view
}

// EngagementRows lays out past points followed by forecast points. When both
// series exist the last past row also carries its value as Future so the two
// lines meet.
func EngagementRows(chart domain.EngagementChart) []EngagementRow {
	rows := make([]EngagementRow, 0, len(chart.Past)+len(chart.Future))
	for _, p := range chart.Past {
		v := p.Views
		rows = append(rows, EngagementRow{Date: p.Date, Past: &v})
	}
	if len(rows) > 0 && len(chart.Future) > 0 {
		joint := *rows[len(rows)-1].Past
		rows[len(rows)-1].Future = &joint
	}
	for _, p := range chart.Future {
		v := p.Views
		rows = append(rows, EngagementRow{Date: p.Date, Future: &v})
	}
	return rows
}
