package insights

import (
	"context"
	"fmt"
	"strings"

	"github.com/wikinsight/wikinsight/internal/domain"
)

// PageviewRow is one point of a single-article pageview chart.
type PageviewRow struct {
	Day   string  `json:"day"`
	Views float64 `json:"views"`
}

// PageviewRows labels each forecast value "Day N", N starting at 1.
func PageviewRows(p *domain.Prediction) []PageviewRow {
	if p == nil || len(p.Data.Pageviews) == 0 {
		return nil
	}
	rows := make([]PageviewRow, len(p.Data.Pageviews))
	for i, v := range p.Data.Pageviews {
		rows[i] = PageviewRow{Day: dayLabel(i), Views: v}
	}
	return rows
}

func dayLabel(i int) string { return fmt.Sprintf("Day %d", i+1) }

// PredictView is everything the predict page renders.
type PredictView struct {
	Search       string             `json:"search"`
	Prediction   *domain.Prediction `json:"prediction,omitempty"`
	Error        string             `json:"error,omitempty"`
	Notices      []Notice           `json:"notices,omitempty"`
	PageviewRows []PageviewRow      `json:"pageview_rows,omitempty"`
	Outcome      Outcome            `json:"outcome"`
}

// HasResult is true only for a prediction without an error.
func (v PredictView) HasResult() bool {
	return v.Error == "" && v.Prediction != nil
}

// Predictor runs the single-article prediction flow.
type Predictor struct {
	fetcher PredictionFetcher
}

// NewPredictor builds a Predictor.
func NewPredictor(f PredictionFetcher) *Predictor {
	return &Predictor{fetcher: f}
}

// Predict validates search, asks the backend and shapes the result for rendering.
func (p *Predictor) Predict(ctx context.Context, search string) PredictView {
	view := PredictView{Search: search, Outcome: OutcomeIdle}

	if strings.TrimSpace(search) == "" {
		view.Outcome = OutcomeInvalidInput
		view.Notices = addNotice(view.Notices, &Notice{Level: NoticeWarning, Text: MsgEmptyInput})
		return view
	}

	pred, err := p.fetcher.Search(ctx, search)
	outcome, inline, notice := classify(err)
	view.Outcome = outcome
	view.Error = inline
	view.Notices = addNotice(view.Notices, notice)
	if err != nil {
		return view
	}

	view.Prediction = &pred
	view.PageviewRows = PageviewRows(&pred)
	return view
}
