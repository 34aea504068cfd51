package insights

import (
	"context"
	"strings"
	"sync"

	"github.com/wikinsight/wikinsight/internal/domain"
)

// combinedPageviewDays is the fixed length of the side-by-side pageview chart.
const combinedPageviewDays = 10

// Side is one of the two compared articles.
type Side struct {
	Search     string             `json:"search"`
	Prediction *domain.Prediction `json:"prediction,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Comparison is the state of the compare page. It is serialized into the
// session store between requests.
type Comparison struct {
	One     Side     `json:"one"`
	Two     Side     `json:"two"`
	Error   string   `json:"error,omitempty"`
	Notices []Notice `json:"notices,omitempty"`
	Outcome Outcome  `json:"outcome"`
}

// MetricRow is one bar group of the comparison chart.
type MetricRow struct {
	Name     string       `json:"name"`
	Article1 domain.Count `json:"article1"`
	Article2 domain.Count `json:"article2"`
}

// CombinedPageviewRow holds both articles' forecast for one day.
type CombinedPageviewRow struct {
	Day    string  `json:"day"`
	First  float64 `json:"first"`
	Second float64 `json:"second"`
}

type sideResult struct {
	pred    domain.Prediction
	outcome Outcome
	inline  string
	notice  *Notice
}

// Compare fetches both sides concurrently. A failure on one side never
// prevents the other side's result from being recorded.
func (c *Comparison) Compare(ctx context.Context, f PredictionFetcher) {
	c.Error = ""
	c.Notices = nil

	var results [2]sideResult
	searches := [2]string{c.One.Search, c.Two.Search}

	// Sides never cancel each other, so this is a plain WaitGroup rather than
	// an errgroup.
	var wg sync.WaitGroup
	for i := range searches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = fetchSide(ctx, f, searches[i])
		}()
	}
	wg.Wait()

	c.applySide(&c.One, results[0])
	c.applySide(&c.Two, results[1])

	firstOK := results[0].outcome == OutcomeOK
	secondOK := results[1].outcome == OutcomeOK
	switch {
	case firstOK && secondOK:
		c.Outcome = OutcomeOK
	case !firstOK && !secondOK:
		c.Error = MsgBothFailed
		c.Outcome = worstOutcome(results[0].outcome, results[1].outcome)
	case !firstOK:
		c.Error = MsgFirstFailed
		c.Outcome = results[0].outcome
	default:
		c.Error = MsgSecondFailed
		c.Outcome = results[1].outcome
	}
}

func fetchSide(ctx context.Context, f PredictionFetcher, search string) sideResult {
	if strings.TrimSpace(search) == "" {
		return sideResult{
			outcome: OutcomeInvalidInput,
			notice:  &Notice{Level: NoticeWarning, Text: MsgEmptyInput},
		}
	}
	pred, err := f.Search(ctx, search)
	outcome, inline, notice := classify(err)
	return sideResult{pred: pred, outcome: outcome, inline: inline, notice: notice}
}

func (c *Comparison) applySide(s *Side, r sideResult) {
	c.Notices = addNotice(c.Notices, r.notice)
	s.Error = r.inline
	if r.outcome != OutcomeOK {
		s.Prediction = nil
		return
	}
	pred := r.pred
	s.Prediction = &pred
}

// worstOutcome prefers transport failures over backend errors over input errors.
func worstOutcome(a, b Outcome) Outcome {
	rank := map[Outcome]int{
		OutcomeInvalidInput:  1,
		OutcomeBackendError:  2,
		OutcomeRequestFailed: 3,
	}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// Swap exchanges the searches and predictions of both sides.
func (c *Comparison) Swap() {
	c.One, c.Two = c.Two, c.One
}

// Reset clears both sides and any error.
func (c *Comparison) Reset() {
	*c = Comparison{Outcome: OutcomeIdle}
}

// Ready reports whether both predictions are present.
func (c Comparison) Ready() bool {
	return c.One.Prediction != nil && c.Two.Prediction != nil
}

// Partial reports whether exactly one side has a prediction.
func (c Comparison) Partial() bool {
	return (c.One.Prediction != nil) != (c.Two.Prediction != nil)
}

// MetricRows lists the compared statistics; empty unless both sides are present.
func (c Comparison) MetricRows() []MetricRow {
	if !c.Ready() {
		return nil
	}
	a, b := c.One.Prediction.Data, c.Two.Prediction.Data
	return []MetricRow{
		{Name: "Title Length", Article1: a.TitleLength, Article2: b.TitleLength},
		{Name: "Categories", Article1: a.NumCategories, Article2: b.NumCategories},
		{Name: "Links", Article1: a.NumLinks, Article2: b.NumLinks},
		{Name: "Zero Pageviews Days", Article1: a.ZeroPageviewsDays, Article2: b.ZeroPageviewsDays},
		{Name: "Recent Edit Days", Article1: a.RecentEditDays, Article2: b.RecentEditDays},
	}
}

// CombinedPageviewRows returns exactly ten days of both forecasts, zero-filled
// where a forecast is shorter; empty unless both sides have pageviews.
func (c Comparison) CombinedPageviewRows() []CombinedPageviewRow {
	if !c.Ready() || c.One.Prediction.Data.Pageviews == nil || c.Two.Prediction.Data.Pageviews == nil {
		return nil
	}
	first, second := c.One.Prediction.Data.Pageviews, c.Two.Prediction.Data.Pageviews
	rows := make([]CombinedPageviewRow, combinedPageviewDays)
	for i := range rows {
		rows[i] = CombinedPageviewRow{
			Day:    dayLabel(i),
			First:  valueAt(first, i),
			Second: valueAt(second, i),
		}
	}
	return rows
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

// SeriesNames returns the chart legend for the combined pageview rows.
func (c Comparison) SeriesNames() (string, string) {
	var first, second string
	if c.One.Prediction != nil {
		first = c.One.Prediction.Title
	}
	if c.Two.Prediction != nil {
		second = c.Two.Prediction.Title
	}
	return first, second
}
