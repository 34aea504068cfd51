package insights

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikinsight/wikinsight/internal/domain"
)

func TestCompareBothSucceed(t *testing.T) {
	backend := &fakeBackend{predictions: map[string]domain.Prediction{
		"Go":   prediction("Go", domain.EngagementPositive, 1, 2, 3),
		"Rust": prediction("Rust", domain.EngagementNegative, 4, 5),
	}}

	c := Comparison{One: Side{Search: "Go"}, Two: Side{Search: "Rust"}}
	c.Compare(context.Background(), backend)

	require.True(t, c.Ready())
	assert.Equal(t, OutcomeOK, c.Outcome)
	assert.Empty(t, c.Error)
	assert.ElementsMatch(t, []string{"Go", "Rust"}, backend.calls)

	first, second := c.SeriesNames()
	assert.Equal(t, "Go", first)
	assert.Equal(t, "Rust", second)
}

func TestCompareReportsWhichSideFailed(t *testing.T) {
	cases := []struct {
		name    string
		one     string
		two     string
		wantErr string
		oneOK   bool
		twoOK   bool
	}{
		{name: "first fails", one: "Bad", two: "Rust", wantErr: MsgFirstFailed, twoOK: true},
		{name: "second fails", one: "Go", two: "Bad", wantErr: MsgSecondFailed, oneOK: true},
		{name: "both fail", one: "Bad", two: "Down", wantErr: MsgBothFailed},
		{name: "first empty", one: "", two: "Rust", wantErr: MsgFirstFailed, twoOK: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			backend := &fakeBackend{
				predictions: map[string]domain.Prediction{
					"Go":   prediction("Go", domain.EngagementPositive, 1),
					"Rust": prediction("Rust", domain.EngagementNegative, 2),
				},
				errs: map[string]error{
					"Bad":  backendErr("Article not found"),
					"Down": requestErr(),
				},
			}

			c := Comparison{One: Side{Search: tc.one}, Two: Side{Search: tc.two}}
			c.Compare(context.Background(), backend)

			assert.Equal(t, tc.wantErr, c.Error)
			assert.Equal(t, tc.oneOK, c.One.Prediction != nil)
			assert.Equal(t, tc.twoOK, c.Two.Prediction != nil)
			assert.Equal(t, tc.oneOK != tc.twoOK, c.Partial())
		})
	}
}

// rendezvousFetcher only answers once both searches are in flight.
type rendezvousFetcher struct {
	arrived sync.WaitGroup
}

func (r *rendezvousFetcher) Search(ctx context.Context, query string) (domain.Prediction, error) {
	r.arrived.Done()
	done := make(chan struct{})
	go func() { r.arrived.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		return domain.Prediction{}, requestErr()
	}
	if query == "Bad" {
		return domain.Prediction{}, backendErr("Article not found")
	}
	if err := ctx.Err(); err != nil {
		return domain.Prediction{}, err
	}
	return prediction(query, domain.EngagementPositive, 1), nil
}

func TestCompareFetchesSidesConcurrentlyWithoutCancelling(t *testing.T) {
	fetcher := &rendezvousFetcher{}
	fetcher.arrived.Add(2)

	c := Comparison{One: Side{Search: "Bad"}, Two: Side{Search: "Go"}}
	c.Compare(context.Background(), fetcher)

	assert.Equal(t, MsgFirstFailed, c.Error)
	assert.Equal(t, "Article not found", c.One.Error)
	require.NotNil(t, c.Two.Prediction)
	assert.Equal(t, "Go", c.Two.Prediction.Title)
}

func TestCompareKeepsBackendTextPerSideAndRaisesNotices(t *testing.T) {
	backend := &fakeBackend{errs: map[string]error{
		"Bad":  backendErr("Article not found"),
		"Down": requestErr(),
	}}

	c := Comparison{One: Side{Search: "Bad"}, Two: Side{Search: "Down"}}
	c.Compare(context.Background(), backend)

	assert.Equal(t, "Article not found", c.One.Error)
	assert.Empty(t, c.Two.Error)
	assert.Equal(t, []Notice{{Level: NoticeError, Text: MsgRequestFailed}}, c.Notices)
	assert.Equal(t, OutcomeRequestFailed, c.Outcome)
}

func TestCompareEmptyInputsWarnOnce(t *testing.T) {
	backend := &fakeBackend{}
	c := Comparison{}
	c.Compare(context.Background(), backend)

	assert.Empty(t, backend.calls)
	assert.Equal(t, MsgBothFailed, c.Error)
	assert.Equal(t, []Notice{{Level: NoticeWarning, Text: MsgEmptyInput}}, c.Notices)
	assert.Equal(t, OutcomeInvalidInput, c.Outcome)
}

func TestCompareClearsStalePredictionOnFailure(t *testing.T) {
	stale := prediction("Old", domain.EngagementPositive, 1)
	backend := &fakeBackend{
		predictions: map[string]domain.Prediction{"Rust": prediction("Rust", domain.EngagementNegative, 2)},
		errs:        map[string]error{"Bad": backendErr("nope")},
	}

	c := Comparison{One: Side{Search: "Bad", Prediction: &stale}, Two: Side{Search: "Rust"}}
	c.Compare(context.Background(), backend)

	assert.Nil(t, c.One.Prediction)
	assert.NotNil(t, c.Two.Prediction)
}

func TestSwapExchangesBothSides(t *testing.T) {
	goPred := prediction("Go", domain.EngagementPositive, 1)
	rustPred := prediction("Rust", domain.EngagementNegative, 2)
	c := Comparison{
		One: Side{Search: "Go", Prediction: &goPred},
		Two: Side{Search: "Rust", Prediction: &rustPred},
	}

	c.Swap()

	assert.Equal(t, "Rust", c.One.Search)
	assert.Equal(t, "Go", c.Two.Search)
	assert.Equal(t, "Rust", c.One.Prediction.Title)
	assert.Equal(t, "Go", c.Two.Prediction.Title)
}

func TestResetClearsEverything(t *testing.T) {
	goPred := prediction("Go", domain.EngagementPositive, 1)
	c := Comparison{
		One:     Side{Search: "Go", Prediction: &goPred},
		Two:     Side{Search: "Rust", Error: "x"},
		Error:   MsgSecondFailed,
		Notices: []Notice{{Level: NoticeError, Text: MsgRequestFailed}},
	}

	c.Reset()

	assert.Equal(t, Comparison{Outcome: OutcomeIdle}, c)
	assert.False(t, c.Ready())
	assert.Nil(t, c.MetricRows())
	assert.Nil(t, c.CombinedPageviewRows())
}

func TestMetricRowsExcludeArticleLength(t *testing.T) {
	goPred := prediction("Go", domain.EngagementPositive)
	rustPred := prediction("Rust", domain.EngagementNegative)
	c := Comparison{One: Side{Prediction: &goPred}, Two: Side{Prediction: &rustPred}}

	rows := c.MetricRows()
	require.Len(t, rows, 5)
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"Title Length", "Categories", "Links", "Zero Pageviews Days", "Recent Edit Days"}, names)
	assert.Equal(t, MetricRow{Name: "Title Length", Article1: 2, Article2: 4}, rows[0])
}

func TestCombinedPageviewRowsZeroFillToTenDays(t *testing.T) {
	goPred := prediction("Go", domain.EngagementPositive, 5, 6, 7)
	rustPred := prediction("Rust", domain.EngagementNegative, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11)
	c := Comparison{One: Side{Prediction: &goPred}, Two: Side{Prediction: &rustPred}}

	rows := c.CombinedPageviewRows()
	require.Len(t, rows, 10)
	assert.Equal(t, CombinedPageviewRow{Day: "Day 1", First: 5, Second: 1}, rows[0])
	assert.Equal(t, CombinedPageviewRow{Day: "Day 4", First: 0, Second: 4}, rows[3])
	assert.Equal(t, CombinedPageviewRow{Day: "Day 10", First: 0, Second: 10}, rows[9])
}

func TestCombinedPageviewRowsNeedBothSeries(t *testing.T) {
	goPred := prediction("Go", domain.EngagementPositive, 5)
	rustPred := prediction("Rust", domain.EngagementNegative)
	c := Comparison{One: Side{Prediction: &goPred}, Two: Side{Prediction: &rustPred}}

	assert.Nil(t, c.CombinedPageviewRows())
}
