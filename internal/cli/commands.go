package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wikinsight/wikinsight/internal/domain"
	"github.com/wikinsight/wikinsight/internal/insights"
)

func newPredictCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <title-or-url>",
		Short: "Predict future engagement for a Wikipedia article",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := insights.NewPredictor(e.backend).Predict(cmd.Context(), strings.Join(args, " "))
			if e.opts.json {
				if err := e.printer.json(view); err != nil {
					return err
				}
				return outcomeErr(view.Outcome, view.Error, view.Notices)
			}

			e.printer.notices(view.Notices)
			if !view.HasResult() {
				return outcomeErr(view.Outcome, view.Error, view.Notices)
			}
			return printPrediction(e.printer, view.Prediction, view.PageviewRows)
		},
	}
}

func printPrediction(p *printer, pred *domain.Prediction, rows []insights.PageviewRow) error {
	p.header(pred.Title)
	p.line("Predicted engagement: %s", p.engagement(pred.SearchResults))

	d := pred.Data
	if err := p.table([]string{"Statistic", "Value"}, [][]string{
		{"Title Length", d.TitleLength.String()},
		{"Article Length", insights.FormatCount(int64(d.ArticleLength)) + " chars"},
		{"Categories", d.NumCategories.String()},
		{"Links", d.NumLinks.String()},
		{"Zero Pageviews Days", d.ZeroPageviewsDays.String()},
		{"Recent Edit Days", d.RecentEditDays.String()},
		{"Pageview Trend", string(d.PageviewTrend)},
	}); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	table := make([][]string, len(rows))
	for i, r := range rows {
		table[i] = []string{r.Day, views(r.Views)}
	}
	return p.table([]string{"Day", "Views"}, table)
}

func newCompareCmd(e *env) *cobra.Command {
	var swap bool
	cmd := &cobra.Command{
		Use:   "compare <first> <second>",
		Short: "Compare the engagement of two articles",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := insights.Comparison{
				One: insights.Side{Search: args[0]},
				Two: insights.Side{Search: args[1]},
			}
			state.Compare(cmd.Context(), e.backend)
			if swap {
				state.Swap()
			}

			if e.opts.json {
				if err := e.printer.json(map[string]any{
					"comparison":         state,
					"metrics":            state.MetricRows(),
					"combined_pageviews": state.CombinedPageviewRows(),
				}); err != nil {
					return err
				}
				return compareErr(state)
			}

			e.printer.notices(state.Notices)
			if err := printComparison(e.printer, state); err != nil {
				return err
			}
			return compareErr(state)
		},
	}
	cmd.Flags().BoolVar(&swap, "swap", false, "swap the two articles before printing")
	return cmd
}

// compareErr fails the command only when neither side resolved.
func compareErr(state insights.Comparison) error {
	if state.One.Prediction != nil || state.Two.Prediction != nil {
		return nil
	}
	return outcomeErr(state.Outcome, state.Error, state.Notices)
}

func printComparison(p *printer, state insights.Comparison) error {
	for i, side := range []insights.Side{state.One, state.Two} {
		switch {
		case side.Prediction != nil:
			p.line("%d. %s: %s engagement", i+1, p.bold.Sprint(side.Prediction.Title), p.engagement(side.Prediction.SearchResults))
		case side.Error != "":
			p.line("%d. %s: %s", i+1, side.Search, side.Error)
		default:
			p.line("%d. %s: no result", i+1, side.Search)
		}
	}
	if state.Error != "" {
		fmt.Fprintln(p.err, p.danger.Sprint(state.Error))
	}
	if !state.Ready() {
		return nil
	}

	first, second := state.SeriesNames()
	metrics := state.MetricRows()
	rows := make([][]string, len(metrics))
	for i, m := range metrics {
		rows[i] = []string{m.Name, m.Article1.String(), m.Article2.String()}
	}
	if err := p.table([]string{"Metric", first, second}, rows); err != nil {
		return err
	}

	combined := state.CombinedPageviewRows()
	if len(combined) == 0 {
		return nil
	}
	rows = make([][]string, len(combined))
	for i, r := range combined {
		rows[i] = []string{r.Day, views(r.First), views(r.Second)}
	}
	return p.table([]string{"Day", first, second}, rows)
}

func newHomeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show on-this-day events and top trending articles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := insights.NewHome(e.backend).Load(cmd.Context())
			if e.opts.json {
				if err := e.printer.json(view); err != nil {
					return err
				}
				return outcomeErr(view.Outcome, view.Error, nil)
			}
			if view.Error != "" {
				return outcomeErr(view.Outcome, view.Error, nil)
			}

			e.printer.header("On This Day")
			events := make([][]string, len(view.Events))
			for i, ev := range view.Events {
				events[i] = []string{strconv.Itoa(ev.Year), ev.DisplayTitle, ev.Text}
			}
			if err := e.printer.table([]string{"Year", "Title", "Event"}, events); err != nil {
				return err
			}

			e.printer.header("Top Trending")
			trending := make([][]string, len(view.Trending))
			for i, t := range view.Trending {
				trending[i] = []string{t.Rank.String(), t.Title, t.PageviewsLabel}
			}
			return e.printer.table([]string{"Rank", "Title", "Views"}, trending)
		},
	}
}

func newChartCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "chart <wiki-url>",
		Short: "Show past and forecast pageviews for an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := insights.NewEngagement(e.backend).Chart(cmd.Context(), args[0])
			if e.opts.json {
				if err := e.printer.json(view); err != nil {
					return err
				}
				return outcomeErr(view.Outcome, view.Error, view.Notices)
			}

			e.printer.notices(view.Notices)
			if view.Chart == nil {
				return outcomeErr(view.Outcome, view.Error, view.Notices)
			}

			e.printer.header(view.Chart.Article)
			rows := make([][]string, len(view.Rows))
			for i, r := range view.Rows {
				rows[i] = []string{r.Date, optionalViews(r.Past), optionalViews(r.Future)}
			}
			return e.printer.table([]string{"Date", "Past", "Forecast"}, rows)
		},
	}
}

func views(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func optionalViews(v *float64) string {
	if v == nil {
		return ""
	}
	return views(*v)
}
