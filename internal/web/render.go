package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/wikinsight/wikinsight/internal/contact"
	"github.com/wikinsight/wikinsight/internal/domain"
	"github.com/wikinsight/wikinsight/internal/insights"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page template names.
const (
	pageLanding    = "landing"
	pageHome       = "home"
	pagePredict    = "predict"
	pageCompare    = "compare"
	pageEngagement = "engagement"
	pageContact    = "contact"
)

// pageData is handed to the layout; View carries the page's own model.
type pageData struct {
	Title   string
	Nav     string
	Notices []insights.Notice
	View    any
}

// compareView adds the derived chart rows to the stored comparison.
type compareView struct {
	State      insights.Comparison
	Metrics    []insights.MetricRow
	Combined   []insights.CombinedPageviewRow
	FirstName  string
	SecondName string
}

func newCompareView(state insights.Comparison) compareView {
	first, second := state.SeriesNames()
	return compareView{
		State:      state,
		Metrics:    state.MetricRows(),
		Combined:   state.CombinedPageviewRows(),
		FirstName:  first,
		SecondName: second,
	}
}

type sideView struct {
	Key  string
	Side insights.Side
}

// renderer implements echo.Renderer over one template set per page.
type renderer struct {
	pages map[string]*template.Template
}

func newRenderer() (*renderer, error) {
	funcs := template.FuncMap{
		"count":  func(n domain.Count) string { return insights.FormatCount(int64(n)) },
		"views":  formatViews,
		"side":   func(key string, s insights.Side) sideView { return sideView{Key: key, Side: s} },
		"thanks": func() string { return contact.MsgSent },
	}

	r := &renderer{pages: make(map[string]*template.Template)}
	for _, name := range []string{pageLanding, pageHome, pagePredict, pageCompare, pageEngagement, pageContact} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the layout of the named page.
func (r *renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// formatViews prints a pageview count without decimals; nil renders empty.
func formatViews(v any) string {
	switch n := v.(type) {
	case float64:
		return strconv.FormatFloat(n, 'f', 0, 64)
	case *float64:
		if n == nil {
			return ""
		}
		return strconv.FormatFloat(*n, 'f', 0, 64)
	default:
		return ""
	}
}
