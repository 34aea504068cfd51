package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Domain contains the view models decoded from the insights backend.

// Engagement is the backend's classification of an article's predicted pageview trend.
type Engagement string

const (
	EngagementPositive Engagement = "positive"
	EngagementNegative Engagement = "negative"
)

// Label is the wording shown to users: positive reads as High, anything else as Low.
func (e Engagement) Label() string {
	if e == EngagementPositive {
		return "High"
	}
	return "Low"
}

// Positive reports whether the backend predicted positive engagement.
func (e Engagement) Positive() bool { return e == EngagementPositive }

// Prediction is the result of POST /wikipedia/search.
type Prediction struct {
	Title         string         `json:"title"`
	SearchResults Engagement     `json:"search_results"`
	Data          PredictionData `json:"data"`
}

// PredictionData holds the article statistics and the pageview forecast.
type PredictionData struct {
	Title             string    `json:"title"`
	TitleLength       Count     `json:"title_length"`
	ArticleLength     Count     `json:"article_length"`
	NumCategories     Count     `json:"num_categories"`
	NumLinks          Count     `json:"num_links"`
	ZeroPageviewsDays Count     `json:"zero_pageviews_days"`
	RecentEditDays    Count     `json:"recent_edit_days"`
	PageviewTrend     Trend     `json:"pageview_trend"`
	Pageviews         []float64 `json:"pageviews"`
}

// Trend is displayed verbatim; the backend sends it either as a number or a string.
type Trend string

// UnmarshalJSON accepts a JSON string, number or null.
func (t *Trend) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Trend(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("pageview_trend: %w", err)
	}
	*t = Trend(n.String())
	return nil
}

// MarshalJSON emits numeric trends as numbers so the payload round-trips.
func (t Trend) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseFloat(string(t), 64); err == nil && json.Valid([]byte(t)) {
		return []byte(t), nil
	}
	return json.Marshal(string(t))
}

// Count is a whole-number statistic. The backend may encode it as 12 or 12.0;
// fractional values are rounded.
type Count int64

// UnmarshalJSON accepts a JSON integer, a float or null.
func (c *Count) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*c = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return fmt.Errorf("count: %w", err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt64 {
		return fmt.Errorf("count: %s out of range", b)
	}
	*c = Count(math.Round(f))
	return nil
}

func (c Count) String() string { return strconv.FormatInt(int64(c), 10) }

// ChartPoint is one dated sample of an engagement chart.
type ChartPoint struct {
	Date  string  `json:"date"`
	Views float64 `json:"views"`
}

// EngagementChart is the result of GET /wikipedia/engagement-chart.
type EngagementChart struct {
	Article string       `json:"article"`
	Past    []ChartPoint `json:"past"`
	Future  []ChartPoint `json:"future"`
}

// TrendingItem is one entry of GET /wikipedia/top-trending.
type TrendingItem struct {
	Rank       Count  `json:"rank"`
	Title      string `json:"title"`
	Pageviews  Count  `json:"pageviews"`
	ArticleURL string `json:"article_url"`
}

// EventImage is the optional thumbnail attached to an on-this-day event.
type EventImage struct {
	Source string `json:"source"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// OnThisDayEvent is one entry of GET /wikipedia/on-this-day.
type OnThisDayEvent struct {
	Year         int         `json:"year"`
	DisplayTitle string      `json:"displayTitle"`
	Text         string      `json:"text"`
	URL          string      `json:"url"`
	Image        *EventImage `json:"image,omitempty"`
}

// ImageSource returns the thumbnail URL or "" when the event has none.
func (e OnThisDayEvent) ImageSource() string {
	if e.Image == nil {
		return ""
	}
	return e.Image.Source
}

// ContactMessage is a submitted contact form.
type ContactMessage struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}
