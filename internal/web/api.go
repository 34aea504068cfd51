package web

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wikinsight/wikinsight/internal/contact"
	"github.com/wikinsight/wikinsight/internal/insights"
	"github.com/wikinsight/wikinsight/internal/metrics"
)

// StatusFor maps an interaction outcome to the JSON API status code.
func StatusFor(o insights.Outcome) int {
	switch o {
	case insights.OutcomeInvalidInput:
		return http.StatusBadRequest
	case insights.OutcomeBackendError:
		return http.StatusUnprocessableEntity
	case insights.OutcomeRequestFailed:
		return http.StatusBadGateway
	default:
		return http.StatusOK
	}
}

// CompareResponse is the JSON shape of /api/compare.
type CompareResponse struct {
	insights.Comparison
	Metrics           []insights.MetricRow           `json:"metrics,omitempty"`
	CombinedPageviews []insights.CombinedPageviewRow `json:"combined_pageviews,omitempty"`
}

func (s *Server) apiPredict(c echo.Context) error {
	view := s.predictor.Predict(c.Request().Context(), c.QueryParam("search"))
	metrics.RecordPageRender("api_predict", string(view.Outcome))
	return c.JSON(StatusFor(view.Outcome), view)
}

// apiCompare answers 200 whenever at least one side resolved.
func (s *Server) apiCompare(c echo.Context) error {
	state := insights.Comparison{
		One: insights.Side{Search: c.QueryParam("one")},
		Two: insights.Side{Search: c.QueryParam("two")},
	}
	state.Compare(c.Request().Context(), s.backend)
	metrics.RecordPageRender("api_compare", string(state.Outcome))

	status := StatusFor(state.Outcome)
	if state.One.Prediction != nil || state.Two.Prediction != nil {
		status = http.StatusOK
	}
	return c.JSON(status, CompareResponse{
		Comparison:        state,
		Metrics:           state.MetricRows(),
		CombinedPageviews: state.CombinedPageviewRows(),
	})
}

func (s *Server) apiHome(c echo.Context) error {
	view := s.home.Load(c.Request().Context())
	metrics.RecordPageRender("api_home", string(view.Outcome))
	return c.JSON(StatusFor(view.Outcome), view)
}

func (s *Server) apiEngagement(c echo.Context) error {
	view := s.engagement.Chart(c.Request().Context(), c.QueryParam("wiki_url"))
	metrics.RecordPageRender("api_engagement", string(view.Outcome))
	return c.JSON(StatusFor(view.Outcome), view)
}

func (s *Server) apiContact(c echo.Context) error {
	var form contact.Form
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid contact payload")
	}
	view := s.contact.Submit(c.Request().Context(), form)
	switch {
	case view.Sent:
		return c.JSON(http.StatusAccepted, view)
	case len(view.FieldErrors) > 0:
		return c.JSON(http.StatusBadRequest, view)
	default:
		return c.JSON(http.StatusBadGateway, view)
	}
}

func (s *Server) contactThrottledAPI(c echo.Context) error {
	return c.JSON(http.StatusTooManyRequests, contact.View{Error: contact.MsgThrottled})
}
