package web

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/wikinsight/wikinsight/internal/contact"
	"github.com/wikinsight/wikinsight/internal/insights"
	"github.com/wikinsight/wikinsight/internal/metrics"
)

// Compare form actions.
const (
	actionCompare = "compare"
	actionSwap    = "swap"
	actionReset   = "reset"
)

func (s *Server) render(c echo.Context, status int, page string, data pageData, outcome insights.Outcome) error {
	metrics.RecordPageRender(page, string(outcome))
	return c.Render(status, page, data)
}

func (s *Server) landingPage(c echo.Context) error {
	return s.render(c, http.StatusOK, pageLanding, pageData{
		Title: "Wikipedia Engagement Insights",
		Nav:   pageLanding,
		View:  insights.Features(),
	}, insights.OutcomeOK)
}

func (s *Server) homePage(c echo.Context) error {
	view := s.home.Load(c.Request().Context())
	return s.render(c, http.StatusOK, pageHome, pageData{
		Title: "Home",
		Nav:   pageHome,
		View:  view,
	}, view.Outcome)
}

// predictPage shows the form on a plain GET and runs a prediction when a
// search was submitted (POST form or ?search=).
func (s *Server) predictPage(c echo.Context) error {
	view := insights.PredictView{Outcome: insights.OutcomeIdle}
	if c.Request().Method == http.MethodPost || c.QueryParams().Has("search") {
		view = s.predictor.Predict(c.Request().Context(), c.FormValue("search"))
	}
	return s.render(c, http.StatusOK, pagePredict, pageData{
		Title:   "Predict",
		Nav:     pagePredict,
		Notices: view.Notices,
		View:    view,
	}, view.Outcome)
}

// comparePage restores the session's comparison and applies the submitted
// action. Inputs always reflect what the user last typed.
func (s *Server) comparePage(c echo.Context) error {
	id, state := s.sessions.load(c)
	var notices []insights.Notice

	if c.Request().Method == http.MethodPost {
		state.One.Search = c.FormValue("one")
		state.Two.Search = c.FormValue("two")

		action := strings.ToLower(strings.TrimSpace(c.FormValue("action")))
		switch action {
		case actionSwap:
			state.Swap()
			state.Notices = nil
		case actionReset:
			state.Reset()
			s.sessions.clear(c, id)
		default:
			state.Compare(c.Request().Context(), s.backend)
		}
		// Notices are one-shot toasts and are not replayed from the session.
		notices, state.Notices = state.Notices, nil
		if action != actionReset {
			s.sessions.save(c, id, state)
		}
	}

	return s.render(c, http.StatusOK, pageCompare, pageData{
		Title:   "Compare",
		Nav:     pageCompare,
		Notices: notices,
		View:    newCompareView(state),
	}, state.Outcome)
}

func (s *Server) engagementPage(c echo.Context) error {
	view := insights.EngagementView{Outcome: insights.OutcomeIdle}
	if c.QueryParams().Has("wiki_url") {
		view = s.engagement.Chart(c.Request().Context(), c.QueryParam("wiki_url"))
	}
	return s.render(c, http.StatusOK, pageEngagement, pageData{
		Title:   "Engagement Chart",
		Nav:     pageHome,
		Notices: view.Notices,
		View:    view,
	}, view.Outcome)
}

func (s *Server) contactPage(c echo.Context) error {
	return s.renderContact(c, http.StatusOK, contact.View{})
}

func (s *Server) contactSubmit(c echo.Context) error {
	form := contact.Form{
		Name:    c.FormValue("name"),
		Email:   c.FormValue("email"),
		Subject: c.FormValue("subject"),
		Message: c.FormValue("message"),
	}
	view := s.contact.Submit(c.Request().Context(), form)
	return s.renderContact(c, http.StatusOK, view)
}

func (s *Server) contactThrottledPage(c echo.Context) error {
	return s.renderContact(c, http.StatusTooManyRequests, contact.View{Error: contact.MsgThrottled})
}

func (s *Server) renderContact(c echo.Context, status int, view contact.View) error {
	var notices []insights.Notice
	outcome := insights.OutcomeIdle
	switch {
	case view.Sent:
		outcome = insights.OutcomeOK
		notices = []insights.Notice{{Level: insights.NoticeSuccess, Text: "Message Sent!"}}
	case len(view.FieldErrors) > 0:
		outcome = insights.OutcomeInvalidInput
	case view.Error != "":
		outcome = insights.OutcomeRequestFailed
	}
	return s.render(c, status, pageContact, pageData{
		Title:   "Contact Us",
		Nav:     pageContact,
		Notices: notices,
		View:    view,
	}, outcome)
}
