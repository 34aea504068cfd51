package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/wikinsight/wikinsight/internal/insights"
	"github.com/wikinsight/wikinsight/internal/logger"
	"github.com/wikinsight/wikinsight/internal/storage"
)

// SessionCookie names the cookie that keys the compare page state.
const SessionCookie = "wikinsight_session"

// sessions persists compare page state between requests.
type sessions struct {
	store storage.Store
	ttl   time.Duration
	log   logger.Logger
}

// load returns the session id and its stored comparison. Unknown, expired or
// malformed sessions yield an idle comparison and no id.
func (s *sessions) load(c echo.Context) (string, insights.Comparison) {
	idle := insights.Comparison{Outcome: insights.OutcomeIdle}

	cookie, err := c.Cookie(SessionCookie)
	if err != nil {
		return "", idle
	}
	if _, err := uuid.Parse(cookie.Value); err != nil {
		return "", idle
	}

	raw, err := s.store.Load(cookie.Value)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.WarnObj("session load failed", "session_error", map[string]any{
				"error": err.Error(),
			})
		}
		return cookie.Value, idle
	}

	var state insights.Comparison
	if err := json.Unmarshal(raw, &state); err != nil {
		s.log.WarnObj("session payload invalid", "session_error", map[string]any{
			"error": err.Error(),
		})
		return cookie.Value, idle
	}
	return cookie.Value, state
}

// save stores state under id, minting a new id and cookie when needed.
func (s *sessions) save(c echo.Context, id string, state insights.Comparison) {
	if id == "" {
		id = uuid.NewString()
	}

	payload, err := json.Marshal(state)
	if err != nil {
		s.log.ErrorObj("session encode failed", "session_error", map[string]any{
			"error": err.Error(),
		})
		return
	}
	if err := s.store.Save(id, payload); err != nil {
		s.log.WarnObj("session save failed", "session_error", map[string]any{
			"error": err.Error(),
		})
		return
	}

	c.SetCookie(s.cookie(c, id, int(s.ttl.Seconds())))
}

// clear drops the stored state and expires the cookie.
func (s *sessions) clear(c echo.Context, id string) {
	if id == "" {
		return
	}
	if err := s.store.Delete(id); err != nil {
		s.log.WarnObj("session delete failed", "session_error", map[string]any{
			"error": err.Error(),
		})
	}
	c.SetCookie(s.cookie(c, "", -1))
}

func (s *sessions) cookie(c echo.Context, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	}
}
