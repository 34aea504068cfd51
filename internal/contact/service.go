// Package contact accepts contact form submissions and hands them to the
// configured publishers.
package contact

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/wikinsight/wikinsight/internal/domain"
	"github.com/wikinsight/wikinsight/internal/logger"
	"github.com/wikinsight/wikinsight/internal/metrics"
	"github.com/wikinsight/wikinsight/pkg/publishers"
)

const (
	// MsgFailed is shown when no sink accepted the message.
	MsgFailed = "Something went wrong"
	// MsgSent is the thank-you text shown after a successful submission.
	MsgSent = "Thank you for contacting us. We'll get back to you shortly."
	// MsgThrottled is shown when a client submits too often.
	MsgThrottled = "Too many messages. Please try again in a minute."
)

// Submission statuses recorded in metrics.
const (
	StatusSent      = "sent"
	StatusInvalid   = "invalid"
	StatusFailed    = "failed"
	StatusThrottled = "throttled"
)

// Dispatcher delivers events. *publishers.Fanout satisfies it.
type Dispatcher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// View is the state of the contact page after a submission.
type View struct {
	Form        Form        `json:"form"`
	FieldErrors FieldErrors `json:"field_errors,omitempty"`
	Error       string      `json:"error,omitempty"`
	Sent        bool        `json:"sent"`
	MessageID   string      `json:"message_id,omitempty"`
}

// Service validates and dispatches contact messages.
type Service struct {
	dispatch Dispatcher
	checker  *checker
	log      logger.Logger
	now      func() time.Time
	newID    func() string
}

// NewService builds a contact service around a dispatcher.
func NewService(d Dispatcher, log logger.Logger) *Service {
	return &Service{
		dispatch: d,
		checker:  newChecker(),
		log:      logger.Ensure(log),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Submit validates the form and publishes it. A successful submission
// returns a cleared form so the page can show the thank-you state.
func (s *Service) Submit(ctx context.Context, f Form) View {
	clean := s.checker.clean(f)
	if err := s.checker.check(clean); err != nil {
		metrics.RecordContactSubmission(StatusInvalid)
		var fe FieldErrors
		if errors.As(err, &fe) {
			return View{Form: clean, FieldErrors: fe}
		}
		s.log.ErrorObj("contact form validation failed", "error", err.Error())
		return View{Form: clean, Error: MsgFailed}
	}

	msg := domain.ContactMessage{
		ID:          s.newID(),
		Name:        clean.Name,
		Email:       clean.Email,
		Subject:     clean.Subject,
		Message:     clean.Message,
		SubmittedAt: s.now().UTC(),
	}

	delivered, err := s.dispatch.Publish(ctx, publishers.NewContactEvent(msg))
	if delivered == 0 {
		metrics.RecordContactSubmission(StatusFailed)
		fields := map[string]any{"message_id": msg.ID}
		if err != nil {
			fields["error"] = err.Error()
		}
		s.log.ErrorObj("contact message not delivered", "contact_delivery", fields)
		return View{Form: clean, Error: MsgFailed}
	}
	if err != nil {
		s.log.WarnObj("contact message partially delivered", "contact_delivery", map[string]any{
			"message_id": msg.ID,
			"delivered":  delivered,
			"error":      err.Error(),
		})
	}

	metrics.RecordContactSubmission(StatusSent)
	s.log.InfoObj("contact message accepted", "contact_delivery", map[string]any{
		"message_id": msg.ID,
		"delivered":  delivered,
	})
	return View{Sent: true, MessageID: msg.ID}
}
