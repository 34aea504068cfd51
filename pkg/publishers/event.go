package publishers

import (
	"time"

	"github.com/wikinsight/wikinsight/internal/domain"
)

// EventTypeContactMessage marks a contact form submission.
const EventTypeContactMessage = "contact_message"

// Event represents the payload published downstream.
type Event struct {
	Type        string                `json:"type"`
	Message     domain.ContactMessage `json:"message"`
	PublishedAt time.Time             `json:"published_at"`
}

// NewContactEvent constructs an Event for a contact form submission.
func NewContactEvent(msg domain.ContactMessage) Event {
	return Event{
		Type:        EventTypeContactMessage,
		Message:     msg,
		PublishedAt: time.Now().UTC(),
	}
}

// attributes are the routing attributes attached by queue/topic sinks.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"event_type": e.Type,
		"message_id": e.Message.ID,
	}
}
