package publishers

import "context"

// logPublisher writes events to the application log. It is the fallback sink
// when no publishers file is configured.
type logPublisher struct {
	id  string
	log Logger
}

func newLogPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	return NewLogPublisher(cfg.ID, log), nil
}

// NewLogPublisher returns a publisher that only logs events.
func NewLogPublisher(id string, log Logger) Publisher {
	if id == "" {
		id = "log"
	}
	return &logPublisher{id: id, log: ensureLogger(log)}
}

func (l *logPublisher) ID() string   { return l.id }
func (l *logPublisher) Type() string { return TypeLog }

func (l *logPublisher) Publish(_ context.Context, evt Event) error {
	l.log.InfoObj("contact message received", "contact_event", map[string]any{
		"type":       evt.Type,
		"message_id": evt.Message.ID,
		"subject":    evt.Message.Subject,
		"from":       evt.Message.Email,
	})
	return nil
}
