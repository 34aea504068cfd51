package publishers

import (
	"time"

	"github.com/wikinsight/wikinsight/internal/domain"
)

func sampleEvent() Event {
	return NewContactEvent(domain.ContactMessage{
		ID:          "msg-1",
		Name:        "Ada",
		Email:       "ada@example.com",
		Subject:     "Forecast question",
		Message:     "How are pageviews predicted?",
		SubmittedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	})
}
