package insights

import (
	"errors"

	"github.com/wikinsight/wikinsight/internal/wikiapi"
)

// User-facing messages.
const (
	MsgEmptyInput    = "Please enter a valid Wikipedia link"
	MsgRequestFailed = "An error occurred. Please try again later."
	MsgBothFailed    = "Both article searches failed. Please check your inputs and try again."
	MsgFirstFailed   = "Failed to fetch the first article. Please check your input and try again."
	MsgSecondFailed  = "Failed to fetch the second article. Please check your input and try again."
)

// NoticeLevel grades a toast notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeWarning NoticeLevel = "warning"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient toast, shown apart from the inline error.
type Notice struct {
	Level NoticeLevel `json:"level"`
	Text  string      `json:"text"`
}

// Outcome summarizes how a page interaction ended.
type Outcome string

const (
	OutcomeIdle          Outcome = "idle"
	OutcomeOK            Outcome = "ok"
	OutcomeInvalidInput  Outcome = "invalid_input"
	OutcomeBackendError  Outcome = "backend_error"
	OutcomeRequestFailed Outcome = "request_failed"
)

// classify splits err into the inline error text and the toast to raise.
// Empty input and transport failures are toasts; backend errors are inline.
func classify(err error) (Outcome, string, *Notice) {
	switch {
	case err == nil:
		return OutcomeOK, "", nil
	case errors.Is(err, wikiapi.ErrEmptyQuery):
		return OutcomeInvalidInput, "", &Notice{Level: NoticeWarning, Text: MsgEmptyInput}
	}
	if msg, ok := wikiapi.BackendMessage(err); ok {
		return OutcomeBackendError, msg, nil
	}
	return OutcomeRequestFailed, "", &Notice{Level: NoticeError, Text: MsgRequestFailed}
}

// addNotice appends n unless an identical notice is already queued.
func addNotice(list []Notice, n *Notice) []Notice {
	if n == nil {
		return list
	}
	for _, existing := range list {
		if existing == *n {
			return list
		}
	}
	return append(list, *n)
}
