package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordBackendCallIncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("search", OutcomeOK))
	RecordBackendCall("search", OutcomeOK, 20*time.Millisecond)
	after := testutil.ToFloat64(BackendRequestsTotal.WithLabelValues("search", OutcomeOK))
	if after-before != 1 {
		t.Fatalf("expected counter to grow by 1, got %v", after-before)
	}
}

func TestRecordContactSubmission(t *testing.T) {
	before := testutil.ToFloat64(ContactSubmissionsTotal.WithLabelValues("accepted"))
	RecordContactSubmission("accepted")
	if got := testutil.ToFloat64(ContactSubmissionsTotal.WithLabelValues("accepted")); got-before != 1 {
		t.Fatalf("expected contact counter to grow by 1, got %v", got-before)
	}
}
