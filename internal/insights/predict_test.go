package insights

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wikinsight/wikinsight/internal/domain"
)

func TestPredictRejectsEmptyInput(t *testing.T) {
	backend := &fakeBackend{}
	view := NewPredictor(backend).Predict(context.Background(), "  ")

	assert.Equal(t, OutcomeInvalidInput, view.Outcome)
	assert.Equal(t, []Notice{{Level: NoticeWarning, Text: MsgEmptyInput}}, view.Notices)
	assert.False(t, view.HasResult())
	assert.Empty(t, backend.calls)
}

func TestPredictSuccessPopulatesView(t *testing.T) {
	backend := &fakeBackend{predictions: map[string]domain.Prediction{
		"Go": prediction("Go", domain.EngagementPositive, 10, 20, 30),
	}}

	view := NewPredictor(backend).Predict(context.Background(), "Go")

	require.True(t, view.HasResult())
	assert.Equal(t, OutcomeOK, view.Outcome)
	assert.Empty(t, view.Error)
	assert.Empty(t, view.Notices)
	assert.Equal(t, "High", view.Prediction.SearchResults.Label())
	assert.Equal(t, []PageviewRow{
		{Day: "Day 1", Views: 10},
		{Day: "Day 2", Views: 20},
		{Day: "Day 3", Views: 30},
	}, view.PageviewRows)
}

func TestPredictBackendErrorSuppressesResult(t *testing.T) {
	backend := &fakeBackend{errs: map[string]error{"Nope": backendErr("Article not found")}}

	view := NewPredictor(backend).Predict(context.Background(), "Nope")

	assert.Equal(t, OutcomeBackendError, view.Outcome)
	assert.Equal(t, "Article not found", view.Error)
	assert.Nil(t, view.Prediction)
	assert.False(t, view.HasResult())
	assert.Empty(t, view.Notices)
}

func TestPredictRequestFailureRaisesToast(t *testing.T) {
	backend := &fakeBackend{errs: map[string]error{"Go": requestErr()}}

	view := NewPredictor(backend).Predict(context.Background(), "Go")

	assert.Equal(t, OutcomeRequestFailed, view.Outcome)
	assert.Empty(t, view.Error)
	assert.Equal(t, []Notice{{Level: NoticeError, Text: MsgRequestFailed}}, view.Notices)
	assert.False(t, view.HasResult())
}

func TestPageviewRowsNil(t *testing.T) {
	assert.Nil(t, PageviewRows(nil))
	p := prediction("x", domain.EngagementNegative)
	assert.Nil(t, PageviewRows(&p))
}
