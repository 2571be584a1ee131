package core_test

import (
	"context"
	"errors"
	"testing"

	"erp-backoffice/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormFlow_DoubleSubmitGuard(t *testing.T) {
	var flow core.FormFlow

	token, err := flow.Begin()
	require.NoError(t, err)

	// A second submission while the first is in flight is rejected.
	_, err = flow.Begin()
	assert.ErrorIs(t, err, core.ErrSubmissionInFlight)

	applied := false
	assert.True(t, flow.Resolve(token, func() { applied = true }))
	assert.True(t, applied)

	// After resolution a new submission may begin.
	_, err = flow.Begin()
	assert.NoError(t, err)
}

func TestFormFlow_StaleResponseDiscarded(t *testing.T) {
	var flow core.FormFlow

	token, err := flow.Begin()
	require.NoError(t, err)

	// The user resets the form while the request is still in flight.
	flow.Reset()

	applied := false
	assert.False(t, flow.Resolve(token, func() { applied = true }))
	assert.False(t, applied, "stale response must never touch form state")

	// The reset form accepts a fresh submission whose result does apply.
	token2, err := flow.Begin()
	require.NoError(t, err)
	assert.True(t, flow.Resolve(token2, nil))
}

func submittableForm(t *testing.T) *core.DocumentForm {
	t.Helper()
	f := core.NewDocumentForm(core.KindTransaction, newTestCatalog())
	f.Description = "rent"
	f.LoadLines([]core.Line{
		{Reference: "6000", Debit: "100"},
		{Reference: "1000", Credit: "100"},
	})
	require.NoError(t, f.Validate())
	return f
}

func TestFormSubmit_BlocksReentry(t *testing.T) {
	f := submittableForm(t)
	ctx := context.Background()

	err := f.Submit(ctx, func(ctx context.Context) error {
		// A second submission issued while this one is still running.
		return f.Submit(ctx, func(context.Context) error { return nil })
	})
	assert.ErrorIs(t, err, core.ErrSubmissionInFlight)

	// The guarded form accepts a fresh submission once resolved.
	assert.NoError(t, f.Submit(ctx, func(context.Context) error { return nil }))
}

func TestFormSubmit_FailureRetainsValuesAndIdles(t *testing.T) {
	f := submittableForm(t)

	boom := errors.New("connection refused")
	err := f.Submit(context.Background(), func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, core.StateIdle, f.State())
	require.Len(t, f.Lines, 2)
	assert.Equal(t, "100", f.Lines[0].Debit, "entered values survive a failed submission")
}
