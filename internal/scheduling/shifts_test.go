package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitShift_CreatesProposedShift(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	end := time.Date(2025, 1, 10, 12, 0, 0, 0, time.Local)

	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, end)

	require.NoError(t, err)
	assert.Equal(t, ShiftProposed, shift.Status)
	assert.Equal(t, f.clinician.ID, shift.ClinicianID)
	assert.Equal(t, shiftDate, shift.Date)
	assert.False(t, shift.IsBooked)
}

func TestSubmitShift_RejectsInvertedWindow(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 12, 0, 0, 0, time.Local)
	end := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)

	_, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, end)
	assert.ErrorIs(t, err, ErrValidation)

	// Equal start and end is just as invalid.
	_, err = f.svc.SubmitShift(context.Background(), f.clinician.ID, start, start)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitShift_UnknownClinician(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	_, err := f.svc.SubmitShift(context.Background(), uuid.New(), start, start.Add(time.Hour))

	assert.ErrorIs(t, err, ErrClinicianNotFound)
}

func TestReviewShift_Accept(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	reviewed, err := f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, DecisionAccept, "")

	require.NoError(t, err)
	assert.Equal(t, ShiftAccepted, reviewed.Status)
	assert.Nil(t, reviewed.RejectionReason)
	assert.Nil(t, reviewed.BusyReason)
}

func TestReviewShift_RejectRequiresReason(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, DecisionReject, "  ")
	assert.ErrorIs(t, err, ErrValidation)

	reviewed, err := f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, DecisionReject, "double-booked externally")
	require.NoError(t, err)
	assert.Equal(t, ShiftRejected, reviewed.Status)
	require.NotNil(t, reviewed.RejectionReason)
	assert.Equal(t, "double-booked externally", *reviewed.RejectionReason)
}

func TestReviewShift_BusyRequiresReason(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, DecisionBusy, "")
	assert.ErrorIs(t, err, ErrValidation)

	reviewed, err := f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, DecisionBusy, "on call")
	require.NoError(t, err)
	assert.Equal(t, ShiftBusy, reviewed.Status)
	require.NotNil(t, reviewed.BusyReason)
	assert.Equal(t, "on call", *reviewed.BusyReason)
}

func TestReviewShift_NotOwner(t *testing.T) {
	f := newFixture(t)

	other := Clinician{ID: uuid.New(), Name: "Dr. Other"}
	f.repo.AddClinician(other)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.ReviewShift(context.Background(), shift.ID, other.ID, DecisionAccept, "")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestReviewShift_TerminalAndIdempotent(t *testing.T) {
	f := newFixture(t)

	shift := f.acceptedShift(t)

	// A second review in any direction fails and leaves status untouched.
	_, err := f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, DecisionReject, "changed my mind")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	current, err := f.repo.GetShiftByID(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.Equal(t, ShiftAccepted, current.Status)
	assert.Nil(t, current.RejectionReason)
}

func TestReviewShift_UnknownDecision(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, ReviewDecision("approve"), "")
	assert.ErrorIs(t, err, ErrValidation)
}
