package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientHistory_OnlyFinishedAppointments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// One cancelled, one done, one still pending.
	s1 := f.acceptedShiftAt(t, 8, 0, 9, 0)
	a1 := f.reserve(t, s1.ID, "08:00")
	_, err := f.svc.Cancel(ctx, a1.ID, f.patient.ID)
	require.NoError(t, err)

	s2 := f.acceptedShiftAt(t, 10, 0, 11, 0)
	a2 := f.reserve(t, s2.ID, "10:00")
	for _, target := range []AppointmentStatus{StatusConfirmed, StatusExamining, StatusPrescribing, StatusDone} {
		_, err = f.svc.Advance(ctx, a2.ID, f.clinician.ID, target)
		require.NoError(t, err)
	}

	s3 := f.acceptedShiftAt(t, 14, 0, 15, 0)
	a3 := f.reserve(t, s3.ID, "14:00")

	history, err := f.svc.PatientHistory(ctx, f.patient.ID)

	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, h := range history {
		assert.NotEqual(t, a3.ID, h.ID, "pending appointment must not appear in history")
		assert.True(t, h.Status == StatusDone || h.Status == StatusCancelled)
	}
	// Most recently updated first.
	assert.False(t, history[0].UpdatedAt.Before(history[1].UpdatedAt))
}

func TestPatientHistory_UnknownPatientIsEmpty(t *testing.T) {
	f := newFixture(t)

	history, err := f.svc.PatientHistory(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestClinicianDaySchedule_GroupsByShift(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s1 := f.acceptedShiftAt(t, 8, 0, 9, 0)
	f.reserve(t, s1.ID, "08:30")

	s2 := f.acceptedShiftAt(t, 14, 0, 15, 0)
	f.reserve(t, s2.ID, "14:00")

	groups, err := f.svc.ClinicianDaySchedule(ctx, f.clinician.ID, shiftDate)

	require.NoError(t, err)
	require.Len(t, groups, 2)

	// Groups come back in shift start order.
	assert.Equal(t, s1.ID, groups[0].Shift.ID)
	assert.Equal(t, s2.ID, groups[1].Shift.ID)
	require.Len(t, groups[0].Appointments, 1)
	assert.Equal(t, "08:30", groups[0].Appointments[0].ChosenTime.Format("15:04"))
}

func TestClinicianDaySchedule_ExcludesCancelled(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	shift := f.acceptedShift(t)
	appt := f.reserve(t, shift.ID, "08:00")
	_, err := f.svc.Cancel(ctx, appt.ID, f.patient.ID)
	require.NoError(t, err)

	groups, err := f.svc.ClinicianDaySchedule(ctx, f.clinician.ID, shiftDate)

	require.NoError(t, err)
	assert.Empty(t, groups)
}

func TestClinicianDaySchedule_OtherDayInvisible(t *testing.T) {
	f := newFixture(t)

	shift := f.acceptedShift(t)
	f.reserve(t, shift.ID, "08:00")

	otherDay := time.Date(2025, 1, 11, 0, 0, 0, 0, time.Local)
	groups, err := f.svc.ClinicianDaySchedule(context.Background(), f.clinician.ID, otherDay)

	require.NoError(t, err)
	assert.Empty(t, groups)
}
