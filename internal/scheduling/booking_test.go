package scheduling

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserve_CreatesPendingHold(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)

	appt, err := f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   f.patient.ID,
		ClinicianID: f.clinician.ID,
		ShiftID:     shift.ID,
		ChosenTime:  "08:00",
		Symptoms:    "persistent cough",
	})

	require.NoError(t, err)
	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, shift.ID, appt.ShiftID)
	assert.Equal(t, "08:00", appt.ChosenTime.Format("15:04"))
	require.NotNil(t, appt.HoldExpiresAt)
	assert.Equal(t, baseNow.Add(10*time.Minute), *appt.HoldExpiresAt)
	require.NotNil(t, appt.Symptoms)
	assert.Equal(t, "persistent cough", *appt.Symptoms)

	booked, err := f.repo.GetShiftByID(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.True(t, booked.IsBooked)
}

func TestReserve_OffGridTimeFailsValidation(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)

	for _, hhmm := range []string{"08:15", "07:30", "09:00", "nonsense"} {
		_, err := f.svc.Reserve(context.Background(), ReserveParams{
			PatientID:   f.patient.ID,
			ClinicianID: f.clinician.ID,
			ShiftID:     shift.ID,
			ChosenTime:  hhmm,
		})
		assert.ErrorIs(t, err, ErrValidation, "chosen time %s", hhmm)
	}

	// Nothing was claimed by the failed attempts.
	current, err := f.repo.GetShiftByID(context.Background(), shift.ID)
	require.NoError(t, err)
	assert.False(t, current.IsBooked)
}

func TestReserve_PastTimeFailsValidation(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)

	// Move the clock mid-shift on the shift's day: 08:00 is now history.
	f.clock.Set(time.Date(2025, 1, 10, 8, 10, 0, 0, time.Local))

	_, err := f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   f.patient.ID,
		ClinicianID: f.clinician.ID,
		ShiftID:     shift.ID,
		ChosenTime:  "08:00",
	})
	assert.ErrorIs(t, err, ErrValidation)

	// 08:30 is still ahead and books fine.
	appt, err := f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   f.patient.ID,
		ClinicianID: f.clinician.ID,
		ShiftID:     shift.ID,
		ChosenTime:  "08:30",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, appt.Status)
}

func TestReserve_UnacceptedShiftUnavailable(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2025, 1, 10, 8, 0, 0, 0, time.Local)
	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, start.Add(time.Hour))
	require.NoError(t, err)

	_, err = f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   f.patient.ID,
		ClinicianID: f.clinician.ID,
		ShiftID:     shift.ID,
		ChosenTime:  "08:00",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserve_BookedShiftUnavailable(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)

	f.reserve(t, shift.ID, "08:00")

	// Second patient goes for the other slot in the same shift; the
	// per-shift booking flag blocks the whole shift.
	second := Patient{ID: uuid.New(), Name: "Second Patient"}
	f.repo.AddPatient(second)

	_, err := f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   second.ID,
		ClinicianID: f.clinician.ID,
		ShiftID:     shift.ID,
		ChosenTime:  "08:30",
	})
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestReserve_ClinicianShiftMismatch(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)

	_, err := f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   f.patient.ID,
		ClinicianID: uuid.New(),
		ShiftID:     shift.ID,
		ChosenTime:  "08:00",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReserve_UnknownPatient(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)

	_, err := f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   uuid.New(),
		ClinicianID: f.clinician.ID,
		ShiftID:     shift.ID,
		ChosenTime:  "08:00",
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

// N concurrent attempts on the same shift and slot: exactly one wins, the
// rest lose with ErrSlotUnavailable.
func TestReserve_ConcurrentAttemptsExactlyOneWins(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)

	const n = 64

	patients := make([]Patient, n)
	for i := range patients {
		patients[i] = Patient{ID: uuid.New(), Name: "racer"}
		f.repo.AddPatient(patients[i])
	}

	var (
		wg          sync.WaitGroup
		successes   atomic.Int64
		unavailable atomic.Int64
		other       atomic.Int64
	)

	barrier := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(p Patient) {
			defer wg.Done()
			<-barrier

			_, err := f.svc.Reserve(context.Background(), ReserveParams{
				PatientID:   p.ID,
				ClinicianID: f.clinician.ID,
				ShiftID:     shift.ID,
				ChosenTime:  "08:00",
			})
			switch {
			case err == nil:
				successes.Add(1)
			case errors.Is(err, ErrSlotUnavailable):
				unavailable.Add(1)
			default:
				other.Add(1)
			}
		}(patients[i])
	}

	close(barrier)
	wg.Wait()

	assert.Equal(t, int64(1), successes.Load())
	assert.Equal(t, int64(n-1), unavailable.Load())
	assert.Equal(t, int64(0), other.Load())
}

func TestReserve_RecordsAuditEvent(t *testing.T) {
	f := newFixture(t)
	shift := f.acceptedShift(t)
	appt := f.reserve(t, shift.ID, "08:00")

	events := f.repo.Events()

	var found bool
	for _, ev := range events {
		if ev.EventType == EventAppointmentReserved && ev.AppointmentID != nil && *ev.AppointmentID == appt.ID {
			found = true
		}
	}
	assert.True(t, found, "reservation must leave an audit event")
}
