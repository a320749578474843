package scheduling

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/clinic-shift-booking/internal/config"
)

// Shared fixtures. The clock is pinned to the day before the test shift so
// no slot is ever excluded as "in the past" unless a test moves it.

var baseNow = time.Date(2025, 1, 9, 12, 0, 0, 0, time.Local)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fixture struct {
	svc       *Service
	repo      *MemoryRepository
	clock     *fakeClock
	clinician Clinician
	patient   Patient
}

func newFixture(t *testing.T) *fixture {
	return newFixtureWrapped(t, func(r Repository) Repository { return r })
}

// newFixtureWrapped lets a test interpose a failure-injecting Repository
// between the service and the in-memory store.
func newFixtureWrapped(t *testing.T, wrap func(Repository) Repository) *fixture {
	t.Helper()

	repo := NewMemoryRepository()
	clock := &fakeClock{t: baseNow}

	cfg := config.Config{
		SlotLength: 30 * time.Minute,
		HoldWindow: 10 * time.Minute,
	}

	svc := NewService(wrap(repo), NewLocalLocker(), cfg).WithClock(clock.Now)

	clinician := Clinician{ID: uuid.New(), Name: "Dr. Adams"}
	patient := Patient{ID: uuid.New(), Name: "Pat Example"}
	repo.AddClinician(clinician)
	repo.AddPatient(patient)

	return &fixture{svc: svc, repo: repo, clock: clock, clinician: clinician, patient: patient}
}

// acceptedShift submits and accepts an 08:00-09:00 shift on 2025-01-10.
func (f *fixture) acceptedShift(t *testing.T) *Shift {
	t.Helper()
	return f.acceptedShiftAt(t, 8, 0, 9, 0)
}

func (f *fixture) acceptedShiftAt(t *testing.T, startHour, startMin, endHour, endMin int) *Shift {
	t.Helper()

	start := time.Date(2025, 1, 10, startHour, startMin, 0, 0, time.Local)
	end := time.Date(2025, 1, 10, endHour, endMin, 0, 0, time.Local)

	shift, err := f.svc.SubmitShift(context.Background(), f.clinician.ID, start, end)
	require.NoError(t, err)

	accepted, err := f.svc.ReviewShift(context.Background(), shift.ID, f.clinician.ID, DecisionAccept, "")
	require.NoError(t, err)
	return accepted
}

func (f *fixture) reserve(t *testing.T, shiftID uuid.UUID, hhmm string) *Appointment {
	t.Helper()

	appt, err := f.svc.Reserve(context.Background(), ReserveParams{
		PatientID:   f.patient.ID,
		ClinicianID: f.clinician.ID,
		ShiftID:     shiftID,
		ChosenTime:  hhmm,
	})
	require.NoError(t, err)
	return appt
}

var shiftDate = time.Date(2025, 1, 10, 0, 0, 0, 0, time.Local)
