package scheduling

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is a mutex-serialized, map-backed Repository. It backs
// the unit tests and the local mode of the simulator; the conditional-update
// semantics mirror the Postgres implementation exactly.
type MemoryRepository struct {
	mu           sync.Mutex
	patients     map[uuid.UUID]Patient
	clinicians   map[uuid.UUID]Clinician
	shifts       map[uuid.UUID]Shift
	appointments map[uuid.UUID]Appointment
	events       []EventLog
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		patients:     make(map[uuid.UUID]Patient),
		clinicians:   make(map[uuid.UUID]Clinician),
		shifts:       make(map[uuid.UUID]Shift),
		appointments: make(map[uuid.UUID]Appointment),
	}
}

// Fixture helpers

func (r *MemoryRepository) AddPatient(p Patient) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[p.ID] = p
}

func (r *MemoryRepository) AddClinician(c Clinician) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clinicians[c.ID] = c
}

// Events returns a snapshot of the recorded event log.
func (r *MemoryRepository) Events() []EventLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventLog, len(r.events))
	copy(out, r.events)
	return out
}

// Repository implementation

func (r *MemoryRepository) GetPatientByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return &p, nil
}

func (r *MemoryRepository) GetClinicianByID(_ context.Context, id uuid.UUID) (*Clinician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.clinicians[id]
	if !ok {
		return nil, ErrClinicianNotFound
	}
	return &c, nil
}

func (r *MemoryRepository) CreateShift(_ context.Context, s *Shift) (*Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *s
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.shifts[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetShiftByID(_ context.Context, id uuid.UUID) (*Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shifts[id]
	if !ok {
		return nil, ErrShiftNotFound
	}
	return &s, nil
}

func (r *MemoryRepository) ListOpenShifts(_ context.Context, clinicianID uuid.UUID, date time.Time) ([]Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Shift
	for _, s := range r.shifts {
		if s.ClinicianID != clinicianID || !sameDay(s.Date, date) {
			continue
		}
		if s.Status != ShiftAccepted || s.IsBooked {
			continue
		}
		result = append(result, s)
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].StartTime.Equal(result[j].StartTime) {
			return result[i].StartTime.Before(result[j].StartTime)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	return result, nil
}

func (r *MemoryRepository) ApplyShiftReview(_ context.Context, id uuid.UUID, to ShiftStatus, rejectionReason, busyReason *string) (*Shift, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shifts[id]
	if !ok || s.Status != ShiftProposed {
		return nil, ErrShiftNotFound
	}

	s.Status = to
	s.RejectionReason = rejectionReason
	s.BusyReason = busyReason
	s.UpdatedAt = time.Now()
	r.shifts[id] = s

	out := s
	return &out, nil
}

func (r *MemoryRepository) MarkShiftBooked(_ context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shifts[id]
	if !ok || s.Status != ShiftAccepted || s.IsBooked {
		return false, nil
	}

	s.IsBooked = true
	s.UpdatedAt = time.Now()
	r.shifts[id] = s
	return true, nil
}

func (r *MemoryRepository) ClearShiftBooked(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.shifts[id]
	if !ok {
		return nil
	}

	s.IsBooked = false
	s.UpdatedAt = time.Now()
	r.shifts[id] = s
	return nil
}

func (r *MemoryRepository) CreatePendingAppointment(_ context.Context, a *Appointment) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	stored := *a
	stored.Status = StatusPending
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.appointments[stored.ID] = stored

	out := stored
	return &out, nil
}

func (r *MemoryRepository) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return nil, ErrAppointmentNotFound
	}
	return &a, nil
}

func (r *MemoryRepository) UpdateAppointmentStatus(_ context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}

	a.Status = to
	a.UpdatedAt = time.Now()
	r.appointments[id] = a

	out := a
	return &out, nil
}

// CancelAppointment flips the status and releases the shift under one
// mutex hold, mirroring the single transaction PgRepository uses.
func (r *MemoryRepository) CancelAppointment(_ context.Context, id uuid.UUID, from AppointmentStatus) (*Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.appointments[id]
	if !ok || a.Status != from {
		return nil, ErrAppointmentNotFound
	}

	a.Status = StatusCancelled
	a.UpdatedAt = time.Now()
	r.appointments[id] = a

	if s, ok := r.shifts[a.ShiftID]; ok {
		s.IsBooked = false
		s.UpdatedAt = time.Now()
		r.shifts[a.ShiftID] = s
	}

	out := a
	return &out, nil
}

func (r *MemoryRepository) FindExpiredPending(_ context.Context, now time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Appointment
	for _, a := range r.appointments {
		if a.Status != StatusPending || a.HoldExpiresAt == nil {
			continue
		}
		if a.HoldExpiresAt.Before(now) {
			result = append(result, a)
		}
	}
	return result, nil
}

func (r *MemoryRepository) ListPatientHistory(_ context.Context, patientID uuid.UUID) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Appointment
	for _, a := range r.appointments {
		if a.PatientID != patientID {
			continue
		}
		if a.Status != StatusDone && a.Status != StatusCancelled {
			continue
		}
		result = append(result, a)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].UpdatedAt.After(result[j].UpdatedAt)
	})

	return result, nil
}

func (r *MemoryRepository) ListClinicianDayAppointments(_ context.Context, clinicianID uuid.UUID, date time.Time) ([]Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []Appointment
	for _, a := range r.appointments {
		if a.ClinicianID != clinicianID || a.Status == StatusCancelled {
			continue
		}
		shift, ok := r.shifts[a.ShiftID]
		if !ok || !sameDay(shift.Date, date) {
			continue
		}
		result = append(result, a)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].ShiftID != result[j].ShiftID {
			return result[i].ShiftID.String() < result[j].ShiftID.String()
		}
		return result[i].ChosenTime.Before(result[j].ChosenTime)
	})

	return result, nil
}

func (r *MemoryRepository) InsertEvent(_ context.Context, ev EventLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev.ID = int64(len(r.events) + 1)
	r.events = append(r.events, ev)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
