package scheduling

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrClinicianNotFound   = errors.New("clinician not found")
	ErrShiftNotFound       = errors.New("shift not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
//
// Conditional updates are the concurrency primitive: ApplyShiftReview,
// MarkShiftBooked and UpdateAppointmentStatus all match on the current state
// in the same statement that changes it, and report a miss instead of
// overwriting a concurrent writer.
type Repository interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	GetClinicianByID(ctx context.Context, id uuid.UUID) (*Clinician, error)

	CreateShift(ctx context.Context, s *Shift) (*Shift, error)
	GetShiftByID(ctx context.Context, id uuid.UUID) (*Shift, error)

	// ListOpenShifts returns the clinician's accepted, unbooked shifts for
	// one calendar day.
	ListOpenShifts(ctx context.Context, clinicianID uuid.UUID, date time.Time) ([]Shift, error)

	// ApplyShiftReview moves a shift out of proposed. It fails with
	// ErrShiftNotFound when the shift is missing or no longer proposed.
	ApplyShiftReview(ctx context.Context, id uuid.UUID, to ShiftStatus, rejectionReason, busyReason *string) (*Shift, error)

	// MarkShiftBooked is the atomic claim on a shift: is_booked false to
	// true, only while the shift is accepted. Returns false when another
	// booking won the race.
	MarkShiftBooked(ctx context.Context, id uuid.UUID) (bool, error)
	ClearShiftBooked(ctx context.Context, id uuid.UUID) error

	CreatePendingAppointment(ctx context.Context, a *Appointment) (*Appointment, error)
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)

	// CancelAppointment moves the appointment out of `from` into cancelled
	// and releases its shift as one atomic write. Either both land or
	// neither does, so a transient failure leaves the appointment where a
	// retry (or the next sweep tick) still finds it.
	CancelAppointment(ctx context.Context, id uuid.UUID, from AppointmentStatus) (*Appointment, error)

	// Hold-expiry sweep
	FindExpiredPending(ctx context.Context, now time.Time) ([]Appointment, error)

	// Read-only projections
	ListPatientHistory(ctx context.Context, patientID uuid.UUID) ([]Appointment, error)
	ListClinicianDayAppointments(ctx context.Context, clinicianID uuid.UUID, date time.Time) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
