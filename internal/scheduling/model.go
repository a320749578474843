package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type ShiftStatus string

const (
	ShiftProposed ShiftStatus = "proposed"
	ShiftAccepted ShiftStatus = "accepted"
	ShiftRejected ShiftStatus = "rejected"
	ShiftBusy     ShiftStatus = "busy"
)

// ReviewDecision is the clinician's verdict on a proposed shift.
type ReviewDecision string

const (
	DecisionAccept ReviewDecision = "accept"
	DecisionReject ReviewDecision = "reject"
	DecisionBusy   ReviewDecision = "busy"
)

type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusExamining   AppointmentStatus = "examining"
	StatusPrescribing AppointmentStatus = "prescribing"
	StatusDone        AppointmentStatus = "done"
	StatusCancelled   AppointmentStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are allowed.
func (s AppointmentStatus) IsTerminal() bool {
	return s == StatusDone || s == StatusCancelled
}

type Patient struct {
	ID        uuid.UUID
	Name      string
	Email     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Clinician struct {
	ID        uuid.UUID
	Name      string
	Specialty *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Shift is one clinician work block on a single calendar day. Review is the
// only mutation path for Status; once reviewed, the shift is terminal and a
// corrected shift must be resubmitted as a new proposal.
type Shift struct {
	ID              uuid.UUID
	ClinicianID     uuid.UUID
	Date            time.Time // midnight of the shift's calendar day
	StartTime       time.Time
	EndTime         time.Time
	Status          ShiftStatus
	RejectionReason *string
	BusyReason      *string
	ReviewerNote    *string
	IsBooked        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Slot is a derived value, never persisted. It is recomputed from the owning
// shift on every availability query.
type Slot struct {
	ShiftID        uuid.UUID
	Date           time.Time
	StartTime      time.Time
	DisplayEndTime time.Time
}

type Appointment struct {
	ID            uuid.UUID
	PatientID     uuid.UUID
	ClinicianID   uuid.UUID
	ShiftID       uuid.UUID
	ChosenTime    time.Time
	Status        AppointmentStatus
	Symptoms      *string
	Note          *string
	HoldExpiresAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ShiftAppointments is one group in a clinician's day schedule.
type ShiftAppointments struct {
	Shift        Shift
	Appointments []Appointment
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
