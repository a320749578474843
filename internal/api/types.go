package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/clinic-shift-booking/internal/scheduling"
)

type SubmitShiftRequest struct {
	ClinicianID string `json:"clinician_id"`
	Date        string `json:"date"`       // 2006-01-02
	StartTime   string `json:"start_time"` // HH:MM
	EndTime     string `json:"end_time"`   // HH:MM
}

type ReviewShiftRequest struct {
	ClinicianID string `json:"clinician_id"`
	Decision    string `json:"decision"` // accept | reject | busy
	Reason      string `json:"reason,omitempty"`
}

type ShiftResponse struct {
	ID              uuid.UUID `json:"id"`
	ClinicianID     uuid.UUID `json:"clinician_id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	Status          string    `json:"status"`
	RejectionReason *string   `json:"rejection_reason,omitempty"`
	BusyReason      *string   `json:"busy_reason,omitempty"`
	ReviewerNote    *string   `json:"reviewer_note,omitempty"`
	IsBooked        bool      `json:"is_booked"`
}

type SlotResponse struct {
	ShiftID   uuid.UUID `json:"shift_id"`
	Date      string    `json:"date"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
}

type ReserveAppointmentRequest struct {
	PatientID   string `json:"patient_id"`
	ClinicianID string `json:"clinician_id"`
	ShiftID     string `json:"shift_id"`
	ChosenTime  string `json:"chosen_time"` // HH:MM
	Symptoms    string `json:"symptoms,omitempty"`
	Note        string `json:"note,omitempty"`
}

type AdvanceAppointmentRequest struct {
	ClinicianID  string `json:"clinician_id"`
	TargetStatus string `json:"target_status"`
}

type CancelAppointmentRequest struct {
	ActingPartyID string `json:"acting_party_id"`
}

type AppointmentResponse struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	ClinicianID   uuid.UUID  `json:"clinician_id"`
	ShiftID       uuid.UUID  `json:"shift_id"`
	ChosenTime    time.Time  `json:"chosen_time"`
	Status        string     `json:"status"`
	Symptoms      *string    `json:"symptoms,omitempty"`
	Note          *string    `json:"note,omitempty"`
	HoldExpiresAt *time.Time `json:"hold_expires_at,omitempty"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type DayScheduleGroup struct {
	Shift        ShiftResponse         `json:"shift"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func toShiftResponse(s *scheduling.Shift) ShiftResponse {
	return ShiftResponse{
		ID:              s.ID,
		ClinicianID:     s.ClinicianID,
		Date:            s.Date.Format(dateLayout),
		StartTime:       s.StartTime.Format(timeLayout),
		EndTime:         s.EndTime.Format(timeLayout),
		Status:          string(s.Status),
		RejectionReason: s.RejectionReason,
		BusyReason:      s.BusyReason,
		ReviewerNote:    s.ReviewerNote,
		IsBooked:        s.IsBooked,
	}
}

func toSlotResponse(sl scheduling.Slot) SlotResponse {
	return SlotResponse{
		ShiftID:   sl.ShiftID,
		Date:      sl.Date.Format(dateLayout),
		StartTime: sl.StartTime.Format(timeLayout),
		EndTime:   sl.DisplayEndTime.Format(timeLayout),
	}
}

func toAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            a.ID,
		PatientID:     a.PatientID,
		ClinicianID:   a.ClinicianID,
		ShiftID:       a.ShiftID,
		ChosenTime:    a.ChosenTime,
		Status:        string(a.Status),
		Symptoms:      a.Symptoms,
		Note:          a.Note,
		HoldExpiresAt: a.HoldExpiresAt,
		UpdatedAt:     a.UpdatedAt,
	}
}
