package scheduling

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// forwardTransitions is the clinician-driven path through an appointment:
// pending -> confirmed -> examining -> prescribing -> done. Cancellation is
// handled separately and terminal states have no entry.
var forwardTransitions = map[AppointmentStatus]AppointmentStatus{
	StatusPending:     StatusConfirmed,
	StatusConfirmed:   StatusExamining,
	StatusExamining:   StatusPrescribing,
	StatusPrescribing: StatusDone,
}

// Advance moves an appointment one step forward on behalf of its clinician.
// The write is conditioned on the status we read, so two racing transitions
// on the same appointment cannot both land.
func (s *Service) Advance(ctx context.Context, appointmentID, clinicianID uuid.UUID, target AppointmentStatus) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.ClinicianID != clinicianID {
		return nil, ErrNotOwner
	}

	next, ok := forwardTransitions[appt.Status]
	if !ok || next != target {
		return nil, ErrInvalidTransition
	}

	// Confirming past the hold window is rejected and the stale hold is
	// cancelled on the spot rather than waiting for the sweep.
	if target == StatusConfirmed && appt.HoldExpiresAt != nil && appt.HoldExpiresAt.Before(s.now()) {
		if cancelErr := s.expirePending(ctx, appt, "confirm_after_expiry"); cancelErr != nil {
			log.Warn().Err(cancelErr).Str("appointment_id", appt.ID.String()).
				Msg("failed to cancel expired hold during confirm")
		}
		return nil, ErrHoldExpired
	}

	updated, err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, appt.Status, target)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("advance appointment: %w", err)
	}

	s.logEvent(ctx, &updated.ID, EventAppointmentAdvanced, map[string]any{
		"from": string(appt.Status),
		"to":   string(updated.Status),
	})

	return updated, nil
}

// Cancel moves an appointment to cancelled from any non-terminal state and
// releases the shift back to the pool. Either party on the appointment may
// cancel it.
func (s *Service) Cancel(ctx context.Context, appointmentID, actingPartyID uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if actingPartyID != appt.PatientID && actingPartyID != appt.ClinicianID {
		return nil, ErrNotOwner
	}
	if appt.Status.IsTerminal() {
		return nil, ErrInvalidTransition
	}

	// Status flip and shift release are one atomic write, so a failure
	// here leaves the appointment where it was and a retry still works.
	updated, err := s.repo.CancelAppointment(ctx, appt.ID, appt.Status)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logEvent(ctx, &updated.ID, EventAppointmentCancelled, map[string]any{
		"acting_party_id": actingPartyID.String(),
		"from":            string(appt.Status),
	})

	return updated, nil
}

// expirePending cancels a pending appointment whose hold has lapsed and
// frees its shift in the same write. The cancel only matches pending, so
// it can never claw back a confirmed appointment, and a storage failure
// leaves the hold pending for the next sweep tick to pick up.
func (s *Service) expirePending(ctx context.Context, appt *Appointment, reason string) error {
	if _, err := s.repo.CancelAppointment(ctx, appt.ID, StatusPending); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Already moved on; nothing to release.
			return nil
		}
		return fmt.Errorf("cancel expired hold: %w", err)
	}

	s.logEvent(ctx, &appt.ID, EventHoldExpired, map[string]any{
		"reason":   reason,
		"shift_id": appt.ShiftID.String(),
	})

	return nil
}
