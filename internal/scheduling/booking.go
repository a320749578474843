package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	redisclient "github.com/hackgods/clinic-shift-booking/internal/redis"
)

// ReserveParams carries one reservation request.
type ReserveParams struct {
	PatientID   uuid.UUID
	ClinicianID uuid.UUID
	ShiftID     uuid.UUID
	// ChosenTime is wall-clock "HH:MM" on the shift's day and must land
	// exactly on a slot boundary.
	ChosenTime string
	Symptoms   string
	Note       string
}

// Reserve claims a shift for a patient and creates a pending appointment
// under a time-bound hold. The shift lock keeps concurrent requests for the
// same shift from interleaving; the conditional is_booked update underneath
// guarantees at most one winner even if the lock is lost mid-flight.
func (s *Service) Reserve(ctx context.Context, p ReserveParams) (*Appointment, error) {
	if _, err := s.repo.GetPatientByID(ctx, p.PatientID); err != nil {
		if errors.Is(err, ErrPatientNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load patient: %w", err)
	}

	shift, err := s.repo.GetShiftByID(ctx, p.ShiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load shift: %w", err)
	}

	if shift.ClinicianID != p.ClinicianID {
		return nil, fmt.Errorf("%w: shift does not belong to the requested clinician", ErrValidation)
	}
	if shift.Status != ShiftAccepted || shift.IsBooked {
		return nil, ErrSlotUnavailable
	}

	chosen, err := s.resolveChosenTime(shift, p.ChosenTime)
	if err != nil {
		return nil, err
	}

	var created *Appointment

	err = s.locker.WithShiftLock(ctx, shift.ID, func(lockCtx context.Context) error {
		claimed, err := s.repo.MarkShiftBooked(lockCtx, shift.ID)
		if err != nil {
			return fmt.Errorf("mark shift booked: %w", err)
		}
		if !claimed {
			return ErrSlotUnavailable
		}

		holdExpiresAt := s.now().Add(s.cfg.HoldWindow)
		appt := &Appointment{
			ID:            uuid.New(),
			PatientID:     p.PatientID,
			ClinicianID:   shift.ClinicianID,
			ShiftID:       shift.ID,
			ChosenTime:    chosen,
			Status:        StatusPending,
			HoldExpiresAt: &holdExpiresAt,
		}
		if p.Symptoms != "" {
			appt.Symptoms = &p.Symptoms
		}
		if p.Note != "" {
			appt.Note = &p.Note
		}

		created, err = s.repo.CreatePendingAppointment(lockCtx, appt)
		if err != nil {
			// Give the claim back, otherwise the shift stays dark.
			if relErr := s.repo.ClearShiftBooked(lockCtx, shift.ID); relErr != nil {
				log.Error().Err(relErr).Str("shift_id", shift.ID.String()).
					Msg("failed to release shift after create error")
			}
			return fmt.Errorf("create pending appointment: %w", err)
		}

		s.logEvent(lockCtx, &created.ID, EventAppointmentReserved, map[string]any{
			"shift_id":        shift.ID.String(),
			"patient_id":      p.PatientID.String(),
			"chosen_time":     chosen,
			"hold_expires_at": holdExpiresAt,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	return created, nil
}

// resolveChosenTime parses the wall-clock choice and checks it against the
// shift's current slot grid. Grid membership also rules out past times on
// the current day, since derivation already excludes them.
func (s *Service) resolveChosenTime(shift *Shift, raw string) (time.Time, error) {
	hhmm, err := time.Parse("15:04", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: chosen time must be HH:MM", ErrValidation)
	}

	candidate := time.Date(
		shift.Date.Year(), shift.Date.Month(), shift.Date.Day(),
		hhmm.Hour(), hhmm.Minute(), 0, 0, shift.StartTime.Location(),
	)

	for _, start := range SlotStarts(shift, s.cfg.SlotLength, s.now()) {
		if start.Equal(candidate) {
			return candidate, nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: chosen time %s is not a bookable slot", ErrValidation, raw)
}
