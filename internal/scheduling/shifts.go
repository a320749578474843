package scheduling

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SubmitShift registers a new work block for a clinician. The shift enters
// the proposed state and stays inert until the clinician reviews it.
func (s *Service) SubmitShift(ctx context.Context, clinicianID uuid.UUID, start, end time.Time) (*Shift, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: end time must be after start time", ErrValidation)
	}
	if start.YearDay() != end.YearDay() || start.Year() != end.Year() {
		return nil, fmt.Errorf("%w: shift must start and end on the same day", ErrValidation)
	}

	if _, err := s.repo.GetClinicianByID(ctx, clinicianID); err != nil {
		if errors.Is(err, ErrClinicianNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load clinician: %w", err)
	}

	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	shift := &Shift{
		ID:          uuid.New(),
		ClinicianID: clinicianID,
		Date:        day,
		StartTime:   start,
		EndTime:     end,
		Status:      ShiftProposed,
	}

	created, err := s.repo.CreateShift(ctx, shift)
	if err != nil {
		return nil, fmt.Errorf("create shift: %w", err)
	}
	return created, nil
}

// ReviewShift applies the clinician's verdict to a proposed shift. Reviews
// are terminal: a reviewed shift never returns to proposed, and a correction
// requires a fresh submission.
func (s *Service) ReviewShift(ctx context.Context, shiftID, clinicianID uuid.UUID, decision ReviewDecision, reason string) (*Shift, error) {
	shift, err := s.repo.GetShiftByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load shift: %w", err)
	}

	if shift.ClinicianID != clinicianID {
		return nil, ErrNotOwner
	}
	if shift.Status != ShiftProposed {
		return nil, ErrInvalidTransition
	}

	reason = strings.TrimSpace(reason)

	var to ShiftStatus
	var rejectionReason, busyReason *string
	switch decision {
	case DecisionAccept:
		to = ShiftAccepted
	case DecisionReject:
		if reason == "" {
			return nil, fmt.Errorf("%w: rejecting a shift requires a reason", ErrValidation)
		}
		to = ShiftRejected
		rejectionReason = &reason
	case DecisionBusy:
		if reason == "" {
			return nil, fmt.Errorf("%w: marking a shift busy requires a reason", ErrValidation)
		}
		to = ShiftBusy
		busyReason = &reason
	default:
		return nil, fmt.Errorf("%w: unknown review decision %q", ErrValidation, decision)
	}

	updated, err := s.repo.ApplyShiftReview(ctx, shiftID, to, rejectionReason, busyReason)
	if err != nil {
		// The conditional update misses when another review landed between
		// our read and our write.
		if errors.Is(err, ErrShiftNotFound) {
			return nil, ErrInvalidTransition
		}
		return nil, fmt.Errorf("apply shift review: %w", err)
	}

	s.logEvent(ctx, nil, EventShiftReviewed, map[string]any{
		"shift_id": shiftID.String(),
		"decision": string(decision),
		"status":   string(updated.Status),
	})

	return updated, nil
}
