package scheduling

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// ListAvailableSlots computes the bookable slots for a clinician and day.
// An empty result is a normal outcome, not an error: it simply means the
// clinician has no accepted, unbooked shifts left for that date.
func (s *Service) ListAvailableSlots(ctx context.Context, clinicianID uuid.UUID, date time.Time) ([]Slot, error) {
	shifts, err := s.repo.ListOpenShifts(ctx, clinicianID, date)
	if err != nil {
		return nil, fmt.Errorf("list open shifts: %w", err)
	}

	now := s.now()

	var slots []Slot
	for i := range shifts {
		slots = append(slots, DeriveSlots(&shifts[i], s.cfg.SlotLength, now)...)
	}

	// Ties on start time are broken by shift id so repeated queries always
	// come back in the same order.
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].StartTime.Equal(slots[j].StartTime) {
			return slots[i].StartTime.Before(slots[j].StartTime)
		}
		return slots[i].ShiftID.String() < slots[j].ShiftID.String()
	})

	return slots, nil
}
