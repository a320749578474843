package scheduling

import "time"

// SlotStarts expands an accepted shift into the ordered slot start times from
// StartTime (inclusive) to EndTime (exclusive), stepping by slotLength. Slot
// starts at or before now are excluded, so a shift on the current day only
// offers what is still reachable. Any shift not in accepted status expands to
// nothing.
//
// This is a pure function: no caching, no side effects. Correctness depends
// only on the shift's current fields.
func SlotStarts(s *Shift, slotLength time.Duration, now time.Time) []time.Time {
	if s == nil || s.Status != ShiftAccepted {
		return nil
	}

	var starts []time.Time
	for t := s.StartTime; t.Before(s.EndTime); t = t.Add(slotLength) {
		if !t.After(now) {
			continue
		}
		starts = append(starts, t)
	}
	return starts
}

// DeriveSlots wraps each start time from SlotStarts in a Slot value carrying
// the owning shift and a display end time.
func DeriveSlots(s *Shift, slotLength time.Duration, now time.Time) []Slot {
	starts := SlotStarts(s, slotLength, now)
	if len(starts) == 0 {
		return nil
	}

	slots := make([]Slot, 0, len(starts))
	for _, start := range starts {
		slots = append(slots, Slot{
			ShiftID:        s.ID,
			Date:           s.Date,
			StartTime:      start,
			DisplayEndTime: start.Add(slotLength),
		})
	}
	return slots
}
