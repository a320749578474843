package scheduling

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SweepExpiredHolds cancels pending appointments whose hold window has
// passed and returns their shifts to the pool. It is meant to run on a
// ticker in the sweep worker. Per-appointment failures are logged and left
// for the next tick, never surfaced to a caller.
func (s *Service) SweepExpiredHolds(ctx context.Context) error {
	expired, err := s.repo.FindExpiredPending(ctx, s.now())
	if err != nil {
		return fmt.Errorf("find expired holds: %w", err)
	}

	for i := range expired {
		appt := expired[i]
		if err := s.expirePending(ctx, &appt, "sweep"); err != nil {
			log.Warn().Err(err).Str("appointment_id", appt.ID.String()).
				Msg("failed to expire hold, will retry next tick")
		}
	}

	return nil
}
