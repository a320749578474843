package scheduling

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-shift-booking/internal/config"
	redisclient "github.com/hackgods/clinic-shift-booking/internal/redis"
)

const (
	EventShiftReviewed        = "SHIFT_REVIEWED"
	EventAppointmentReserved  = "APPOINTMENT_RESERVED"
	EventAppointmentAdvanced  = "APPOINTMENT_ADVANCED"
	EventAppointmentCancelled = "APPOINTMENT_CANCELLED"
	EventHoldExpired          = "HOLD_EXPIRED"
)

// Service coordinates shifts, derived slots and the appointment lifecycle.
type Service struct {
	repo   Repository
	locker redisclient.Locker
	cfg    config.Config
	now    func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, cfg config.Config) *Service {
	return &Service{
		repo:   repo,
		locker: locker,
		cfg:    cfg,
		now:    time.Now,
	}
}

// WithClock replaces the service clock. Tests use this to pin "now".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) logEvent(ctx context.Context, appointmentID *uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: appointmentID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Warn().Err(err).Str("event", eventType).Msg("failed to insert event log")
	}
}
