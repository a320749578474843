package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/hackgods/clinic-shift-booking/internal/scheduling"
)

type RouterConfig struct {
	Service *scheduling.Service
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Shift submission and review
	r.Post("/shifts", submitShiftHandler(cfg.Service))
	r.Post("/shifts/{id}/review", reviewShiftHandler(cfg.Service))

	// Availability
	r.Get("/availability", listAvailabilityHandler(cfg.Service))

	// Appointment lifecycle
	r.Post("/appointments", reserveAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/advance", advanceAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Service))

	// Read-only projections
	r.Get("/patients/{id}/history", patientHistoryHandler(cfg.Service))
	r.Get("/clinicians/{id}/schedule", clinicianScheduleHandler(cfg.Service))

	return r
}
