package main

import (
	"context"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/hackgods/clinic-shift-booking/internal/db"
	"github.com/hackgods/clinic-shift-booking/internal/logging"
)

func main() {
	logging.Init("seed", os.Getenv("APP_ENV"))
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	clinicianIDs, err := seedClinicians(context.Background(), pool, 50)
	if err != nil {
		log.Fatal().Err(err).Msg("seed clinicians")
	}
	if err := seedPatients(context.Background(), pool, 2000); err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	if err := seedShifts(context.Background(), pool, clinicianIDs); err != nil {
		log.Fatal().Err(err).Msg("seed shifts")
	}

	log.Info().Msg("seed complete")
}

func seedClinicians(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Info().Int("count", count).Msg("seeding clinicians")

	specialties := []string{
		"Dermatology",
		"Cardiology",
		"General Practice",
		"Orthopedics",
		"Endocrinology",
		"Neurology",
		"Pediatrics",
		"Psychiatry",
		"Ophthalmology",
		"ENT",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := gofakeit.Name()
		spec := specialties[gofakeit.Number(0, len(specialties)-1)]

		_, err := tx.Exec(ctx, `
			INSERT INTO clinicians (id, name, specialty, created_at, updated_at)
			VALUES ($1, $2, $3, now(), now())
		`, id, name, spec)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Info().Msg("clinicians seeded")
	return ids, nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Info().Int("count", count).Msg("seeding patients")

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			id := uuid.New()
			name := gofakeit.Name()
			email := gofakeit.Email()

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (id, name, email, created_at, updated_at)
				VALUES ($1, $2, $3, now(), now())
			`, id, name, email)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Info().Int("seeded", end).Int("total", count).Msg("patients progress")
	}

	log.Info().Msg("patients seeded")
	return nil
}

// seedShifts gives every clinician a handful of accepted shifts over the
// next week, morning and afternoon blocks, so availability queries have
// something to chew on right after a fresh seed.
func seedShifts(ctx context.Context, pool *pgxpool.Pool, clinicianIDs []uuid.UUID) error {
	log.Info().Int("clinicians", len(clinicianIDs)).Msg("seeding shifts")

	blocks := [][2]int{
		{8, 12},  // morning
		{14, 18}, // afternoon
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	today := time.Now()
	for _, clinicianID := range clinicianIDs {
		for dayOffset := 1; dayOffset <= 7; dayOffset++ {
			day := today.AddDate(0, 0, dayOffset)
			date := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())

			for _, b := range blocks {
				if gofakeit.Number(0, 2) == 0 {
					continue
				}

				start := date.Add(time.Duration(b[0]) * time.Hour)
				end := date.Add(time.Duration(b[1]) * time.Hour)

				_, err := tx.Exec(ctx, `
					INSERT INTO shifts (id, clinician_id, shift_date, start_time, end_time, status, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, 'accepted', now(), now())
				`, uuid.New(), clinicianID, date, start, end)
				if err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Info().Msg("shifts seeded")
	return nil
}
