package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

// Helpers

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}

	return &p, nil
}

func scanClinician(row pgx.Row) (*Clinician, error) {
	var c Clinician

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Specialty,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClinicianNotFound
		}
		return nil, err
	}

	return &c, nil
}

func scanShift(row pgx.Row) (*Shift, error) {
	var s Shift

	err := row.Scan(
		&s.ID,
		&s.ClinicianID,
		&s.Date,
		&s.StartTime,
		&s.EndTime,
		&s.Status,
		&s.RejectionReason,
		&s.BusyReason,
		&s.ReviewerNote,
		&s.IsBooked,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	return &s, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.ClinicianID,
		&a.ShiftID,
		&a.ChosenTime,
		&a.Status,
		&a.Symptoms,
		&a.Note,
		&a.HoldExpiresAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}

	return &a, nil
}

const shiftColumns = `id, clinician_id, shift_date, start_time, end_time, status,
	rejection_reason, busy_reason, reviewer_note, is_booked, created_at, updated_at`

const appointmentColumns = `id, patient_id, clinician_id, shift_id, chosen_time, status,
	symptoms, note, hold_expires_at, created_at, updated_at`

// Interface methods

func (r *PgRepository) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, email, created_at, updated_at
		FROM patients
		WHERE id = $1
	`, id)
	return scanPatient(row)
}

func (r *PgRepository) GetClinicianByID(ctx context.Context, id uuid.UUID) (*Clinician, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, name, specialty, created_at, updated_at
		FROM clinicians
		WHERE id = $1
	`, id)
	return scanClinician(row)
}

func (r *PgRepository) CreateShift(ctx context.Context, s *Shift) (*Shift, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO shifts (id, clinician_id, shift_date, start_time, end_time, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now(), now())
		RETURNING `+shiftColumns+`
	`, s.ID, s.ClinicianID, s.Date, s.StartTime, s.EndTime, s.Status)

	return scanShift(row)
}

func (r *PgRepository) GetShiftByID(ctx context.Context, id uuid.UUID) (*Shift, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE id = $1
	`, id)
	return scanShift(row)
}

func (r *PgRepository) ListOpenShifts(ctx context.Context, clinicianID uuid.UUID, date time.Time) ([]Shift, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+shiftColumns+`
		FROM shifts
		WHERE clinician_id = $1
		  AND shift_date = $2
		  AND status = 'accepted'
		  AND is_booked = false
		ORDER BY start_time, id
	`, clinicianID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectShifts(rows)
}

func (r *PgRepository) ApplyShiftReview(ctx context.Context, id uuid.UUID, to ShiftStatus, rejectionReason, busyReason *string) (*Shift, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE shifts
		SET status = $2,
		    rejection_reason = $3,
		    busy_reason = $4,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'proposed'
		RETURNING `+shiftColumns+`
	`, id, to, rejectionReason, busyReason)

	return scanShift(row)
}

func (r *PgRepository) MarkShiftBooked(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE shifts
		SET is_booked = true,
		    updated_at = now()
		WHERE id = $1
		  AND status = 'accepted'
		  AND is_booked = false
	`, id)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}

func (r *PgRepository) ClearShiftBooked(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE shifts
		SET is_booked = false,
		    updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("clear shift booked: %w", err)
	}
	return nil
}

func (r *PgRepository) CreatePendingAppointment(ctx context.Context, a *Appointment) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, clinician_id, shift_id, chosen_time, status,
			symptoms, note, hold_expires_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 'pending', $6, $7, $8, now(), now())
		RETURNING `+appointmentColumns+`
	`, a.ID, a.PatientID, a.ClinicianID, a.ShiftID, a.ChosenTime, a.Symptoms, a.Note, a.HoldExpiresAt)

	return scanAppointment(row)
}

func (r *PgRepository) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE id = $1
	`, id)
	return scanAppointment(row)
}

func (r *PgRepository) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET status = $2,
		    updated_at = now()
		WHERE id = $1
		  AND status = $3
		RETURNING `+appointmentColumns+`
	`, id, to, from)

	return scanAppointment(row)
}

func (r *PgRepository) CancelAppointment(ctx context.Context, id uuid.UUID, from AppointmentStatus) (*Appointment, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin cancel: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
		UPDATE appointments
		SET status = 'cancelled',
		    updated_at = now()
		WHERE id = $1
		  AND status = $2
		RETURNING `+appointmentColumns+`
	`, id, from)

	a, err := scanAppointment(row)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(ctx, `
		UPDATE shifts
		SET is_booked = false,
		    updated_at = now()
		WHERE id = $1
	`, a.ShiftID); err != nil {
		return nil, fmt.Errorf("release shift: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit cancel: %w", err)
	}
	return a, nil
}

func (r *PgRepository) FindExpiredPending(ctx context.Context, now time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE status = 'pending'
		  AND hold_expires_at IS NOT NULL
		  AND hold_expires_at < $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListPatientHistory(ctx context.Context, patientID uuid.UUID) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE patient_id = $1
		  AND status IN ('done', 'cancelled')
		ORDER BY updated_at DESC
	`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) ListClinicianDayAppointments(ctx context.Context, clinicianID uuid.UUID, date time.Time) ([]Appointment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.patient_id, a.clinician_id, a.shift_id, a.chosen_time, a.status,
		       a.symptoms, a.note, a.hold_expires_at, a.created_at, a.updated_at
		FROM appointments a
		JOIN shifts s ON s.id = a.shift_id
		WHERE a.clinician_id = $1
		  AND s.shift_date = $2
		  AND a.status <> 'cancelled'
		ORDER BY a.shift_id, a.chosen_time
	`, clinicianID, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAppointments(rows)
}

func (r *PgRepository) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func collectShifts(rows pgx.Rows) ([]Shift, error) {
	var result []Shift
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func collectAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
