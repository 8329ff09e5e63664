package scheduling

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/toughlovemassage/portal/internal/providers"
)

// PgxPool is the subset of pgxpool.Pool the repository needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists appointments.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("scheduling: pgx pool required")
	}
	return &Repository{pool: pool}
}

const appointmentColumns = `id, provider_id, client_id, treatment_id,
	appointment_date, start_time, end_time, duration_minutes,
	status, notes, COALESCE(booking_id, ''),
	created_at, COALESCE(created_by_provider_id, '00000000-0000-0000-0000-000000000000'), updated_at`

// Insert writes a new appointment row. The database unique constraint on
// (provider_id, appointment_date, start_time) is the final word when two
// requests race for the same slot; the loser gets a slot-taken conflict.
func (r *Repository) Insert(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO appointments (id, provider_id, client_id, treatment_id,
			appointment_date, start_time, end_time, duration_minutes,
			status, notes, booking_id, created_by_provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12)
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		a.ID, a.ProviderID, a.ClientID, a.TreatmentID,
		a.Date, a.StartTime.PG(), a.EndTime.PG(), a.DurationMinutes,
		string(a.Status), a.Notes, a.BookingID, a.CreatedBy,
	).Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, &ConflictError{Rule: RuleSlotTaken, Detail: "slot already booked for provider"}
		}
		return nil, fmt.Errorf("scheduling: insert appointment: %w", err)
	}
	return a, nil
}

// GetByID fetches an appointment.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	a, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return a, nil
}

// SlotTaken reports whether the provider already has an appointment at the
// exact (date, start_time) slot.
func (r *Repository) SlotTaken(ctx context.Context, providerID uuid.UUID, date time.Time, start providers.TimeOfDay) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE provider_id = $1 AND appointment_date = $2 AND start_time = $3
		)
	`
	if err := r.pool.QueryRow(ctx, query, providerID, date, start.PG()).Scan(&exists); err != nil {
		return false, fmt.Errorf("scheduling: slot check: %w", err)
	}
	return exists, nil
}

// CountSameDayTreatment counts the provider's non-cancelled appointments for
// one treatment on one date, for the daily-limit check.
func (r *Repository) CountSameDayTreatment(ctx context.Context, providerID, treatmentID uuid.UUID, date time.Time) (int, error) {
	var n int
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE provider_id = $1 AND treatment_id = $2 AND appointment_date = $3
			AND status <> 'cancelled'
	`
	if err := r.pool.QueryRow(ctx, query, providerID, treatmentID, date).Scan(&n); err != nil {
		return 0, fmt.Errorf("scheduling: daily count: %w", err)
	}
	return n, nil
}

// UpdateStatus persists a lifecycle transition.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status, by uuid.UUID) error {
	query := `
		UPDATE appointments
		SET status = $2, updated_at = now(), updated_by_provider_id = $3
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, string(status), by)
	if err != nil {
		return fmt.Errorf("scheduling: update status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAppointmentNotFound
	}
	return nil
}

// ListForProviderDay returns a provider's appointments on one date, ordered
// by start time.
func (r *Repository) ListForProviderDay(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE provider_id = $1 AND appointment_date = $2
		ORDER BY start_time`
	rows, err := r.pool.Query(ctx, query, providerID, date)
	if err != nil {
		return nil, fmt.Errorf("scheduling: list for day: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var start, end pgtype.Time
	var status string
	if err := row.Scan(
		&a.ID, &a.ProviderID, &a.ClientID, &a.TreatmentID,
		&a.Date, &start, &end, &a.DurationMinutes,
		&status, &a.Notes, &a.BookingID,
		&a.CreatedAt, &a.CreatedBy, &a.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scheduling: scan appointment: %w", err)
	}
	a.StartTime = providers.TimeOfDayFromPG(start)
	a.EndTime = providers.TimeOfDayFromPG(end)
	a.Status = Status(status)
	return &a, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
