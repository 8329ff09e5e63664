package intake

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists intakes.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("intake: pgx pool required")
	}
	return &Repository{pool: pool}
}

const intakeColumns = `id, client_id, medical_history, pregnancy_stage,
	COALESCE(booking_id, ''), confirmed, provider_notes, assigned_provider_id,
	created_at`

// Insert writes a new intake. A duplicate external booking id trips the
// partial unique index and comes back as ErrDuplicateBooking so the caller
// can return the already-recorded intake.
func (r *Repository) Insert(ctx context.Context, in *Intake) (*Intake, error) {
	if in.ID == uuid.Nil {
		in.ID = uuid.New()
	}
	query := `
		INSERT INTO intakes (id, client_id, medical_history, pregnancy_stage, booking_id, confirmed)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), FALSE)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		in.ID, in.ClientID, in.MedicalHistory, in.PregnancyStage, in.BookingID,
	).Scan(&in.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateBooking
		}
		return nil, fmt.Errorf("intake: insert: %w", err)
	}
	return in, nil
}

// GetByID fetches an intake.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Intake, error) {
	query := `SELECT ` + intakeColumns + ` FROM intakes WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByBookingID fetches the intake recorded for an external booking id.
func (r *Repository) GetByBookingID(ctx context.Context, bookingID string) (*Intake, error) {
	query := `SELECT ` + intakeColumns + ` FROM intakes WHERE booking_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, bookingID))
}

// Confirm marks the intake confirmed. Confirmation is one-directional; a
// second confirm leaves the row unchanged.
func (r *Repository) Confirm(ctx context.Context, id uuid.UUID) (*Intake, error) {
	query := `UPDATE intakes SET confirmed = TRUE WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("intake: confirm: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrIntakeNotFound
	}
	return r.GetByID(ctx, id)
}

// AssignProvider records which provider picked up the intake.
func (r *Repository) AssignProvider(ctx context.Context, id, providerID uuid.UUID) (*Intake, error) {
	query := `UPDATE intakes SET assigned_provider_id = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, providerID)
	if err != nil {
		return nil, fmt.Errorf("intake: assign provider: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrIntakeNotFound
	}
	return r.GetByID(ctx, id)
}

// SetProviderNotes replaces the free-form review notes on the intake.
func (r *Repository) SetProviderNotes(ctx context.Context, id uuid.UUID, notes string) error {
	query := `UPDATE intakes SET provider_notes = $2 WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id, notes)
	if err != nil {
		return fmt.Errorf("intake: set provider notes: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrIntakeNotFound
	}
	return nil
}

// ListUnconfirmed returns pending intakes, oldest first.
func (r *Repository) ListUnconfirmed(ctx context.Context) ([]*Intake, error) {
	query := `SELECT ` + intakeColumns + ` FROM intakes WHERE confirmed = FALSE ORDER BY created_at`
	return r.list(ctx, query)
}

// ListRecent returns the newest intakes regardless of state.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]*Intake, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `SELECT ` + intakeColumns + ` FROM intakes ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("intake: list recent: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*Intake, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("intake: list: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]*Intake, error) {
	var out []*Intake
	for rows.Next() {
		in, err := scanIntake(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *Repository) scanOne(row pgx.Row) (*Intake, error) {
	in, err := scanIntake(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrIntakeNotFound
		}
		return nil, err
	}
	return in, nil
}

func scanIntake(row pgx.Row) (*Intake, error) {
	var in Intake
	if err := row.Scan(
		&in.ID, &in.ClientID, &in.MedicalHistory, &in.PregnancyStage,
		&in.BookingID, &in.Confirmed, &in.ProviderNotes, &in.AssignedProviderID,
		&in.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("intake: scan: %w", err)
	}
	return &in, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
