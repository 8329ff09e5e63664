package soap

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

// Repository persists SOAP notes.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("soap: pgx pool required")
	}
	return &Repository{pool: pool}
}

const noteColumns = `id, appointment_id, provider_id, client_id,
	subjective, objective, assessment, plan,
	pain_level_before, pain_level_after,
	areas_worked, techniques_used, pressure_preference,
	is_locked, created_at,
	COALESCE(created_by_provider_id, '00000000-0000-0000-0000-000000000000'),
	updated_at,
	COALESCE(updated_by_provider_id, '00000000-0000-0000-0000-000000000000')`

// Create inserts the note. The unique constraint on appointment_id keeps it
// at one note per session.
func (r *Repository) Create(ctx context.Context, n *Note) (*Note, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	query := `
		INSERT INTO soap_notes (id, appointment_id, provider_id, client_id,
			subjective, objective, assessment, plan,
			pain_level_before, pain_level_after,
			areas_worked, techniques_used, pressure_preference,
			created_by_provider_id, updated_by_provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING created_at, updated_at
	`
	if err := r.pool.QueryRow(ctx, query,
		n.ID, n.AppointmentID, n.ProviderID, n.ClientID,
		n.Subjective, n.Objective, n.Assessment, n.Plan,
		n.PainLevelBefore, n.PainLevelAfter,
		n.AreasWorked, n.TechniquesUsed, n.PressurePreference,
		n.CreatedBy,
	).Scan(&n.CreatedAt, &n.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrNoteExists
		}
		return nil, fmt.Errorf("soap: create note: %w", err)
	}
	n.UpdatedBy = n.CreatedBy
	return n, nil
}

// GetByID fetches a note.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Note, error) {
	query := `SELECT ` + noteColumns + ` FROM soap_notes WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByAppointment fetches the note attached to an appointment, if any.
func (r *Repository) GetByAppointment(ctx context.Context, appointmentID uuid.UUID) (*Note, error) {
	query := `SELECT ` + noteColumns + ` FROM soap_notes WHERE appointment_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, appointmentID))
}

// ListForClient returns the client's notes, newest first.
func (r *Repository) ListForClient(ctx context.Context, clientID uuid.UUID) ([]*Note, error) {
	query := `SELECT ` + noteColumns + `
		FROM soap_notes WHERE client_id = $1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("soap: list for client: %w", err)
	}
	defer rows.Close()

	var out []*Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UpdateParams carry the editable fields of a note.
type UpdateParams struct {
	Subjective         string
	Objective          string
	Assessment         string
	Plan               string
	PainLevelBefore    *int
	PainLevelAfter     *int
	AreasWorked        string
	TechniquesUsed     string
	PressurePreference string
	UpdatedBy          uuid.UUID
}

// Update rewrites the editable fields. A locked note is rejected with
// ErrNoteLocked; the lock check and the write are a single statement so a
// concurrent Lock cannot slip between them.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, p UpdateParams) (*Note, error) {
	query := `
		UPDATE soap_notes
		SET subjective = $2, objective = $3, assessment = $4, plan = $5,
			pain_level_before = $6, pain_level_after = $7,
			areas_worked = $8, techniques_used = $9, pressure_preference = $10,
			updated_at = now(), updated_by_provider_id = $11
		WHERE id = $1 AND is_locked = FALSE
	`
	tag, err := r.pool.Exec(ctx, query, id,
		p.Subjective, p.Objective, p.Assessment, p.Plan,
		p.PainLevelBefore, p.PainLevelAfter,
		p.AreasWorked, p.TechniquesUsed, p.PressurePreference,
		p.UpdatedBy,
	)
	if err != nil {
		return nil, fmt.Errorf("soap: update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing note from a locked one.
		existing, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if existing.IsLocked {
			return nil, ErrNoteLocked
		}
		return nil, ErrNoteNotFound
	}
	return r.GetByID(ctx, id)
}

// Lock makes the note immutable. Locking an already locked note is a no-op.
func (r *Repository) Lock(ctx context.Context, id uuid.UUID, by uuid.UUID) (*Note, error) {
	query := `
		UPDATE soap_notes
		SET is_locked = TRUE, updated_at = now(), updated_by_provider_id = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, by)
	if err != nil {
		return nil, fmt.Errorf("soap: lock note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNoteNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) scanOne(row pgx.Row) (*Note, error) {
	n, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return n, nil
}

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	if err := row.Scan(
		&n.ID, &n.AppointmentID, &n.ProviderID, &n.ClientID,
		&n.Subjective, &n.Objective, &n.Assessment, &n.Plan,
		&n.PainLevelBefore, &n.PainLevelAfter,
		&n.AreasWorked, &n.TechniquesUsed, &n.PressurePreference,
		&n.IsLocked, &n.CreatedAt, &n.CreatedBy, &n.UpdatedAt, &n.UpdatedBy,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("soap: scan note: %w", err)
	}
	return &n, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
