package clinic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrLocationNotFound is returned when a location id does not exist
	ErrLocationNotFound = errors.New("location not found")

	// ErrTreatmentNotFound is returned when a treatment id does not exist
	ErrTreatmentNotFound = errors.New("treatment not found")
)

// PgxPool is the subset of pgxpool.Pool the repository needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores locations and treatments.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("clinic: pgx pool required")
	}
	return &Repository{pool: pool}
}

// CreateLocation inserts a business site.
func (r *Repository) CreateLocation(ctx context.Context, loc *Location) (*Location, error) {
	if loc.ID == uuid.Nil {
		loc.ID = uuid.New()
	}
	query := `
		INSERT INTO locations (id, name, address, phone, hours)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		loc.ID, loc.Name, loc.Address, loc.Phone, loc.Hours).Scan(&loc.CreatedAt); err != nil {
		return nil, fmt.Errorf("clinic: insert location: %w", err)
	}
	loc.Active = true
	return loc, nil
}

// UpdateLocation replaces the mutable fields of a site.
func (r *Repository) UpdateLocation(ctx context.Context, loc *Location) error {
	query := `
		UPDATE locations
		SET name = $2, address = $3, phone = $4, hours = $5, active = $6
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		loc.ID, loc.Name, loc.Address, loc.Phone, loc.Hours, loc.Active)
	if err != nil {
		return fmt.Errorf("clinic: update location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLocationNotFound
	}
	return nil
}

// ListLocations returns active sites for the public pages.
func (r *Repository) ListLocations(ctx context.Context) ([]*Location, error) {
	query := `
		SELECT id, name, address, phone, hours, active, created_at
		FROM locations WHERE active ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clinic: list locations: %w", err)
	}
	defer rows.Close()

	var out []*Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address, &l.Phone, &l.Hours, &l.Active, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("clinic: scan location: %w", err)
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

// CreateTreatment inserts a service offering.
func (r *Repository) CreateTreatment(ctx context.Context, tr *Treatment) (*Treatment, error) {
	if tr.ID == uuid.Nil {
		tr.ID = uuid.New()
	}
	if tr.DurationMinutes == 0 {
		tr.DurationMinutes = 60
	}
	query := `
		INSERT INTO treatments (id, name, description, duration_minutes, price_cents)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		tr.ID, tr.Name, tr.Description, tr.DurationMinutes, tr.PriceCents).Scan(&tr.CreatedAt); err != nil {
		return nil, fmt.Errorf("clinic: insert treatment: %w", err)
	}
	tr.Active = true
	return tr, nil
}

// GetTreatment fetches a treatment by id.
func (r *Repository) GetTreatment(ctx context.Context, id uuid.UUID) (*Treatment, error) {
	query := `
		SELECT id, name, description, duration_minutes, price_cents, active, created_at
		FROM treatments WHERE id = $1
	`
	var tr Treatment
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&tr.ID, &tr.Name, &tr.Description, &tr.DurationMinutes, &tr.PriceCents, &tr.Active, &tr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTreatmentNotFound
		}
		return nil, fmt.Errorf("clinic: select treatment: %w", err)
	}
	return &tr, nil
}

// ListTreatments returns active offerings for the booking page.
func (r *Repository) ListTreatments(ctx context.Context) ([]*Treatment, error) {
	query := `
		SELECT id, name, description, duration_minutes, price_cents, active, created_at
		FROM treatments WHERE active ORDER BY name
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clinic: list treatments: %w", err)
	}
	defer rows.Close()

	var out []*Treatment
	for rows.Next() {
		var tr Treatment
		if err := rows.Scan(&tr.ID, &tr.Name, &tr.Description, &tr.DurationMinutes,
			&tr.PriceCents, &tr.Active, &tr.CreatedAt); err != nil {
			return nil, fmt.Errorf("clinic: scan treatment: %w", err)
		}
		out = append(out, &tr)
	}
	return out, rows.Err()
}

// DeactivateTreatment retires an offering without deleting history.
func (r *Repository) DeactivateTreatment(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE treatments SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clinic: deactivate treatment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTreatmentNotFound
	}
	return nil
}
