package providers

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// PgxPool is the subset of pgxpool.Pool the repository needs.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores provider accounts and their scheduling preferences.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("providers: pgx pool required")
	}
	return &Repository{pool: pool}
}

const providerColumns = `id, username, password_hash, full_name, email, phone,
	is_admin, location_id, active, buffer_time_minutes, created_at`

// Create inserts a provider account. The caller supplies a bcrypt hash.
func (r *Repository) Create(ctx context.Context, p *Provider) (*Provider, error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.BufferTimeMinutes == 0 {
		p.BufferTimeMinutes = 15
	}
	query := `
		INSERT INTO providers (id, username, password_hash, full_name, email, phone,
			is_admin, location_id, buffer_time_minutes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		p.ID, p.Username, p.PasswordHash, p.FullName, p.Email, p.Phone,
		p.IsAdmin, p.LocationID, p.BufferTimeMinutes,
	).Scan(&p.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("providers: insert: %w", err)
	}
	p.Active = true
	return p, nil
}

// GetByID fetches a provider by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// GetByUsername fetches a provider by login name.
func (r *Repository) GetByUsername(ctx context.Context, username string) (*Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers WHERE username = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, username))
}

// List returns all providers, active first, for the admin screen.
func (r *Repository) List(ctx context.Context) ([]*Provider, error) {
	query := `SELECT ` + providerColumns + ` FROM providers ORDER BY active DESC, username`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("providers: list: %w", err)
	}
	defer rows.Close()

	var out []*Provider
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of provider accounts. Used by the seed binary to
// decide whether the bootstrap admin is needed.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM providers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("providers: count: %w", err)
	}
	return n, nil
}

// NotificationEmails returns the addresses new-booking notifications go to.
// The source uses the login name as the address when no contact email is set.
func (r *Repository) NotificationEmails(ctx context.Context) ([]string, error) {
	query := `SELECT COALESCE(NULLIF(email, ''), username) FROM providers WHERE active`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("providers: notification emails: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var addr string
		if err := rows.Scan(&addr); err != nil {
			return nil, fmt.Errorf("providers: scan email: %w", err)
		}
		out = append(out, addr)
	}
	return out, rows.Err()
}

// AdminUpdate is the set of fields an admin may change on a provider.
type AdminUpdate struct {
	FullName          string
	Email             string
	Phone             string
	IsAdmin           bool
	Active            bool
	LocationID        *uuid.UUID
	BufferTimeMinutes int
}

// Update applies an admin edit to a provider account.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, u AdminUpdate) error {
	query := `
		UPDATE providers
		SET full_name = $2, email = $3, phone = $4, is_admin = $5, active = $6,
			location_id = $7, buffer_time_minutes = $8
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id,
		u.FullName, u.Email, u.Phone, u.IsAdmin, u.Active, u.LocationID, u.BufferTimeMinutes)
	if err != nil {
		return fmt.Errorf("providers: update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProviderNotFound
	}
	return nil
}

// UpdateBuffer lets a provider change their own buffer preference.
func (r *Repository) UpdateBuffer(ctx context.Context, id uuid.UUID, bufferMinutes int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE providers SET buffer_time_minutes = $2 WHERE id = $1`, id, bufferMinutes)
	if err != nil {
		return fmt.Errorf("providers: update buffer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProviderNotFound
	}
	return nil
}

// UpdatePassword replaces the stored bcrypt hash.
func (r *Repository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE providers SET password_hash = $2 WHERE id = $1`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("providers: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProviderNotFound
	}
	return nil
}

// Deactivate soft-deletes a provider account.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE providers SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("providers: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProviderNotFound
	}
	return nil
}

// AddAvailability creates a recurring weekly window.
func (r *Repository) AddAvailability(ctx context.Context, a *Availability) (*Availability, error) {
	if a.EndTime <= a.StartTime {
		return nil, ErrInvalidWindow
	}
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `
		INSERT INTO provider_availability (id, provider_id, day_of_week, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := r.pool.Exec(ctx, query,
		a.ID, a.ProviderID, a.DayOfWeek, a.StartTime.PG(), a.EndTime.PG()); err != nil {
		return nil, fmt.Errorf("providers: insert availability: %w", err)
	}
	a.Active = true
	return a, nil
}

// DeleteAvailability removes a window; scoped to the owning provider.
func (r *Repository) DeleteAvailability(ctx context.Context, id, providerID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM provider_availability WHERE id = $1 AND provider_id = $2`, id, providerID)
	if err != nil {
		return fmt.Errorf("providers: delete availability: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAvailabilityNotFound
	}
	return nil
}

// ListAvailability returns a provider's weekly windows ordered by day and
// start time.
func (r *Repository) ListAvailability(ctx context.Context, providerID uuid.UUID) ([]*Availability, error) {
	query := `
		SELECT id, provider_id, day_of_week, start_time, end_time, active
		FROM provider_availability
		WHERE provider_id = $1
		ORDER BY day_of_week, start_time
	`
	rows, err := r.pool.Query(ctx, query, providerID)
	if err != nil {
		return nil, fmt.Errorf("providers: list availability: %w", err)
	}
	defer rows.Close()
	return scanAvailabilities(rows)
}

// WindowsFor returns the active windows for one weekday, for the scheduling
// containment check.
func (r *Repository) WindowsFor(ctx context.Context, providerID uuid.UUID, dayOfWeek int) ([]*Availability, error) {
	query := `
		SELECT id, provider_id, day_of_week, start_time, end_time, active
		FROM provider_availability
		WHERE provider_id = $1 AND day_of_week = $2 AND active
		ORDER BY start_time
	`
	rows, err := r.pool.Query(ctx, query, providerID, dayOfWeek)
	if err != nil {
		return nil, fmt.Errorf("providers: windows for day: %w", err)
	}
	defer rows.Close()
	return scanAvailabilities(rows)
}

// UpsertDailyLimit creates or replaces the per-day cap for a
// provider+treatment pair.
func (r *Repository) UpsertDailyLimit(ctx context.Context, providerID, treatmentID uuid.UUID, maxPerDay int) (*DailyLimit, error) {
	query := `
		INSERT INTO provider_daily_limits (id, provider_id, treatment_id, max_per_day)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider_id, treatment_id)
		DO UPDATE SET max_per_day = EXCLUDED.max_per_day
		RETURNING id
	`
	limit := &DailyLimit{ProviderID: providerID, TreatmentID: treatmentID, MaxPerDay: maxPerDay}
	if err := r.pool.QueryRow(ctx, query, uuid.New(), providerID, treatmentID, maxPerDay).
		Scan(&limit.ID); err != nil {
		return nil, fmt.Errorf("providers: upsert daily limit: %w", err)
	}
	return limit, nil
}

// MaxPerDay returns the cap for a provider+treatment pair. ok=false means no
// limit row exists, i.e. unlimited.
func (r *Repository) MaxPerDay(ctx context.Context, providerID, treatmentID uuid.UUID) (int, bool, error) {
	var max int
	err := r.pool.QueryRow(ctx,
		`SELECT max_per_day FROM provider_daily_limits WHERE provider_id = $1 AND treatment_id = $2`,
		providerID, treatmentID).Scan(&max)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("providers: daily limit: %w", err)
	}
	return max, true, nil
}

// ReplaceTreatments swaps the provider's treatment assignments wholesale.
func (r *Repository) ReplaceTreatments(ctx context.Context, providerID uuid.UUID, treatmentIDs []uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("providers: begin replace treatments: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx,
		`DELETE FROM provider_treatments WHERE provider_id = $1`, providerID); err != nil {
		return fmt.Errorf("providers: clear treatments: %w", err)
	}
	for _, treatmentID := range treatmentIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO provider_treatments (id, provider_id, treatment_id) VALUES ($1, $2, $3)`,
			uuid.New(), providerID, treatmentID); err != nil {
			return fmt.Errorf("providers: assign treatment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("providers: commit replace treatments: %w", err)
	}
	return nil
}

// TreatmentIDs lists the treatments assigned to a provider.
func (r *Repository) TreatmentIDs(ctx context.Context, providerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT treatment_id FROM provider_treatments WHERE provider_id = $1`, providerID)
	if err != nil {
		return nil, fmt.Errorf("providers: treatment ids: %w", err)
	}
	defer rows.Close()

	var out []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("providers: scan treatment id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *Repository) scanOne(row pgx.Row) (*Provider, error) {
	p, err := scanProvider(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProviderNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanProvider(row pgx.Row) (*Provider, error) {
	var p Provider
	if err := row.Scan(
		&p.ID, &p.Username, &p.PasswordHash, &p.FullName, &p.Email, &p.Phone,
		&p.IsAdmin, &p.LocationID, &p.Active, &p.BufferTimeMinutes, &p.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("providers: scan: %w", err)
	}
	return &p, nil
}

func scanAvailabilities(rows pgx.Rows) ([]*Availability, error) {
	var out []*Availability
	for rows.Next() {
		var a Availability
		var start, end pgtype.Time
		if err := rows.Scan(&a.ID, &a.ProviderID, &a.DayOfWeek, &start, &end, &a.Active); err != nil {
			return nil, fmt.Errorf("providers: scan availability: %w", err)
		}
		a.StartTime = TimeOfDayFromPG(start)
		a.EndTime = TimeOfDayFromPG(end)
		out = append(out, &a)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
