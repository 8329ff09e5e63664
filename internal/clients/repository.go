package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PgxPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository stores clients, medical alerts and client notes in Postgres.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("clients: pgx pool required")
	}
	return &Repository{pool: pool}
}

const clientColumns = `id, name, email, phone, date_of_birth,
	preferred_pressure, focus_areas, allergies, music_preference,
	temperature_preference, aromatherapy_preference,
	first_visit, last_visit, visit_count, lifetime_value_cents,
	is_active, created_at, updated_at`

// FindOrCreate looks up a client by email (case-insensitive) and creates one
// when no match exists. The lower(email) unique index is the backstop for two
// concurrent submissions racing on a new address: the loser re-reads the
// winner's row.
func (r *Repository) FindOrCreate(ctx context.Context, email, name string) (*Client, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}

	client, err := r.GetByEmail(ctx, email)
	if err == nil {
		return client, nil
	}
	if !errors.Is(err, ErrClientNotFound) {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO clients (id, name, email)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.pool.QueryRow(ctx, query, id, name, email).Scan(&createdAt); err != nil {
		if isUniqueViolation(err) {
			return r.GetByEmail(ctx, email)
		}
		return nil, fmt.Errorf("clients: insert failed: %w", err)
	}

	return &Client{
		ID:        id,
		Name:      name,
		Email:     email,
		IsActive:  true,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}, nil
}

// GetByEmail fetches a client matching the email case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE lower(email) = lower($1)`
	return r.scanOne(r.pool.QueryRow(ctx, query, strings.TrimSpace(email)))
}

// GetByID fetches a client by id.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id))
}

// ListActive returns all active clients ordered by name.
func (r *Repository) ListActive(ctx context.Context) ([]*Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE is_active ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("clients: list failed: %w", err)
	}
	defer rows.Close()

	var out []*Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Preferences are the session preference fields a client can set on intake.
type Preferences struct {
	PreferredPressure      string
	FocusAreas             string
	Allergies              string
	MusicPreference        string
	TemperaturePreference  string
	AromatherapyPreference string
}

// UpdatePreferences replaces the preference fields for a client.
func (r *Repository) UpdatePreferences(ctx context.Context, id uuid.UUID, p Preferences) error {
	query := `
		UPDATE clients
		SET preferred_pressure = $2, focus_areas = $3, allergies = $4,
			music_preference = $5, temperature_preference = $6,
			aromatherapy_preference = $7, updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id,
		p.PreferredPressure, p.FocusAreas, p.Allergies,
		p.MusicPreference, p.TemperaturePreference, p.AromatherapyPreference)
	if err != nil {
		return fmt.Errorf("clients: update preferences: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// RecordVisit bumps the visit counters after a completed session.
func (r *Repository) RecordVisit(ctx context.Context, id uuid.UUID, visitDate time.Time, amountCents int64) error {
	query := `
		UPDATE clients
		SET visit_count = visit_count + 1,
			lifetime_value_cents = lifetime_value_cents + $3,
			first_visit = COALESCE(first_visit, $2),
			last_visit = $2,
			updated_at = now()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id, visitDate, amountCents)
	if err != nil {
		return fmt.Errorf("clients: record visit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// Deactivate soft-deletes a client.
func (r *Repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE clients SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clients: deactivate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

// Delete removes a client and all dependent rows. Dependents are deleted in
// explicit order inside one transaction rather than relying on FK cascades.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("clients: begin delete: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	steps := []string{
		`DELETE FROM soap_notes WHERE client_id = $1`,
		`DELETE FROM medical_alerts WHERE client_id = $1`,
		`DELETE FROM client_notes WHERE client_id = $1`,
		`DELETE FROM appointments WHERE client_id = $1`,
		`DELETE FROM intakes WHERE client_id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.Exec(ctx, q, id); err != nil {
			return fmt.Errorf("clients: cascade delete: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("clients: delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("clients: commit delete: %w", err)
	}
	return nil
}

// CreateAlert records a standing medical alert for a client.
func (r *Repository) CreateAlert(ctx context.Context, alert *MedicalAlert) (*MedicalAlert, error) {
	if alert.ID == uuid.Nil {
		alert.ID = uuid.New()
	}
	if alert.Severity == "" {
		alert.Severity = "medium"
	}
	query := `
		INSERT INTO medical_alerts (id, client_id, alert_type, severity, description,
			contraindications, special_instructions, created_by_provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`
	if err := r.pool.QueryRow(ctx, query,
		alert.ID, alert.ClientID, alert.AlertType, alert.Severity, alert.Description,
		alert.Contraindications, alert.SpecialInstructions, alert.CreatedBy,
	).Scan(&alert.CreatedAt); err != nil {
		return nil, fmt.Errorf("clients: insert alert: %w", err)
	}
	alert.IsActive = true
	return alert, nil
}

// DeactivateAlert clears a standing alert without losing its history.
func (r *Repository) DeactivateAlert(ctx context.Context, alertID uuid.UUID, byProvider uuid.UUID) error {
	query := `
		UPDATE medical_alerts
		SET is_active = FALSE, updated_at = now(), updated_by_provider_id = $2
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, alertID, byProvider)
	if err != nil {
		return fmt.Errorf("clients: deactivate alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAlertNotFound
	}
	return nil
}

// ListActiveAlerts returns active alerts for a client, newest first.
func (r *Repository) ListActiveAlerts(ctx context.Context, clientID uuid.UUID) ([]*MedicalAlert, error) {
	query := `
		SELECT id, client_id, alert_type, severity, description,
			contraindications, special_instructions, is_active, created_at,
			COALESCE(created_by_provider_id, '00000000-0000-0000-0000-000000000000')
		FROM medical_alerts
		WHERE client_id = $1 AND is_active
		ORDER BY created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("clients: list alerts: %w", err)
	}
	defer rows.Close()

	var out []*MedicalAlert
	for rows.Next() {
		var a MedicalAlert
		if err := rows.Scan(&a.ID, &a.ClientID, &a.AlertType, &a.Severity, &a.Description,
			&a.Contraindications, &a.SpecialInstructions, &a.IsActive, &a.CreatedAt, &a.CreatedBy); err != nil {
			return nil, fmt.Errorf("clients: scan alert: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

// UpsertNote creates or replaces the free-text note one provider keeps on a
// client.
func (r *Repository) UpsertNote(ctx context.Context, providerID, clientID uuid.UUID, text string) (*Note, error) {
	query := `
		INSERT INTO client_notes (id, provider_id, client_id, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (provider_id, client_id)
		DO UPDATE SET notes = EXCLUDED.notes, updated_at = now()
		RETURNING id, created_at, updated_at
	`
	note := &Note{ProviderID: providerID, ClientID: clientID, Notes: text}
	if err := r.pool.QueryRow(ctx, query, uuid.New(), providerID, clientID, text).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, fmt.Errorf("clients: upsert note: %w", err)
	}
	return note, nil
}

// GetNote returns the note a provider keeps on a client, if any.
func (r *Repository) GetNote(ctx context.Context, providerID, clientID uuid.UUID) (*Note, error) {
	query := `
		SELECT id, provider_id, client_id, notes, created_at, updated_at
		FROM client_notes
		WHERE provider_id = $1 AND client_id = $2
	`
	var n Note
	err := r.pool.QueryRow(ctx, query, providerID, clientID).
		Scan(&n.ID, &n.ProviderID, &n.ClientID, &n.Notes, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("clients: select note: %w", err)
	}
	return &n, nil
}

func (r *Repository) scanOne(row pgx.Row) (*Client, error) {
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, err
	}
	return c, nil
}

func scanClient(row pgx.Row) (*Client, error) {
	var c Client
	if err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Phone, &c.DateOfBirth,
		&c.PreferredPressure, &c.FocusAreas, &c.Allergies, &c.MusicPreference,
		&c.TemperaturePreference, &c.AromatherapyPreference,
		&c.FirstVisit, &c.LastVisit, &c.VisitCount, &c.LifetimeValueCents,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("clients: scan: %w", err)
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
