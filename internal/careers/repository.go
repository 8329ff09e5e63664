package careers

import (
	"context"
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

// Repository persists job applications.
type Repository struct {
	pool PgxPool
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("careers: pgx pool required")
	}
	return &Repository{pool: pool}
}

// Insert records a new application.
func (r *Repository) Insert(ctx context.Context, app *Application) (*Application, error) {
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	query := `
		INSERT INTO applications (id, name, email, experience, resume_url)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING submitted_at
	`
	if err := r.pool.QueryRow(ctx, query,
		app.ID, app.Name, app.Email, app.Experience, app.ResumeURL,
	).Scan(&app.SubmittedAt); err != nil {
		return nil, fmt.Errorf("careers: insert application: %w", err)
	}
	return app, nil
}

// List returns all applications, newest first.
func (r *Repository) List(ctx context.Context) ([]*Application, error) {
	query := `
		SELECT id, name, email, experience, COALESCE(resume_url, ''), submitted_at
		FROM applications ORDER BY submitted_at DESC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("careers: list applications: %w", err)
	}
	defer rows.Close()

	var out []*Application
	for rows.Next() {
		var app Application
		if err := rows.Scan(&app.ID, &app.Name, &app.Email, &app.Experience, &app.ResumeURL, &app.SubmittedAt); err != nil {
			return nil, fmt.Errorf("careers: scan application: %w", err)
		}
		out = append(out, &app)
	}
	return out, rows.Err()
}
