package performance

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PgxPool is the subset of pgxpool.Pool the repository needs.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository computes and stores daily provider rollups.
type Repository struct {
	pool   PgxPool
	tracer trace.Tracer
}

// NewRepository initializes a repo backed by pgxpool.
func NewRepository(pool PgxPool) *Repository {
	if pool == nil {
		panic("performance: pgx pool required")
	}
	return &Repository{
		pool:   pool,
		tracer: otel.Tracer("portal.internal.performance"),
	}
}

// Rollup recomputes one provider's metrics for one date from the appointment
// table and upserts the row. Revenue counts completed sessions at the
// treatment's current price.
func (r *Repository) Rollup(ctx context.Context, providerID uuid.UUID, date time.Time) (*Metric, error) {
	ctx, span := r.tracer.Start(ctx, "performance.rollup", trace.WithAttributes(
		attribute.String("provider.id", providerID.String()),
		attribute.String("metric.date", date.Format("2006-01-02")),
	))
	defer span.End()

	query := `
		INSERT INTO performance_metrics (id, provider_id, metric_date,
			sessions_completed, sessions_cancelled, revenue_cents)
		SELECT $1, $2, $3,
			COUNT(*) FILTER (WHERE a.status = 'completed'),
			COUNT(*) FILTER (WHERE a.status = 'cancelled'),
			COALESCE(SUM(t.price_cents) FILTER (WHERE a.status = 'completed'), 0)
		FROM appointments a
		LEFT JOIN treatments t ON t.id = a.treatment_id
		WHERE a.provider_id = $2 AND a.appointment_date = $3
		ON CONFLICT ON CONSTRAINT uq_metric_provider_date DO UPDATE SET
			sessions_completed = EXCLUDED.sessions_completed,
			sessions_cancelled = EXCLUDED.sessions_cancelled,
			revenue_cents = EXCLUDED.revenue_cents
		RETURNING id, provider_id, metric_date,
			sessions_completed, sessions_cancelled, revenue_cents, created_at
	`
	var m Metric
	if err := r.pool.QueryRow(ctx, query, uuid.New(), providerID, date).Scan(
		&m.ID, &m.ProviderID, &m.MetricDate,
		&m.SessionsCompleted, &m.SessionsCancelled, &m.RevenueCents, &m.CreatedAt,
	); err != nil {
		return nil, fmt.Errorf("performance: rollup: %w", err)
	}
	return &m, nil
}

// ListForProvider returns a provider's rollups for a date range, newest
// first.
func (r *Repository) ListForProvider(ctx context.Context, providerID uuid.UUID, from, to time.Time) ([]*Metric, error) {
	query := `
		SELECT id, provider_id, metric_date,
			sessions_completed, sessions_cancelled, revenue_cents, created_at
		FROM performance_metrics
		WHERE provider_id = $1 AND metric_date BETWEEN $2 AND $3
		ORDER BY metric_date DESC
	`
	rows, err := r.pool.Query(ctx, query, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("performance: list: %w", err)
	}
	defer rows.Close()

	var out []*Metric
	for rows.Next() {
		var m Metric
		if err := rows.Scan(&m.ID, &m.ProviderID, &m.MetricDate,
			&m.SessionsCompleted, &m.SessionsCancelled, &m.RevenueCents, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("performance: scan: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
