package performance

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestRollupUpsertsDailyMetric(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	providerID := uuid.New()
	date := time.Date(2025, time.March, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("INSERT INTO performance_metrics").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "provider_id", "metric_date",
			"sessions_completed", "sessions_cancelled", "revenue_cents", "created_at",
		}).AddRow(uuid.New(), providerID, date, 4, 1, int64(38000), time.Now()))

	m, err := repo.Rollup(context.Background(), providerID, date)
	if err != nil {
		t.Fatalf("Rollup: %v", err)
	}
	if m.SessionsCompleted != 4 || m.SessionsCancelled != 1 || m.RevenueCents != 38000 {
		t.Fatalf("unexpected metric: %+v", m)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
