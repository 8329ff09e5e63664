package soap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func noteRow(id uuid.UUID, locked bool) *pgxmock.Rows {
	now := time.Now()
	zero := uuid.Nil
	return pgxmock.NewRows([]string{
		"id", "appointment_id", "provider_id", "client_id",
		"subjective", "objective", "assessment", "plan",
		"pain_level_before", "pain_level_after",
		"areas_worked", "techniques_used", "pressure_preference",
		"is_locked", "created_at", "created_by", "updated_at", "updated_by",
	}).AddRow(id, uuid.New(), uuid.New(), uuid.New(),
		"reports lower back pain", "tight erector spinae", "muscle strain", "weekly sessions",
		(*int)(nil), (*int)(nil),
		"lower back", "deep tissue", "firm",
		locked, now, zero, now, zero)
}

func TestCreateRejectsSecondNotePerAppointment(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	mock.ExpectQuery("INSERT INTO soap_notes").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_one_soap_per_appointment"})

	_, err = repo.Create(context.Background(), &Note{
		AppointmentID: uuid.New(),
		ProviderID:    uuid.New(),
		ClientID:      uuid.New(),
	})
	if !errors.Is(err, ErrNoteExists) {
		t.Fatalf("expected ErrNoteExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateLockedNote(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	id := uuid.New()
	mock.ExpectExec("UPDATE soap_notes").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("FROM soap_notes WHERE id").
		WithArgs(id).
		WillReturnRows(noteRow(id, true))

	_, err = repo.Update(context.Background(), id, UpdateParams{Subjective: "edited"})
	if !errors.Is(err, ErrNoteLocked) {
		t.Fatalf("expected ErrNoteLocked, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateMissingNote(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	id := uuid.New()
	mock.ExpectExec("UPDATE soap_notes").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("FROM soap_notes WHERE id").
		WithArgs(id).
		WillReturnError(errors.New("no rows in result set"))

	_, err = repo.Update(context.Background(), id, UpdateParams{})
	if err == nil {
		t.Fatal("expected an error for a missing note")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLockThenReadBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	id := uuid.New()
	by := uuid.New()
	mock.ExpectExec("SET is_locked = TRUE").
		WithArgs(id, by).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery("FROM soap_notes WHERE id").
		WithArgs(id).
		WillReturnRows(noteRow(id, true))

	got, err := repo.Lock(context.Background(), id, by)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}
	if !got.IsLocked {
		t.Fatalf("expected locked note")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
