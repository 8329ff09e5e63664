package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func clientRow(id uuid.UUID, name, email string) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "name", "email", "phone", "date_of_birth",
		"preferred_pressure", "focus_areas", "allergies", "music_preference",
		"temperature_preference", "aromatherapy_preference",
		"first_visit", "last_visit", "visit_count", "lifetime_value_cents",
		"is_active", "created_at", "updated_at",
	}).AddRow(id, name, email, "", (*time.Time)(nil),
		"", "", "", "", "", "",
		(*time.Time)(nil), (*time.Time)(nil), 0, int64(0),
		true, now, now)
}

func TestFindOrCreateReturnsExisting(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	id := uuid.New()
	mock.ExpectQuery("FROM clients WHERE lower").
		WithArgs("jane@example.com").
		WillReturnRows(clientRow(id, "Jane Doe", "jane@example.com"))

	got, err := repo.FindOrCreate(context.Background(), "Jane@Example.COM", "Jane Doe")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if got.ID != id {
		t.Fatalf("expected existing client %s, got %s", id, got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFindOrCreateInsertsWhenMissing(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	mock.ExpectQuery("FROM clients WHERE lower").
		WithArgs("new@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO clients").
		WithArgs(pgxmock.AnyArg(), "New Person", "new@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now()))

	got, err := repo.FindOrCreate(context.Background(), "new@example.com", "New Person")
	if err != nil {
		t.Fatalf("FindOrCreate: %v", err)
	}
	if !got.IsActive || got.Email != "new@example.com" {
		t.Fatalf("unexpected created client: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFindOrCreateLosesRaceAndRereads(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	winner := uuid.New()
	mock.ExpectQuery("FROM clients WHERE lower").
		WithArgs("race@example.com").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery("INSERT INTO clients").
		WithArgs(pgxmock.AnyArg(), "Racer", "race@example.com").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "uq_clients_email_lower"})
	mock.ExpectQuery("FROM clients WHERE lower").
		WithArgs("race@example.com").
		WillReturnRows(clientRow(winner, "Racer", "race@example.com"))

	got, err := repo.FindOrCreate(context.Background(), "race@example.com", "Racer")
	if err != nil {
		t.Fatalf("FindOrCreate after race: %v", err)
	}
	if got.ID != winner {
		t.Fatalf("expected winner row %s, got %s", winner, got.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestFindOrCreateRequiresEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	if _, err := repo.FindOrCreate(context.Background(), "   ", "No Email"); !errors.Is(err, ErrEmailRequired) {
		t.Fatalf("expected ErrEmailRequired, got %v", err)
	}
}

func TestDeleteCascadesInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	id := uuid.New()
	mock.ExpectBegin()
	for _, table := range []string{"soap_notes", "medical_alerts", "client_notes", "appointments", "intakes"} {
		mock.ExpectExec("DELETE FROM " + table).
			WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
	}
	mock.ExpectExec("DELETE FROM clients").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()
	mock.ExpectRollback()

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpsertNote(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()
	repo := NewRepository(mock)

	providerID := uuid.New()
	clientID := uuid.New()
	noteID := uuid.New()
	now := time.Now()

	mock.ExpectQuery("INSERT INTO client_notes").
		WithArgs(pgxmock.AnyArg(), providerID, clientID, "prefers firm pressure").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(noteID, now, now))

	note, err := repo.UpsertNote(context.Background(), providerID, clientID, "prefers firm pressure")
	if err != nil {
		t.Fatalf("UpsertNote: %v", err)
	}
	if note.ID != noteID {
		t.Fatalf("expected note id %s, got %s", noteID, note.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
