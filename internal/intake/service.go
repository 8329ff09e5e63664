package intake

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/toughlovemassage/portal/internal/clients"
	"github.com/toughlovemassage/portal/internal/observability/metrics"
	"github.com/toughlovemassage/portal/pkg/logging"
)

var tracer = otel.Tracer("portal.internal.intake")

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, in *Intake) (*Intake, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Intake, error)
	GetByBookingID(ctx context.Context, bookingID string) (*Intake, error)
	Confirm(ctx context.Context, id uuid.UUID) (*Intake, error)
	AssignProvider(ctx context.Context, id, providerID uuid.UUID) (*Intake, error)
	SetProviderNotes(ctx context.Context, id uuid.UUID, notes string) error
	ListUnconfirmed(ctx context.Context) ([]*Intake, error)
	ListRecent(ctx context.Context, limit int) ([]*Intake, error)
}

// ClientDirectory resolves the client behind a submission.
type ClientDirectory interface {
	FindOrCreate(ctx context.Context, email, name string) (*clients.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*clients.Client, error)
}

// Notifier sends the intake lifecycle emails. Failures never fail the
// operation that triggered them.
type Notifier interface {
	BookingReceived(ctx context.Context, in *Intake, client *clients.Client) error
	IntakeConfirmed(ctx context.Context, in *Intake, client *clients.Client) error
}

// Service implements the intake lifecycle.
type Service struct {
	store    Store
	clients  ClientDirectory
	notifier Notifier
	metrics  *metrics.BookingMetrics
	logger   *logging.Logger
}

// NewService wires the intake service.
func NewService(store Store, dir ClientDirectory, notifier Notifier, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("intake: store required")
	}
	if dir == nil {
		panic("intake: client directory required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, clients: dir, notifier: notifier, metrics: m, logger: logger}
}

// SubmitParams are the fields of an incoming booking request.
type SubmitParams struct {
	ClientName     string
	Email          string
	MedicalHistory string
	PregnancyStage string
	BookingID      string
	Source         string
}

// Submit records a booking request. The client is deduplicated by email, and
// a redelivered external booking id returns the intake already recorded for
// it instead of creating a duplicate. Notification emails go out after the
// write; their failures are logged and swallowed.
func (s *Service) Submit(ctx context.Context, p SubmitParams) (*Intake, error) {
	ctx, span := tracer.Start(ctx, "intake.submit")
	defer span.End()
	span.SetAttributes(attribute.String("portal.source", p.Source))

	email := strings.TrimSpace(p.Email)
	if email == "" {
		s.metrics.ObserveIntake(p.Source, "invalid")
		return nil, ErrEmailRequired
	}

	client, err := s.clients.FindOrCreate(ctx, email, strings.TrimSpace(p.ClientName))
	if err != nil {
		span.RecordError(err)
		s.metrics.ObserveIntake(p.Source, "error")
		return nil, err
	}

	in := &Intake{
		ClientID:       client.ID,
		MedicalHistory: p.MedicalHistory,
		PregnancyStage: p.PregnancyStage,
		BookingID:      strings.TrimSpace(p.BookingID),
	}
	created, err := s.store.Insert(ctx, in)
	if err != nil {
		if errors.Is(err, ErrDuplicateBooking) {
			existing, lookupErr := s.store.GetByBookingID(ctx, in.BookingID)
			if lookupErr != nil {
				span.RecordError(lookupErr)
				return nil, lookupErr
			}
			s.metrics.ObserveIntake(p.Source, "duplicate")
			s.logger.Info("duplicate booking delivery ignored",
				"booking_id", in.BookingID, "intake_id", existing.ID)
			return existing, nil
		}
		span.RecordError(err)
		s.metrics.ObserveIntake(p.Source, "error")
		return nil, err
	}

	s.metrics.ObserveIntake(p.Source, "created")
	s.logger.Info("intake submitted",
		"intake_id", created.ID, "client_id", client.ID, "source", p.Source)

	if s.notifier != nil {
		if err := s.notifier.BookingReceived(ctx, created, client); err != nil {
			s.logger.Error("booking notification failed", "error", err, "intake_id", created.ID)
		}
	}
	return created, nil
}

// Confirm marks the intake reviewed and emails the client. Confirming an
// already confirmed intake re-sends the email; the row is unchanged.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Intake, error) {
	ctx, span := tracer.Start(ctx, "intake.confirm")
	defer span.End()
	span.SetAttributes(attribute.String("portal.intake_id", id.String()))

	in, err := s.store.Confirm(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if s.notifier != nil {
		client, err := s.clients.GetByID(ctx, in.ClientID)
		if err != nil {
			s.logger.Error("confirmation email skipped, client lookup failed",
				"error", err, "intake_id", id)
			return in, nil
		}
		if err := s.notifier.IntakeConfirmed(ctx, in, client); err != nil {
			s.logger.Error("confirmation email failed", "error", err, "intake_id", id)
		}
	}

	s.logger.Info("intake confirmed", "intake_id", id)
	return in, nil
}

// AssignProvider records which provider owns the intake.
func (s *Service) AssignProvider(ctx context.Context, id, providerID uuid.UUID) (*Intake, error) {
	return s.store.AssignProvider(ctx, id, providerID)
}

// SetProviderNotes replaces the review notes.
func (s *Service) SetProviderNotes(ctx context.Context, id uuid.UUID, notes string) error {
	return s.store.SetProviderNotes(ctx, id, notes)
}

// ListUnconfirmed returns pending intakes for the portal queue.
func (s *Service) ListUnconfirmed(ctx context.Context) ([]*Intake, error) {
	return s.store.ListUnconfirmed(ctx)
}

// ListRecent returns the newest intakes.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*Intake, error) {
	return s.store.ListRecent(ctx, limit)
}

// Get returns one intake.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Intake, error) {
	return s.store.GetByID(ctx, id)
}
