package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/toughlovemassage/portal/internal/clinic"
	"github.com/toughlovemassage/portal/internal/observability/metrics"
	"github.com/toughlovemassage/portal/internal/providers"
	"github.com/toughlovemassage/portal/pkg/logging"
)

var tracer = otel.Tracer("portal.internal.scheduling")

// Store is the appointment persistence the service needs. *Repository
// implements it; tests use stubs.
type Store interface {
	Insert(ctx context.Context, a *Appointment) (*Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	SlotTaken(ctx context.Context, providerID uuid.UUID, date time.Time, start providers.TimeOfDay) (bool, error)
	CountSameDayTreatment(ctx context.Context, providerID, treatmentID uuid.UUID, date time.Time) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status, by uuid.UUID) error
	ListForProviderDay(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error)
}

// ProviderDirectory looks up providers and their scheduling preferences.
type ProviderDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*providers.Provider, error)
	WindowsFor(ctx context.Context, providerID uuid.UUID, dayOfWeek int) ([]*providers.Availability, error)
	MaxPerDay(ctx context.Context, providerID, treatmentID uuid.UUID) (int, bool, error)
}

// TreatmentCatalog looks up service offerings.
type TreatmentCatalog interface {
	GetTreatment(ctx context.Context, id uuid.UUID) (*clinic.Treatment, error)
}

// VisitRecorder bumps client visit counters after a completed session.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, id uuid.UUID, visitDate time.Time, amountCents int64) error
}

// Service owns appointment creation and lifecycle transitions.
type Service struct {
	store      Store
	directory  ProviderDirectory
	treatments TreatmentCatalog
	visits     VisitRecorder
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewService constructs the lifecycle manager.
func NewService(store Store, directory ProviderDirectory, treatments TreatmentCatalog, visits VisitRecorder, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("scheduling: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:      store,
		directory:  directory,
		treatments: treatments,
		visits:     visits,
		metrics:    m,
		logger:     logger,
	}
}

// CreateParams are the inputs to Create.
type CreateParams struct {
	ProviderID  uuid.UUID
	ClientID    uuid.UUID
	TreatmentID uuid.UUID
	Date        time.Time
	StartTime   providers.TimeOfDay
	Notes       string
	BookingID   string
	CreatedBy   uuid.UUID
}

// Create validates and books a new appointment. Validation order: provider
// active, treatment active, slot inside an availability window, slot not
// taken, daily limit not exceeded. Any failure returns a ConflictError
// naming the rule and leaves no partial writes.
func (s *Service) Create(ctx context.Context, p CreateParams) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.create")
	defer span.End()
	span.SetAttributes(
		attribute.String("portal.provider_id", p.ProviderID.String()),
		attribute.String("portal.client_id", p.ClientID.String()),
		attribute.String("portal.date", p.Date.Format("2006-01-02")),
	)

	provider, err := s.directory.GetByID(ctx, p.ProviderID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !provider.Active {
		return nil, s.conflict(RuleProviderInactive, "provider is not accepting bookings")
	}

	treatment, err := s.treatments.GetTreatment(ctx, p.TreatmentID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !treatment.Active {
		return nil, s.conflict(RuleTreatmentInactive, "treatment is no longer offered")
	}

	// The buffer extends the blocked slot; only the effective end time is
	// persisted.
	end := p.StartTime.AddMinutes(treatment.DurationMinutes + provider.BufferTimeMinutes)

	day := providers.BusinessWeekday(p.Date.Weekday())
	windows, err := s.directory.WindowsFor(ctx, p.ProviderID, day)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !insideAnyWindow(windows, p.StartTime, end) {
		return nil, s.conflict(RuleOutsideAvailability,
			fmt.Sprintf("%s-%s is outside provider hours", p.StartTime, end))
	}

	taken, err := s.store.SlotTaken(ctx, p.ProviderID, p.Date, p.StartTime)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if taken {
		return nil, s.conflict(RuleSlotTaken, "slot already booked for provider")
	}

	if max, ok, err := s.directory.MaxPerDay(ctx, p.ProviderID, p.TreatmentID); err != nil {
		span.RecordError(err)
		return nil, err
	} else if ok {
		count, err := s.store.CountSameDayTreatment(ctx, p.ProviderID, p.TreatmentID, p.Date)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		if count >= max {
			return nil, s.conflict(RuleDailyLimit,
				fmt.Sprintf("provider already has %d of %d sessions that day", count, max))
		}
	}

	treatmentID := p.TreatmentID
	appt := &Appointment{
		ProviderID:      p.ProviderID,
		ClientID:        p.ClientID,
		TreatmentID:     &treatmentID,
		Date:            p.Date,
		StartTime:       p.StartTime,
		EndTime:         end,
		DurationMinutes: treatment.DurationMinutes,
		Status:          StatusScheduled,
		Notes:           p.Notes,
		BookingID:       p.BookingID,
		CreatedBy:       p.CreatedBy,
	}
	created, err := s.store.Insert(ctx, appt)
	if err != nil {
		// A racing request may have taken the slot between the check and the
		// insert; the repository translates the constraint violation.
		if IsConflict(err) {
			s.metrics.ObserveConflict(RuleSlotTaken)
		}
		span.RecordError(err)
		return nil, err
	}

	s.metrics.ObserveAppointment(string(StatusScheduled))
	s.logger.Info("appointment created",
		"appointment_id", created.ID,
		"provider_id", p.ProviderID,
		"date", p.Date.Format("2006-01-02"),
		"start", p.StartTime.String(),
	)
	return created, nil
}

// Transition applies a lifecycle move. Terminal states admit no transition.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, next Status, by uuid.UUID) (*Appointment, error) {
	ctx, span := tracer.Start(ctx, "scheduling.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("portal.appointment_id", id.String()),
		attribute.String("portal.next_status", string(next)),
	)

	if !next.Valid() {
		return nil, ErrUnknownStatus
	}

	appt, err := s.store.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if !appt.Status.CanTransitionTo(next) {
		return nil, &InvalidTransitionError{From: appt.Status, To: next}
	}

	if err := s.store.UpdateStatus(ctx, id, next, by); err != nil {
		span.RecordError(err)
		return nil, err
	}
	appt.Status = next

	if next == StatusCompleted {
		s.recordVisit(ctx, appt)
	}

	s.metrics.ObserveAppointment(string(next))
	s.logger.Info("appointment transitioned", "appointment_id", id, "status", next)
	return appt, nil
}

// ListForProviderDay returns the provider's schedule for one date.
func (s *Service) ListForProviderDay(ctx context.Context, providerID uuid.UUID, date time.Time) ([]*Appointment, error) {
	return s.store.ListForProviderDay(ctx, providerID, date)
}

// Get returns a single appointment.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.store.GetByID(ctx, id)
}

// recordVisit bumps the client's counters. Failures are logged and swallowed:
// the completion already happened.
func (s *Service) recordVisit(ctx context.Context, appt *Appointment) {
	if s.visits == nil {
		return
	}
	var amountCents int64
	if appt.TreatmentID != nil && s.treatments != nil {
		if treatment, err := s.treatments.GetTreatment(ctx, *appt.TreatmentID); err == nil {
			amountCents = treatment.PriceCents
		}
	}
	if err := s.visits.RecordVisit(ctx, appt.ClientID, appt.Date, amountCents); err != nil {
		s.logger.Error("failed to record client visit", "error", err, "client_id", appt.ClientID)
	}
}

func (s *Service) conflict(rule, detail string) error {
	s.metrics.ObserveConflict(rule)
	return &ConflictError{Rule: rule, Detail: detail}
}

func insideAnyWindow(windows []*providers.Availability, start, end providers.TimeOfDay) bool {
	for _, w := range windows {
		if start >= w.StartTime && end <= w.EndTime {
			return true
		}
	}
	return false
}
