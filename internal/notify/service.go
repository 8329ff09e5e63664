package notify

import (
	"context"
	"fmt"

	"github.com/toughlovemassage/portal/internal/clients"
	"github.com/toughlovemassage/portal/internal/intake"
	"github.com/toughlovemassage/portal/internal/observability/metrics"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// ProviderMailbox lists the notification addresses of active providers.
type ProviderMailbox interface {
	NotificationEmails(ctx context.Context) ([]string, error)
}

// Service builds and sends the portal's transactional emails. Every send is
// best-effort: callers log failures and move on.
type Service struct {
	email      EmailSender
	providers  ProviderMailbox
	adminEmail string
	metrics    *metrics.BookingMetrics
	logger     *logging.Logger
}

// NewService creates the notification service.
func NewService(email EmailSender, providers ProviderMailbox, adminEmail string, m *metrics.BookingMetrics, logger *logging.Logger) *Service {
	if email == nil {
		email = NewStubEmailSender(logger)
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:      email,
		providers:  providers,
		adminEmail: adminEmail,
		metrics:    m,
		logger:     logger,
	}
}

// BookingReceived alerts every active provider about a new intake and sends
// the client a pending-confirmation acknowledgment.
func (s *Service) BookingReceived(ctx context.Context, in *intake.Intake, client *clients.Client) error {
	var firstErr error

	if s.providers != nil {
		addresses, err := s.providers.NotificationEmails(ctx)
		if err != nil {
			s.logger.Error("provider mailbox lookup failed", "error", err)
			firstErr = err
		}
		bookingRef := in.BookingID
		if bookingRef == "" {
			bookingRef = "Pending"
		}
		for _, addr := range addresses {
			msg := EmailMessage{
				To:      addr,
				Subject: "New Booking Request - Tough Love Massage",
				Body: fmt.Sprintf("New booking request from %s (%s). Booking ID: %s. Log in to the portal to review.",
					client.Name, client.Email, bookingRef),
				HTML: fmt.Sprintf(`<h2 style="color: #2c7a7b;">New Booking Request</h2>
<p><strong>Client:</strong> %s (%s)</p>
<p><strong>Booking ID:</strong> %s</p>
<p>Log in to the provider portal to review the intake form and confirm the appointment.</p>`,
					client.Name, client.Email, bookingRef),
			}
			if err := s.send(ctx, "booking_provider", msg); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	ack := EmailMessage{
		To:      client.Email,
		ToName:  client.Name,
		Subject: "Booking Request Received - Tough Love Massage",
		Body: fmt.Sprintf("Dear %s, thank you for choosing Tough Love Massage. We've received your booking request and intake form. You'll receive a confirmation email once your appointment has been reviewed.",
			client.Name),
		HTML: fmt.Sprintf(`<h2 style="color: #2c7a7b;">Booking Received!</h2>
<p>Dear %s,</p>
<p>Thank you for choosing Tough Love Massage. We've received your booking request and intake form.</p>
<p><strong>Pending Confirmation</strong> &mdash; our team is reviewing your information and will confirm your appointment shortly.</p>
<p><em>The Tough Love Massage Team</em></p>`, client.Name),
	}
	if err := s.send(ctx, "booking_client", ack); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// IntakeConfirmed tells the client their appointment was approved.
func (s *Service) IntakeConfirmed(ctx context.Context, in *intake.Intake, client *clients.Client) error {
	bookingRef := in.BookingID
	if bookingRef == "" {
		bookingRef = "TBD"
	}
	msg := EmailMessage{
		To:      client.Email,
		ToName:  client.Name,
		Subject: "Appointment Confirmed - Tough Love Massage",
		Body: fmt.Sprintf("Dear %s, your appointment has been confirmed. Booking ID: %s. We look forward to seeing you.",
			client.Name, bookingRef),
		HTML: fmt.Sprintf(`<h2 style="color: #2c7a7b;">Appointment Confirmed</h2>
<p>Dear %s,</p>
<p>Your appointment has been reviewed and confirmed.</p>
<p style="margin: 5px 0;"><strong>Booking ID:</strong> %s</p>
<p>We look forward to seeing you!</p>
<p><em>The Tough Love Massage Team</em></p>`, client.Name, bookingRef),
	}
	return s.send(ctx, "intake_confirmed", msg)
}

// GiftCard delivers a purchased gift card to its recipient.
func (s *Service) GiftCard(ctx context.Context, recipientEmail, senderName, personalMessage string, amountCents int64) error {
	amount := fmt.Sprintf("$%.2f", float64(amountCents)/100)
	from := senderName
	if from == "" {
		from = "A friend"
	}
	body := fmt.Sprintf("%s sent you a %s gift card for Tough Love Massage!", from, amount)
	html := fmt.Sprintf(`<h2 style="color: #2c7a7b;">You've Received a Gift Card!</h2>
<p>%s sent you a <strong>%s</strong> gift card for Tough Love Massage.</p>`, from, amount)
	if personalMessage != "" {
		body += fmt.Sprintf(" Message: %s", personalMessage)
		html += fmt.Sprintf(`<blockquote style="border-left: 4px solid #2c7a7b; padding-left: 10px;">%s</blockquote>`, personalMessage)
	}
	html += `<p>Book your session any time &mdash; we look forward to seeing you.</p>
<p><em>The Tough Love Massage Team</em></p>`

	msg := EmailMessage{
		To:      recipientEmail,
		Subject: "You've Received a Gift Card - Tough Love Massage",
		Body:    body,
		HTML:    html,
	}
	return s.send(ctx, "gift_card", msg)
}

// ApplicationReceived notifies the admin about a new job application and
// acknowledges the applicant.
func (s *Service) ApplicationReceived(ctx context.Context, applicantName, applicantEmail string) error {
	var firstErr error

	if s.adminEmail != "" {
		msg := EmailMessage{
			To:      s.adminEmail,
			Subject: "New Job Application - Tough Love Massage",
			Body:    fmt.Sprintf("New application from %s (%s). Log in to the portal to review.", applicantName, applicantEmail),
			HTML: fmt.Sprintf(`<h2 style="color: #2c7a7b;">New Job Application</h2>
<p><strong>Applicant:</strong> %s (%s)</p>
<p>Log in to the portal to review the application and resume.</p>`, applicantName, applicantEmail),
		}
		if err := s.send(ctx, "application_admin", msg); err != nil {
			firstErr = err
		}
	}

	ack := EmailMessage{
		To:      applicantEmail,
		ToName:  applicantName,
		Subject: "Application Received - Tough Love Massage",
		Body: fmt.Sprintf("Dear %s, thank you for applying to Tough Love Massage. We'll review your application and get back to you soon.",
			applicantName),
		HTML: fmt.Sprintf(`<h2 style="color: #2c7a7b;">Application Received</h2>
<p>Dear %s,</p>
<p>Thank you for applying to Tough Love Massage. We'll review your application and get back to you soon.</p>
<p><em>The Tough Love Massage Team</em></p>`, applicantName),
	}
	if err := s.send(ctx, "application_applicant", ack); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (s *Service) send(ctx context.Context, kind string, msg EmailMessage) error {
	if msg.To == "" {
		return nil
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.metrics.ObserveEmail(kind, "error")
		s.logger.Error("email send failed", "error", err, "kind", kind, "to", msg.To)
		return err
	}
	s.metrics.ObserveEmail(kind, "sent")
	return nil
}
