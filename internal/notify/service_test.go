package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/toughlovemassage/portal/internal/clients"
	"github.com/toughlovemassage/portal/internal/intake"
	"github.com/toughlovemassage/portal/internal/observability/metrics"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

type stubMailbox struct {
	emails []string
	err    error
}

func (s *stubMailbox) NotificationEmails(ctx context.Context) ([]string, error) {
	return s.emails, s.err
}

func newTestNotify(sender *recordingSender, mailbox *stubMailbox, adminEmail string) *Service {
	m := metrics.NewBookingMetrics(prometheus.NewRegistry())
	return NewService(sender, mailbox, adminEmail, m, nil)
}

func TestBookingReceivedFansOutToProvidersAndClient(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestNotify(sender, &stubMailbox{emails: []string{"dana@studio.test", "kim@studio.test"}}, "")

	in := &intake.Intake{ID: uuid.New(), BookingID: "FS-1001"}
	client := &clients.Client{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}

	if err := svc.BookingReceived(context.Background(), in, client); err != nil {
		t.Fatalf("BookingReceived: %v", err)
	}
	if len(sender.sent) != 3 {
		t.Fatalf("expected 2 provider emails + 1 client ack, got %d", len(sender.sent))
	}
	last := sender.sent[len(sender.sent)-1]
	if last.To != "jane@example.com" || !strings.Contains(last.Subject, "Received") {
		t.Fatalf("unexpected client ack: %+v", last)
	}
}

func TestBookingReceivedWithoutBookingIDShowsPending(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestNotify(sender, &stubMailbox{emails: []string{"dana@studio.test"}}, "")

	in := &intake.Intake{ID: uuid.New()}
	client := &clients.Client{Name: "Jane", Email: "jane@example.com"}
	if err := svc.BookingReceived(context.Background(), in, client); err != nil {
		t.Fatalf("BookingReceived: %v", err)
	}
	if !strings.Contains(sender.sent[0].Body, "Pending") {
		t.Fatalf("provider email should show Pending booking id: %q", sender.sent[0].Body)
	}
}

func TestIntakeConfirmedGoesToClient(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestNotify(sender, nil, "")

	in := &intake.Intake{ID: uuid.New(), BookingID: "FS-2002", Confirmed: true}
	client := &clients.Client{Name: "Jane", Email: "jane@example.com"}
	if err := svc.IntakeConfirmed(context.Background(), in, client); err != nil {
		t.Fatalf("IntakeConfirmed: %v", err)
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "jane@example.com" {
		t.Fatalf("expected one email to the client, got %+v", sender.sent)
	}
	if !strings.Contains(sender.sent[0].Body, "FS-2002") {
		t.Fatalf("confirmation should carry the booking id: %q", sender.sent[0].Body)
	}
}

func TestGiftCardFormatsAmount(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestNotify(sender, nil, "")

	if err := svc.GiftCard(context.Background(), "friend@example.com", "Sam", "Enjoy!", 7500); err != nil {
		t.Fatalf("GiftCard: %v", err)
	}
	if !strings.Contains(sender.sent[0].Body, "$75.00") {
		t.Fatalf("expected dollar amount in body: %q", sender.sent[0].Body)
	}
	if !strings.Contains(sender.sent[0].HTML, "Enjoy!") {
		t.Fatalf("expected personal message in HTML: %q", sender.sent[0].HTML)
	}
}

func TestApplicationReceivedNotifiesAdminAndApplicant(t *testing.T) {
	sender := &recordingSender{}
	svc := newTestNotify(sender, nil, "owner@studio.test")

	if err := svc.ApplicationReceived(context.Background(), "Alex Reyes", "alex@example.com"); err != nil {
		t.Fatalf("ApplicationReceived: %v", err)
	}
	if len(sender.sent) != 2 {
		t.Fatalf("expected admin + applicant emails, got %d", len(sender.sent))
	}
	if sender.sent[0].To != "owner@studio.test" || sender.sent[1].To != "alex@example.com" {
		t.Fatalf("unexpected recipients: %+v", sender.sent)
	}
}

func TestSendFailureIsReturnedNotPanicked(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	svc := newTestNotify(sender, nil, "")

	in := &intake.Intake{ID: uuid.New()}
	client := &clients.Client{Name: "Jane", Email: "jane@example.com"}
	if err := svc.IntakeConfirmed(context.Background(), in, client); err == nil {
		t.Fatal("expected the sender error to surface")
	}
}
