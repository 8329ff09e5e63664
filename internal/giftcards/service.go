package giftcards

import (
	"context"
	"strings"

	"github.com/toughlovemassage/portal/pkg/logging"
)

// GiftCardMailer delivers the gift card email.
type GiftCardMailer interface {
	GiftCard(ctx context.Context, recipientEmail, senderName, message string, amountCents int64) error
}

// Service drives the gift card purchase flow.
type Service struct {
	checkout *StripeCheckoutService
	mailer   GiftCardMailer
	logger   *logging.Logger
}

// NewService wires the gift card service. checkout may be nil or
// unconfigured; purchases then fulfill directly without payment.
func NewService(checkout *StripeCheckoutService, mailer GiftCardMailer, logger *logging.Logger) *Service {
	if mailer == nil {
		panic("giftcards: mailer required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{checkout: checkout, mailer: mailer, logger: logger}
}

// PurchaseParams describe a purchase request.
type PurchaseParams struct {
	AmountCents    int64
	RecipientEmail string
	SenderName     string
	Message        string
}

// PurchaseResult is either a payment redirect or a directly fulfilled card.
type PurchaseResult struct {
	CheckoutURL string `json:"checkout_url,omitempty"`
	Fulfilled   bool   `json:"fulfilled"`
}

// Purchase validates the request and either opens a payment session or, when
// no payment provider is configured, sends the gift card immediately (demo
// mode).
func (s *Service) Purchase(ctx context.Context, p PurchaseParams) (*PurchaseResult, error) {
	if p.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	p.RecipientEmail = strings.TrimSpace(p.RecipientEmail)
	if p.RecipientEmail == "" {
		return nil, ErrRecipientRequired
	}
	if p.SenderName == "" {
		p.SenderName = "A Friend"
	}

	if s.checkout.Configured() {
		session, err := s.checkout.CreateCheckoutSession(ctx, CheckoutParams{
			AmountCents:    p.AmountCents,
			RecipientEmail: p.RecipientEmail,
			SenderName:     p.SenderName,
			Message:        p.Message,
		})
		if err != nil {
			return nil, err
		}
		return &PurchaseResult{CheckoutURL: session.URL}, nil
	}

	s.logger.Info("payment provider not configured, fulfilling gift card directly",
		"recipient", p.RecipientEmail, "amount_cents", p.AmountCents)
	if err := s.mailer.GiftCard(ctx, p.RecipientEmail, p.SenderName, p.Message, p.AmountCents); err != nil {
		return nil, err
	}
	return &PurchaseResult{Fulfilled: true}, nil
}

// Fulfill sends the gift card email after a completed payment. The return
// redirect carries the purchase details as query parameters and they are
// used as-is.
func (s *Service) Fulfill(ctx context.Context, p PurchaseParams) error {
	p.RecipientEmail = strings.TrimSpace(p.RecipientEmail)
	if p.AmountCents <= 0 || p.RecipientEmail == "" {
		return ErrInvalidAmount
	}
	if p.SenderName == "" {
		p.SenderName = "A Friend"
	}
	if err := s.mailer.GiftCard(ctx, p.RecipientEmail, p.SenderName, p.Message, p.AmountCents); err != nil {
		return err
	}
	s.logger.Info("gift card fulfilled", "recipient", p.RecipientEmail, "amount_cents", p.AmountCents)
	return nil
}
