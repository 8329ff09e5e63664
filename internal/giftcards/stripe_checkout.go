package giftcards

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/toughlovemassage/portal/pkg/logging"
)

var tracer = otel.Tracer("portal.internal.giftcards")

// StripeCheckoutService creates Stripe Checkout Sessions for gift card
// purchases over the raw REST API.
type StripeCheckoutService struct {
	secretKey     string
	publicBaseURL string
	baseURL       string
	apiVersion    string
	httpClient    *http.Client
	logger        *logging.Logger
	dryRun        bool
}

// NewStripeCheckoutService creates a new Stripe checkout service.
// publicBaseURL is the externally reachable origin of this portal, used to
// build the success and cancel URLs.
func NewStripeCheckoutService(secretKey, publicBaseURL string, logger *logging.Logger) *StripeCheckoutService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StripeCheckoutService{
		secretKey:     secretKey,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		baseURL:       "https://api.stripe.com",
		apiVersion:    "2024-12-18.acacia",
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        logger,
	}
}

// WithBaseURL overrides the Stripe API base URL (for testing).
func (s *StripeCheckoutService) WithBaseURL(baseURL string) *StripeCheckoutService {
	if baseURL != "" {
		s.baseURL = strings.TrimRight(baseURL, "/")
	}
	return s
}

// WithDryRun enables dry-run mode (returns fake URLs without calling Stripe).
func (s *StripeCheckoutService) WithDryRun(enabled bool) *StripeCheckoutService {
	s.dryRun = enabled
	return s
}

// Configured reports whether a usable secret key is present. Without one the
// purchase flow falls back to direct fulfillment.
func (s *StripeCheckoutService) Configured() bool {
	return s != nil && s.secretKey != ""
}

// CheckoutParams describe one gift card purchase.
type CheckoutParams struct {
	AmountCents    int64
	RecipientEmail string
	SenderName     string
	Message        string
}

// CheckoutResponse carries the redirect URL the buyer is sent to.
type CheckoutResponse struct {
	URL        string `json:"url"`
	ProviderID string `json:"provider_id"`
}

// CreateCheckoutSession builds a payment session for the gift card. The
// purchase details ride in the session metadata and are echoed back on the
// success URL, which the return handler reads to fulfill the card.
func (s *StripeCheckoutService) CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutResponse, error) {
	ctx, span := tracer.Start(ctx, "giftcards.create_checkout_session")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("portal.amount_cents", params.AmountCents),
		attribute.String("portal.recipient", params.RecipientEmail),
	)

	if s.dryRun {
		fakeID := "cs_dryrun_" + uuid.New().String()[:8]
		s.logger.Info("stripe dry run: skipping checkout session creation",
			"recipient", params.RecipientEmail, "amount_cents", params.AmountCents)
		return &CheckoutResponse{
			URL:        fmt.Sprintf("https://checkout.stripe.com/dry-run/%s", fakeID),
			ProviderID: fakeID,
		}, nil
	}

	dollars := params.AmountCents / 100

	successURL := fmt.Sprintf("%s/gift-cards/return?success=true&amount=%d&email=%s&message=%s&sender=%s",
		s.publicBaseURL, params.AmountCents,
		url.QueryEscape(params.RecipientEmail),
		url.QueryEscape(params.Message),
		url.QueryEscape(params.SenderName))
	cancelURL := s.publicBaseURL + "/gift-cards"

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", fmt.Sprintf("%d", params.AmountCents))
	form.Set("line_items[0][price_data][product_data][name]", fmt.Sprintf("Tough Love Massage Gift Card - $%d", dollars))
	form.Set("line_items[0][price_data][product_data][description]", fmt.Sprintf("Gift card for %s", params.RecipientEmail))
	form.Set("line_items[0][quantity]", "1")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("metadata[recipient_email]", params.RecipientEmail)
	form.Set("metadata[message]", params.Message)
	form.Set("metadata[sender_name]", params.SenderName)

	apiURL := s.baseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("giftcards: stripe request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Stripe-Version", s.apiVersion)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &ExternalServiceError{Service: "stripe", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return nil, &ExternalServiceError{
			Service: "stripe",
			Err:     fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	var parsed stripeCheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, &ExternalServiceError{Service: "stripe", Err: fmt.Errorf("decode: %w", err)}
	}
	if parsed.URL == "" {
		return nil, &ExternalServiceError{Service: "stripe", Err: fmt.Errorf("response missing checkout url")}
	}

	s.logger.Info("gift card checkout session created",
		"provider_id", parsed.ID, "amount_cents", params.AmountCents)
	return &CheckoutResponse{URL: parsed.URL, ProviderID: parsed.ID}, nil
}

// stripeCheckoutSession is the subset of Stripe's Checkout Session we need.
type stripeCheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}
