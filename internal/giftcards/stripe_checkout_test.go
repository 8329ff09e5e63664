package giftcards

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestStripeCheckoutService_CreateCheckoutSession(t *testing.T) {
	var gotForm map[string][]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/v1/checkout/sessions" {
			t.Errorf("expected path /v1/checkout/sessions, got %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("expected auth header, got %q", got)
		}
		if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
			t.Errorf("expected form-urlencoded content type, got %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		gotForm = r.PostForm

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"id":  "cs_test_abc123",
			"url": "https://checkout.stripe.com/pay/cs_test_abc123",
		})
	}))
	defer srv.Close()

	svc := NewStripeCheckoutService("sk_test_123", "https://portal.example.com", nil).
		WithBaseURL(srv.URL)

	resp, err := svc.CreateCheckoutSession(context.Background(), CheckoutParams{
		AmountCents:    10000,
		RecipientEmail: "friend@example.com",
		SenderName:     "Sam",
		Message:        "Happy birthday",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.URL != "https://checkout.stripe.com/pay/cs_test_abc123" {
		t.Fatalf("unexpected URL: %s", resp.URL)
	}
	if resp.ProviderID != "cs_test_abc123" {
		t.Fatalf("unexpected provider ID: %s", resp.ProviderID)
	}

	if got := gotForm["line_items[0][price_data][unit_amount]"]; len(got) != 1 || got[0] != "10000" {
		t.Fatalf("unexpected unit_amount: %v", got)
	}
	if got := gotForm["metadata[recipient_email]"]; len(got) != 1 || got[0] != "friend@example.com" {
		t.Fatalf("unexpected recipient metadata: %v", got)
	}
	success := gotForm["success_url"]
	if len(success) != 1 || !strings.Contains(success[0], "success=true") ||
		!strings.Contains(success[0], "amount=10000") {
		t.Fatalf("success url must echo the purchase: %v", success)
	}
}

func TestStripeCheckoutService_APIErrorIsExternal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":{"message":"card declined"}}`))
	}))
	defer srv.Close()

	svc := NewStripeCheckoutService("sk_test_123", "https://portal.example.com", nil).
		WithBaseURL(srv.URL)

	_, err := svc.CreateCheckoutSession(context.Background(), CheckoutParams{
		AmountCents:    5000,
		RecipientEmail: "friend@example.com",
	})
	if !IsExternal(err) {
		t.Fatalf("expected ExternalServiceError, got %v", err)
	}
}

func TestStripeCheckoutService_DryRun(t *testing.T) {
	svc := NewStripeCheckoutService("sk_test_123", "https://portal.example.com", nil).
		WithDryRun(true)

	resp, err := svc.CreateCheckoutSession(context.Background(), CheckoutParams{
		AmountCents:    5000,
		RecipientEmail: "friend@example.com",
	})
	if err != nil {
		t.Fatalf("dry run should not fail: %v", err)
	}
	if !strings.Contains(resp.URL, "dry-run") {
		t.Fatalf("expected dry-run URL, got %s", resp.URL)
	}
}
