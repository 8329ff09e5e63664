package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toughlovemassage/portal/internal/giftcards"
)

type recordedGiftCard struct {
	recipient string
	sender    string
	message   string
	amount    int64
}

type recordingGiftCardMailer struct {
	sent []recordedGiftCard
}

func (m *recordingGiftCardMailer) GiftCard(ctx context.Context, recipientEmail, senderName, message string, amountCents int64) error {
	m.sent = append(m.sent, recordedGiftCard{
		recipient: recipientEmail,
		sender:    senderName,
		message:   message,
		amount:    amountCents,
	})
	return nil
}

func TestCheckoutWithoutPaymentProviderFulfillsDirectly(t *testing.T) {
	mailer := &recordingGiftCardMailer{}
	h := NewGiftCardsHandler(giftcards.NewService(nil, mailer, nil), nil)

	body := `{"amount_cents":7500,"recipient_email":"pat@example.com","sender_name":"Jo","message":"Happy birthday"}`
	req := httptest.NewRequest(http.MethodPost, "/gift-cards/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var result giftcards.PurchaseResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Fulfilled)
	assert.Empty(t, result.CheckoutURL)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "pat@example.com", mailer.sent[0].recipient)
	assert.Equal(t, int64(7500), mailer.sent[0].amount)
}

func TestCheckoutRejectsMissingRecipient(t *testing.T) {
	mailer := &recordingGiftCardMailer{}
	h := NewGiftCardsHandler(giftcards.NewService(nil, mailer, nil), nil)

	req := httptest.NewRequest(http.MethodPost, "/gift-cards/checkout", strings.NewReader(`{"amount_cents":5000}`))
	rec := httptest.NewRecorder()
	h.Checkout(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, mailer.sent)
}

func TestReturnFulfillsFromQueryParams(t *testing.T) {
	mailer := &recordingGiftCardMailer{}
	h := NewGiftCardsHandler(giftcards.NewService(nil, mailer, nil), nil)

	q := url.Values{}
	q.Set("success", "true")
	q.Set("amount", "10000")
	q.Set("email", "pat@example.com")
	q.Set("sender", "Jo")
	q.Set("message", "enjoy")
	req := httptest.NewRequest(http.MethodGet, "/gift-cards/return?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	h.Return(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, int64(10000), mailer.sent[0].amount)
	assert.Equal(t, "Jo", mailer.sent[0].sender)
}

func TestReturnCancelledSendsNothing(t *testing.T) {
	mailer := &recordingGiftCardMailer{}
	h := NewGiftCardsHandler(giftcards.NewService(nil, mailer, nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/gift-cards/return?success=false", nil)
	rec := httptest.NewRecorder()
	h.Return(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, mailer.sent)
}
