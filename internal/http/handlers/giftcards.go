package handlers

import (
	"net/http"
	"strconv"

	"github.com/toughlovemassage/portal/internal/giftcards"
	"github.com/toughlovemassage/portal/pkg/logging"
)

// GiftCardsHandler serves the public gift card purchase flow.
type GiftCardsHandler struct {
	service *giftcards.Service
	logger  *logging.Logger
}

// NewGiftCardsHandler creates the gift cards handler.
func NewGiftCardsHandler(service *giftcards.Service, logger *logging.Logger) *GiftCardsHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &GiftCardsHandler{service: service, logger: logger}
}

type giftCardCheckoutRequest struct {
	AmountCents    int64  `json:"amount_cents"`
	RecipientEmail string `json:"recipient_email"`
	SenderName     string `json:"sender_name"`
	Message        string `json:"message"`
}

// Checkout handles POST /gift-cards/checkout.
func (h *GiftCardsHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req giftCardCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	result, err := h.service.Purchase(r.Context(), giftcards.PurchaseParams{
		AmountCents:    req.AmountCents,
		RecipientEmail: req.RecipientEmail,
		SenderName:     req.SenderName,
		Message:        req.Message,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Return handles GET /gift-cards/return, the redirect target after payment.
// Fulfillment keys off the query parameters the redirect carries rather than
// a signed payment event, matching the live checkout configuration.
func (h *GiftCardsHandler) Return(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("success") != "true" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
		return
	}
	amount, err := strconv.ParseInt(q.Get("amount"), 10, 64)
	if err != nil || amount <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid amount"})
		return
	}
	params := giftcards.PurchaseParams{
		AmountCents:    amount,
		RecipientEmail: q.Get("email"),
		SenderName:     q.Get("sender"),
		Message:        q.Get("message"),
	}
	if err := h.service.Fulfill(r.Context(), params); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "fulfilled"})
}
