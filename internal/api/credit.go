package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"

	"github.com/xenking/pourcart/internal/domain/credit"
)

type creditResponse struct {
	Amount    float64    `json:"amount"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

type creditExpiryResponse struct {
	Expired bool `json:"expired"`
}

type paymentResponse struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	TransactionID string    `json:"transactionId"`
	Amount        float64   `json:"amount"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (h *Handler) getCredit(w http.ResponseWriter, r *http.Request) {
	custID, ok := customerID(w, r)
	if !ok {
		return
	}

	c, err := h.ledger.Balance(r.Context(), custID)
	if err != nil {
		if errors.Is(err, credit.ErrNoLedger) {
			respondError(w, http.StatusNotFound, "no store credit found")
			return
		}
		logError(r, "get store credit", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, toCreditResponse(c))
}

func (h *Handler) getCreditExpiry(w http.ResponseWriter, r *http.Request) {
	custID, ok := customerID(w, r)
	if !ok {
		return
	}

	expired, err := h.ledger.IsExpired(r.Context(), custID)
	if err != nil {
		if errors.Is(err, credit.ErrNoLedger) {
			respondError(w, http.StatusNotFound, "no store credit found")
			return
		}
		logError(r, "check credit expiry", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, creditExpiryResponse{Expired: expired})
}

func (h *Handler) listPayments(w http.ResponseWriter, r *http.Request) {
	custID, ok := customerID(w, r)
	if !ok {
		return
	}

	payments, err := h.payments.ListByCustomer(r.Context(), custID)
	if err != nil {
		logError(r, "list payments", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]paymentResponse, len(payments))
	for i, p := range payments {
		resp[i] = paymentResponse{
			ID:            p.ID,
			OrderID:       p.OrderID,
			TransactionID: p.TransactionID,
			Amount:        p.Amount.InexactFloat64(),
			Status:        p.Status,
			CreatedAt:     p.CreatedAt,
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

func toCreditResponse(c *credit.StoreCredit) creditResponse {
	return creditResponse{
		Amount:    c.Amount.InexactFloat64(),
		ExpiresAt: c.ExpiresAt,
	}
}
