// Package api exposes the fulfillment core over HTTP. Authentication is
// handled upstream; the authenticated customer id arrives in the
// X-Customer-ID header.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/pourcart/internal/domain/catalog"
	"github.com/xenking/pourcart/internal/domain/credit"
	"github.com/xenking/pourcart/internal/domain/order"
	"github.com/xenking/pourcart/internal/domain/payment"
)

// customerHeader carries the authenticated customer id.
const customerHeader = "X-Customer-ID"

// OrderService is the settlement surface the API needs. Implemented by
// order.Service.
type OrderService interface {
	Settle(ctx context.Context, req order.SettleRequest) (*order.SettleResult, error)
	Cancel(ctx context.Context, orderID string) (*credit.StoreCredit, error)
}

// CreditReader is the read-only ledger surface. Implemented by credit.Ledger.
type CreditReader interface {
	Balance(ctx context.Context, customerID string) (*credit.StoreCredit, error)
	IsExpired(ctx context.Context, customerID string) (bool, error)
}

// Handler serves the JSON API, delegating business logic to the order
// service and the read repositories.
type Handler struct {
	foods    catalog.Repository
	orders   order.Repository
	service  OrderService
	ledger   CreditReader
	payments payment.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	foods catalog.Repository,
	orders order.Repository,
	service OrderService,
	ledger CreditReader,
	payments payment.Repository,
) *Handler {
	return &Handler{
		foods:    foods,
		orders:   orders,
		service:  service,
		ledger:   ledger,
		payments: payments,
	}
}

// Routes mounts all API endpoints on a chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/foods", h.listFoods)
	r.Get("/foods/{id}", h.getFood)

	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Post("/orders/{id}/cancel", h.cancelOrder)

	r.Get("/credit", h.getCredit)
	r.Get("/credit/expiry", h.getCreditExpiry)

	r.Get("/payments", h.listPayments)

	return r
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Code: status, Message: msg})
}

// customerID extracts the authenticated customer, writing a 400 when the
// header is absent.
func customerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(customerHeader)
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing "+customerHeader+" header")
		return "", false
	}
	return id, true
}

func logError(r *http.Request, msg string, err error) {
	zctx.From(r.Context()).Error(msg, zap.Error(err))
}
