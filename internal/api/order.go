package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/xenking/pourcart/internal/domain/customer"
	"github.com/xenking/pourcart/internal/domain/order"
	"github.com/xenking/pourcart/internal/domain/payment"
	"github.com/xenking/pourcart/internal/domain/pricing"
)

type orderItemRequest struct {
	FoodID   string `json:"foodId"`
	Quantity int    `json:"quantity"`
}

type createOrderRequest struct {
	Items        []orderItemRequest `json:"items"`
	PaymentToken string             `json:"paymentToken,omitempty"`
}

type orderLineResponse struct {
	FoodID   string  `json:"foodId"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderResponse struct {
	ID            string              `json:"id"`
	Lines         []orderLineResponse `json:"lines"`
	TotalPrice    float64             `json:"totalPrice"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	CreditApplied float64             `json:"creditApplied,omitempty"`
	PaymentAmount *float64            `json:"paymentAmount,omitempty"`
	Shipment      *shipmentResponse   `json:"shipment,omitempty"`
}

type shipmentResponse struct {
	ID                string    `json:"id"`
	Carrier           string    `json:"carrier"`
	TrackingNumber    string    `json:"trackingNumber"`
	EstimatedDelivery time.Time `json:"estimatedDelivery"`
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	custID, ok := customerID(w, r)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	items := make([]pricing.CartItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = pricing.CartItem{FoodID: item.FoodID, Quantity: item.Quantity}
	}

	result, err := h.service.Settle(r.Context(), order.SettleRequest{
		CustomerID:   custID,
		Items:        items,
		PaymentToken: req.PaymentToken,
	})
	if err != nil {
		h.mapOrderError(w, r, err)
		return
	}

	resp := toOrderResponse(*result.Order)
	resp.CreditApplied = result.CreditApplied.InexactFloat64()
	if result.Payment != nil {
		amount := result.Payment.Amount.InexactFloat64()
		resp.PaymentAmount = &amount
	}
	resp.Shipment = &shipmentResponse{
		ID:                result.Shipment.ID,
		Carrier:           result.Shipment.Carrier,
		TrackingNumber:    result.Shipment.TrackingNumber,
		EstimatedDelivery: result.Shipment.EstimatedDelivery,
	}

	respondJSON(w, http.StatusCreated, resp)
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	custID, ok := customerID(w, r)
	if !ok {
		return
	}

	orders, err := h.orders.ListByCustomer(r.Context(), custID)
	if err != nil {
		logError(r, "list orders", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, o := range orders {
		resp[i] = toOrderResponse(o)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	custID, ok := customerID(w, r)
	if !ok {
		return
	}

	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil || o.CustomerID != custID {
		if err != nil && !errors.Is(err, order.ErrNotFound) {
			logError(r, "get order", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondError(w, http.StatusNotFound, "order not found")
		return
	}

	respondJSON(w, http.StatusOK, toOrderResponse(*o))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	custID, ok := customerID(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	o, err := h.orders.GetByID(r.Context(), id)
	if err != nil || o.CustomerID != custID {
		if err != nil && !errors.Is(err, order.ErrNotFound) {
			logError(r, "cancel order", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		respondError(w, http.StatusNotFound, "order not found")
		return
	}

	issued, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		h.mapOrderError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, toCreditResponse(issued))
}

func toOrderResponse(o order.Order) orderResponse {
	lines := make([]orderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		lines[i] = orderLineResponse{
			FoodID:   l.FoodID,
			Quantity: l.Quantity,
			Price:    l.Price.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:         o.ID,
		Lines:      lines,
		TotalPrice: o.TotalPrice.InexactFloat64(),
		Status:     string(o.Status),
		CreatedAt:  o.CreatedAt,
	}
}

// mapOrderError converts domain errors to HTTP error responses. Gateway
// and persistence failures are retryable; not-found and invalid-state
// outcomes are not.
func (h *Handler) mapOrderError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, order.ErrEmptyItems):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, order.ErrNotFound):
		respondError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, customer.ErrNotFound):
		respondError(w, http.StatusNotFound, "customer not found")
	case errors.Is(err, order.ErrNotCancellable):
		respondError(w, http.StatusConflict, "order cannot be cancelled")
	default:
		var (
			iqErr  *order.InvalidQuantityError
			infErr *pricing.ItemNotFoundError
			gwErr  *payment.GatewayError
		)
		switch {
		case errors.As(err, &iqErr):
			respondError(w, http.StatusUnprocessableEntity, iqErr.Error())
		case errors.As(err, &infErr):
			respondError(w, http.StatusUnprocessableEntity, infErr.Error())
		case errors.As(err, &gwErr):
			respondError(w, http.StatusPaymentRequired, "payment failed")
		default:
			logError(r, "order operation", err)
			respondError(w, http.StatusInternalServerError, "internal error")
		}
	}
}
