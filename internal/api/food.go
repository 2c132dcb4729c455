package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"

	"github.com/xenking/pourcart/internal/domain/catalog"
)

type foodResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	BasePrice     float64 `json:"basePrice"`
	PricePerLiter float64 `json:"pricePerLiter"`
}

func (h *Handler) listFoods(w http.ResponseWriter, r *http.Request) {
	foods, err := h.foods.List(r.Context())
	if err != nil {
		logError(r, "list foods", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := make([]foodResponse, len(foods))
	for i, f := range foods {
		resp[i] = toFoodResponse(f)
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) getFood(w http.ResponseWriter, r *http.Request) {
	f, err := h.foods.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			respondError(w, http.StatusNotFound, "food item not found")
			return
		}
		logError(r, "get food", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	respondJSON(w, http.StatusOK, toFoodResponse(*f))
}

func toFoodResponse(f catalog.FoodItem) foodResponse {
	return foodResponse{
		ID:            f.ID,
		Title:         f.Title,
		Description:   f.Description,
		BasePrice:     f.BasePrice.InexactFloat64(),
		PricePerLiter: f.PricePerLiter.InexactFloat64(),
	}
}
