package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/cart"
)

// CartAPI is the cart slice of the checkout service.
type CartAPI interface {
	Cart(ctx context.Context, customerID string) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, customerID, itemID string, quantity int) error
}

type CartHandler struct {
	svc     CartAPI
	timeout time.Duration
}

func NewCartHandler(svc CartAPI, timeout time.Duration) *CartHandler {
	return &CartHandler{svc: svc, timeout: timeout}
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// GET /api/v1/cart/{customerID}
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	c, err := h.svc.Cart(ctx, chi.URLParam(r, "customerID"))
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			respondJSON(w, http.StatusOK, domain.Cart{
				CustomerID: chi.URLParam(r, "customerID"),
				Items:      []domain.CartItem{},
			})
			return
		}
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// PUT /api/v1/cart/{customerID}/items/{itemID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 0 and 99")
		return
	}

	err := h.svc.UpdateQuantity(ctx, chi.URLParam(r, "customerID"), chi.URLParam(r, "itemID"), req.Quantity)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) || errors.Is(err, cart.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "not_found", err.Error())
			return
		}
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
