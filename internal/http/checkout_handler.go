package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/payment"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/service"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/steps"
)

// CheckoutAPI is the slice of the checkout service the handlers need.
type CheckoutAPI interface {
	StartSession(ctx context.Context, customerID, affiliateCode string) (service.Session, error)
	GetSession(id string) (service.Session, error)
	UpdateCustomer(ctx context.Context, sessionID string, customer domain.CustomerInfo) error
	UpdateAddress(ctx context.Context, sessionID string, address domain.AddressInfo) error
	UpdateDelivery(ctx context.Context, sessionID string, delivery domain.DeliveryInfo) error
	SetTip(ctx context.Context, sessionID string, tip domain.TipState) error
	ApplyDiscount(ctx context.Context, sessionID, code string) (*domain.AppliedDiscount, error)
	RemoveDiscount(ctx context.Context, sessionID string) error
	ConfirmStep(sessionID string, step steps.Step) (bool, error)
	EditStep(sessionID string, step steps.Step) error
	StepStates(sessionID string) (domain.ConfirmedSteps, error)
	Totals(ctx context.Context, sessionID string) (domain.PricingSnapshot, error)
	Pay(ctx context.Context, sessionID string) (*payment.Receipt, error)
}

type CheckoutHandler struct {
	svc     CheckoutAPI
	timeout time.Duration
}

func NewCheckoutHandler(svc CheckoutAPI, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{svc: svc, timeout: timeout}
}

type StartSessionRequestDTO struct {
	CustomerID    string `json:"customer_id"`
	AffiliateCode string `json:"affiliate_code,omitempty"`
}

type ApplyDiscountRequestDTO struct {
	Code string `json:"code"`
}

type ConfirmStepResponseDTO struct {
	Confirmed bool                  `json:"confirmed"`
	Steps     domain.ConfirmedSteps `json:"steps"`
}

// POST /api/v1/checkout/sessions
func (h *CheckoutHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req StartSessionRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.CustomerID == "" {
		respondError(w, http.StatusBadRequest, "missing_customer_id", "customer_id is required")
		return
	}

	sess, err := h.svc.StartSession(ctx, req.CustomerID, req.AffiliateCode)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, sess)
}

// GET /api/v1/checkout/sessions/{sessionID}
func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.svc.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, sess)
}

// GET /api/v1/checkout/sessions/{sessionID}/totals
func (h *CheckoutHandler) Totals(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	totals, err := h.svc.Totals(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, totals)
}

// PUT /api/v1/checkout/sessions/{sessionID}/customer
func (h *CheckoutHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var customer domain.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&customer); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.svc.UpdateCustomer(ctx, chi.URLParam(r, "sessionID"), customer); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// PUT /api/v1/checkout/sessions/{sessionID}/address
func (h *CheckoutHandler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var address domain.AddressInfo
	if err := json.NewDecoder(r.Body).Decode(&address); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.svc.UpdateAddress(ctx, chi.URLParam(r, "sessionID"), address); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, address)
}

// PUT /api/v1/checkout/sessions/{sessionID}/delivery
func (h *CheckoutHandler) UpdateDelivery(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var delivery domain.DeliveryInfo
	if err := json.NewDecoder(r.Body).Decode(&delivery); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.svc.UpdateDelivery(ctx, chi.URLParam(r, "sessionID"), delivery); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, delivery)
}

// PUT /api/v1/checkout/sessions/{sessionID}/tip
func (h *CheckoutHandler) SetTip(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var tip domain.TipState
	if err := json.NewDecoder(r.Body).Decode(&tip); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.svc.SetTip(ctx, chi.URLParam(r, "sessionID"), tip); err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, tip)
}

// POST /api/v1/checkout/sessions/{sessionID}/discount
func (h *CheckoutHandler) ApplyDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req ApplyDiscountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Code == "" {
		respondError(w, http.StatusBadRequest, "missing_code", "code is required")
		return
	}

	applied, err := h.svc.ApplyDiscount(ctx, chi.URLParam(r, "sessionID"), req.Code)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, applied)
}

// DELETE /api/v1/checkout/sessions/{sessionID}/discount
func (h *CheckoutHandler) RemoveDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if err := h.svc.RemoveDiscount(ctx, chi.URLParam(r, "sessionID")); err != nil {
		handleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /api/v1/checkout/sessions/{sessionID}/steps/{step}/confirm
func (h *CheckoutHandler) ConfirmStep(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	step := steps.Step(chi.URLParam(r, "step"))

	confirmed, err := h.svc.ConfirmStep(sessionID, step)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	states, err := h.svc.StepStates(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ConfirmStepResponseDTO{Confirmed: confirmed, Steps: states})
}

// POST /api/v1/checkout/sessions/{sessionID}/steps/{step}/edit
func (h *CheckoutHandler) EditStep(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if err := h.svc.EditStep(sessionID, steps.Step(chi.URLParam(r, "step"))); err != nil {
		handleServiceError(w, err)
		return
	}

	states, err := h.svc.StepStates(sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, ConfirmStepResponseDTO{Confirmed: false, Steps: states})
}

// GET /api/v1/checkout/sessions/{sessionID}/steps
func (h *CheckoutHandler) StepStates(w http.ResponseWriter, r *http.Request) {
	states, err := h.svc.StepStates(chi.URLParam(r, "sessionID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, states)
}

// POST /api/v1/checkout/sessions/{sessionID}/pay
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	receipt, err := h.svc.Pay(ctx, chi.URLParam(r, "sessionID"))
	if err != nil {
		handleServiceError(w, err)
		return
	}

	log.Printf("payment completed request_id=%s intent=%s", getRequestID(r.Context()), receipt.PaymentIntentID)
	respondJSON(w, http.StatusOK, receipt)
}
