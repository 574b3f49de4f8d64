package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/matthewtrundle/partyondelivery-checkout/internal/discount"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/payment"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, details string) {
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Code:    code,
		Details: details,
	})
}

// handleServiceError maps core errors onto HTTP statuses following the
// error taxonomy: field problems are 400s, declined cards 402, remote
// validation outages 502.
func handleServiceError(w http.ResponseWriter, err error) {
	var invalidCode *discount.InvalidCodeError
	var declined *payment.DeclinedError
	var outOfRange *payment.AmountOutOfRangeError

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, service.ErrInvalidTimeSlot),
		errors.Is(err, service.ErrInvalidStep),
		errors.Is(err, service.ErrNegativeTip):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.As(err, &invalidCode):
		respondError(w, http.StatusUnprocessableEntity, "invalid_discount_code", invalidCode.Error())
	case errors.Is(err, discount.ErrValidationUnavailable):
		respondError(w, http.StatusBadGateway, "discount_validation_unavailable", err.Error())
	case errors.As(err, &declined):
		// the processor's message goes through verbatim
		respondError(w, http.StatusPaymentRequired, "card_declined", declined.Message)
	case errors.Is(err, payment.ErrEmptyCart),
		errors.Is(err, payment.ErrIncompleteCustomer),
		errors.Is(err, payment.ErrIncompleteDelivery):
		respondError(w, http.StatusBadRequest, "payment_validation_failed", err.Error())
	case errors.Is(err, payment.ErrAmountMismatch), errors.As(err, &outOfRange):
		// amount-integrity failures are shown as a generic payment error
		log.Printf("amount integrity failure: %v", err)
		respondError(w, http.StatusBadRequest, "payment_error", "payment error, please refresh and try again")
	case errors.Is(err, payment.ErrMissingSecret):
		respondError(w, http.StatusBadGateway, "payment_error", "payment could not be initialized")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "something went wrong")
	}
}
