package payment

import (
	"errors"
	"fmt"
)

// Local fail-fast errors. None of these ever reach the network.
var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to pay for")
	ErrIncompleteCustomer = errors.New("customer info is incomplete")
	ErrIncompleteDelivery = errors.New("delivery address, date and time slot are required")
	ErrAmountMismatch     = errors.New("payment amount does not match recomputed order total")
	ErrMissingSecret      = errors.New("payment intent response did not include a client secret")
)

// AmountOutOfRangeError rejects charges outside the allowed window before
// any network call. The window exists to catch decimal/unit mistakes (a
// 100x bug turns a $75 order into $7,500).
type AmountOutOfRangeError struct {
	AmountCents int64
}

func (e *AmountOutOfRangeError) Error() string {
	return fmt.Sprintf("charge amount %d cents is outside the allowed range [%d, %d]",
		e.AmountCents, minChargeCents, maxChargeCents)
}

// DeclinedError carries the processor's message verbatim. Never retried;
// the customer resubmits with corrected card details.
type DeclinedError struct {
	Message string
}

func (e *DeclinedError) Error() string {
	return e.Message
}
