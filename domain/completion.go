package domain

import "time"

// CheckoutCompletion is the snapshot persisted when a payment succeeds.
// Order materialization happens asynchronously from the published event,
// never from the checkout path itself, so double submission cannot create
// duplicate orders.
type CheckoutCompletion struct {
	SessionID       string           `json:"session_id"`
	CustomerID      string           `json:"customer_id"`
	Items           []CartItem       `json:"items"`
	Customer        CustomerInfo     `json:"customer"`
	Address         AddressInfo      `json:"address"`
	Delivery        DeliveryInfo     `json:"delivery"`
	Discount        *AppliedDiscount `json:"discount,omitempty"`
	Pricing         PricingSnapshot  `json:"pricing"`
	PaymentIntentID string           `json:"payment_intent_id"`
	CompletedAt     time.Time        `json:"completed_at"`
}
