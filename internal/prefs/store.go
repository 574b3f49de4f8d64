package prefs

import (
	"context"
	"errors"
)

// Durable-tier keys. These survive across checkout sessions so returning
// customers get their details pre-filled.
const (
	KeyCustomer  = "partyondelivery_customer"
	KeyAddress   = "partyondelivery_address"
	KeyDelivery  = "partyondelivery_delivery_info"
	KeyDiscount  = "partyondelivery_applied_discount"
	KeyLastOrder = "partyondelivery_last_order"
)

// Session-tier keys. These expire with the checkout session.
const (
	KeyMarkupPercent = "pricing.markupPercent"
	KeyFreeShipping  = "shipping.free"
	KeyAppSettings   = "delivery-app-settings"
	KeySessionID     = "checkout_session_id"
)

var ErrNotFound = errors.New("prefs: key not found")

// Store is a per-customer JSON key/value store. Writes are synchronous and
// best-effort: a failed write is logged by the implementation and never
// surfaced to the checkout flow.
type Store interface {
	Get(ctx context.Context, customerID, key string, out any) error
	Set(ctx context.Context, customerID, key string, value any)
	Delete(ctx context.Context, customerID, key string)
}

// Tiers groups the two storage scopes the checkout flow reads and writes.
type Tiers struct {
	Durable Store
	Session Store
}
