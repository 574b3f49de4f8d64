package domain

// PricingSnapshot is the derived order total breakdown. It is recomputed
// from the cart on every read and never cached.
type PricingSnapshot struct {
	Subtotal           float64 `json:"subtotal"`
	DiscountedSubtotal float64 `json:"discounted_subtotal"`
	DeliveryFee        float64 `json:"delivery_fee"`
	SalesTax           float64 `json:"sales_tax"`
	TipAmount          float64 `json:"tip_amount"`
	Total              float64 `json:"total"`
}

// ConfirmedSteps mirrors which checkout sections the customer has collapsed.
type ConfirmedSteps struct {
	DateTime     bool `json:"date_time"`
	Address      bool `json:"address"`
	CustomerInfo bool `json:"customer_info"`
}
