package domain

type DiscountType string

const (
	DiscountPercentage  DiscountType = "percentage"
	DiscountFixedAmount DiscountType = "fixed_amount"
	DiscountFreeShip    DiscountType = "free_shipping"
)

// AppliedDiscount is the single active discount on a checkout session.
// Value is a percent for percentage codes and a dollar amount for
// fixed_amount codes; free_shipping codes carry no value.
type AppliedDiscount struct {
	Code  string       `json:"code"`
	Value float64      `json:"value"`
	Type  DiscountType `json:"type"`
}

// FreeDelivery reports whether this discount forces the delivery fee to
// zero: an explicit free_shipping code, or a 100%-off percentage code.
func (d *AppliedDiscount) FreeDelivery() bool {
	if d == nil {
		return false
	}
	if d.Type == DiscountFreeShip {
		return true
	}
	return d.Type == DiscountPercentage && d.Value >= 100
}
