package pricing

import (
	"math"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
)

const (
	salesTaxRate        = 0.0825
	baseDeliveryFee     = 20.0
	feeTierThreshold    = 200.0
	feeTierRate         = 0.10
	defaultTipRate      = 0.10
	defaultMarkupPercent = 0.0
)

// Config carries the per-session pricing inputs. It is built once at the
// session boundary from the session prefs tier instead of being read
// ambiently inside the engine.
type Config struct {
	MarkupPercent float64
	FreeDelivery  bool
}

// markup returns the configured markup percent, falling back to zero when
// the stored value is absent or not a number.
func (c Config) markup() float64 {
	if math.IsNaN(c.MarkupPercent) || math.IsInf(c.MarkupPercent, 0) {
		return defaultMarkupPercent
	}
	return c.MarkupPercent
}

// ApplyMarkup scales a unit price by the session markup.
func ApplyMarkup(price float64, cfg Config) float64 {
	return price * (1 + cfg.markup()/100)
}

// Subtotal sums marked-up line prices across the cart.
func Subtotal(items []domain.CartItem, cfg Config) float64 {
	var sum float64
	for _, item := range items {
		sum += ApplyMarkup(item.Price, cfg) * float64(item.Quantity)
	}
	return sum
}

// DeliveryFee applies the tiered fee rule to the pre-discount subtotal:
// flat $20 below $200, 10% of subtotal at or above it (continuous at the
// boundary). The fee is forced to zero by the session free-delivery flag,
// a free_shipping code, or a 100%-off percentage code.
func DeliveryFee(subtotal float64, cfg Config, discount *domain.AppliedDiscount) float64 {
	if cfg.FreeDelivery || discount.FreeDelivery() {
		return 0
	}
	if subtotal >= feeTierThreshold {
		return Round2(subtotal * feeTierRate)
	}
	return baseDeliveryFee
}

// SalesTax is always computed on the pre-discount subtotal. Call sites in
// the original flow never tax the discounted amount; keep it that way
// unless the business says otherwise.
func SalesTax(subtotal float64) float64 {
	return Round2(subtotal * salesTaxRate)
}

// DiscountedSubtotal applies the active discount to the subtotal.
// free_shipping leaves the subtotal untouched; it only affects the fee.
func DiscountedSubtotal(subtotal float64, discount *domain.AppliedDiscount) float64 {
	if discount == nil {
		return subtotal
	}
	switch discount.Type {
	case domain.DiscountPercentage:
		return subtotal * (1 - discount.Value/100)
	case domain.DiscountFixedAmount:
		return subtotal - math.Min(discount.Value, subtotal)
	default:
		return subtotal
	}
}

// DefaultTip is 10% of subtotal, used until the customer overrides it.
func DefaultTip(subtotal float64) float64 {
	return Round2(subtotal * defaultTipRate)
}

// ComputeTotals derives the full pricing breakdown. Pure: same inputs,
// same snapshot, no side effects.
func ComputeTotals(items []domain.CartItem, cfg Config, discount *domain.AppliedDiscount, tipAmount float64) domain.PricingSnapshot {
	subtotal := Subtotal(items, cfg)
	discounted := DiscountedSubtotal(subtotal, discount)
	fee := DeliveryFee(subtotal, cfg, discount)
	tax := SalesTax(subtotal)

	return domain.PricingSnapshot{
		Subtotal:           subtotal,
		DiscountedSubtotal: discounted,
		DeliveryFee:        fee,
		SalesTax:           tax,
		TipAmount:          tipAmount,
		Total:              discounted + fee + tax + tipAmount,
	}
}

// Round2 rounds to cents. Internal arithmetic keeps full float precision;
// rounding happens where a value crosses a display or charge boundary.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// AmountInCents converts a dollar total to the integer amount a charge is
// created with.
func AmountInCents(total float64) int64 {
	return int64(math.Round(total * 100))
}
