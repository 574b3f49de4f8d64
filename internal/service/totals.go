package service

import (
	"context"
	"errors"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/cart"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/pricing"
)

// Totals recomputes the full pricing snapshot from the live cart. Nothing
// is cached: every read reflects the current cart, discount and tip.
func (s *CheckoutService) Totals(ctx context.Context, sessionID string) (domain.PricingSnapshot, error) {
	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return domain.PricingSnapshot{}, err
	}
	customerID := sess.CustomerID
	cfg := sess.config
	discount := sess.Discount
	tip := sess.Tip
	s.mu.Unlock()

	items, err := s.cartItems(ctx, customerID)
	if err != nil {
		return domain.PricingSnapshot{}, err
	}

	tipAmount := tip.Amount
	if !tip.Chosen() {
		tipAmount = pricing.DefaultTip(pricing.Subtotal(items, cfg))
	}

	return pricing.ComputeTotals(items, cfg, discount, tipAmount), nil
}

// cartItems treats a missing cart as empty rather than an error; the
// checkout view simply shows nothing to buy.
func (s *CheckoutService) cartItems(ctx context.Context, customerID string) ([]domain.CartItem, error) {
	c, err := s.carts.Get(ctx, customerID)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return c.Items, nil
}

// Cart exposes the cart to the HTTP layer.
func (s *CheckoutService) Cart(ctx context.Context, customerID string) (*domain.Cart, error) {
	return s.carts.Get(ctx, customerID)
}

// UpdateQuantity mutates one cart line. Quantity zero removes the line.
func (s *CheckoutService) UpdateQuantity(ctx context.Context, customerID, itemID string, quantity int) error {
	return s.carts.UpdateQuantity(ctx, customerID, itemID, quantity)
}
