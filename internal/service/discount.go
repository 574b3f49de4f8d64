package service

import (
	"context"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/prefs"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/pricing"
)

// ApplyDiscount validates a code against the current subtotal and, when
// accepted, makes it the session's single active discount. The remote owns
// all eligibility rules.
func (s *CheckoutService) ApplyDiscount(ctx context.Context, sessionID, code string) (*domain.AppliedDiscount, error) {
	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	customerID := sess.CustomerID
	cfg := sess.config
	s.mu.Unlock()

	items, err := s.cartItems(ctx, customerID)
	if err != nil {
		return nil, err
	}
	subtotal := pricing.Subtotal(items, cfg)

	applied, err := s.discounts.Validate(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if sess, err2 := s.session(sessionID); err2 == nil {
		sess.Discount = applied
	}
	s.mu.Unlock()

	s.prefs.Durable.Set(ctx, customerID, prefs.KeyDiscount, applied)
	return applied, nil
}

// RemoveDiscount is a pure local clear; no remote call is involved.
func (s *CheckoutService) RemoveDiscount(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sess.Discount = nil
	customerID := sess.CustomerID
	s.mu.Unlock()

	s.prefs.Durable.Delete(ctx, customerID, prefs.KeyDiscount)
	return nil
}
