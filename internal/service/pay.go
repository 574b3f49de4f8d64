package service

import (
	"context"
	"log"
	"time"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/payment"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/prefs"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/pricing"
)

// Pay runs the full submit sequence for a session. Steps left in the
// editable state do not block payment; the orchestrator's own data checks
// are the only gate. On success the completion snapshot is persisted, the
// cart cleared and the session-tier pricing flags purged, while customer,
// address and delivery preferences are retained for the next order.
func (s *CheckoutService) Pay(ctx context.Context, sessionID string) (*payment.Receipt, error) {
	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	snapshot := sess.view()
	cfg := sess.config
	s.mu.Unlock()

	items, err := s.cartItems(ctx, snapshot.CustomerID)
	if err != nil {
		return nil, err
	}

	tipAmount := snapshot.Tip.Amount
	if !snapshot.Tip.Chosen() {
		tipAmount = pricing.DefaultTip(pricing.Subtotal(items, cfg))
	}
	totals := pricing.ComputeTotals(items, cfg, snapshot.Discount, tipAmount)

	receipt, err := s.payments.Submit(ctx, payment.SubmitRequest{
		Items:         items,
		Customer:      snapshot.Customer,
		Address:       snapshot.Address,
		Delivery:      snapshot.Delivery,
		Discount:      snapshot.Discount,
		TipAmount:     tipAmount,
		Config:        cfg,
		DisplayTotal:  totals.Total,
		AffiliateCode: snapshot.AffiliateCode,
	})
	if err != nil {
		return nil, err
	}

	s.finalize(ctx, snapshot, items, totals, receipt)
	return receipt, nil
}

// finalize records the completion and cleans up session state. The charge
// has already succeeded at this point, so failures here are logged and the
// receipt is still returned to the customer.
func (s *CheckoutService) finalize(
	ctx context.Context,
	sess Session,
	items []domain.CartItem,
	totals domain.PricingSnapshot,
	receipt *payment.Receipt,
) {
	completion := &domain.CheckoutCompletion{
		SessionID:       sess.ID,
		CustomerID:      sess.CustomerID,
		Items:           items,
		Customer:        sess.Customer,
		Address:         sess.Address,
		Delivery:        sess.Delivery,
		Discount:        sess.Discount,
		Pricing:         totals,
		PaymentIntentID: receipt.PaymentIntentID,
		CompletedAt:     time.Now().UTC(),
	}

	s.prefs.Durable.Set(ctx, sess.CustomerID, prefs.KeyLastOrder, completion)

	if err := s.repo.SaveCompletion(ctx, completion); err != nil {
		log.Printf("payment %s succeeded but completion was not recorded: %v",
			receipt.PaymentIntentID, err)
	}

	if err := s.carts.Clear(ctx, sess.CustomerID); err != nil {
		log.Printf("failed to clear cart for customer %s: %v", sess.CustomerID, err)
	}

	// purge session-tier pricing flags; durable prefs stay for next order
	s.prefs.Session.Delete(ctx, sess.CustomerID, prefs.KeyMarkupPercent)
	s.prefs.Session.Delete(ctx, sess.CustomerID, prefs.KeyFreeShipping)
	s.prefs.Session.Delete(ctx, sess.CustomerID, prefs.KeySessionID)
	s.prefs.Durable.Delete(ctx, sess.CustomerID, prefs.KeyDiscount)

	s.mu.Lock()
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
}
