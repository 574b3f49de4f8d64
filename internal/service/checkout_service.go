package service

import (
	"context"
	"sync"
	"time"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/cart"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/payment"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/prefs"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/pricing"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/repository"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/steps"
)

// DiscountValidator is the remote code-validation edge.
type DiscountValidator interface {
	Validate(ctx context.Context, code string, subtotal float64) (*domain.AppliedDiscount, error)
}

// PaymentSubmitter runs the charge sequence.
type PaymentSubmitter interface {
	Submit(ctx context.Context, req payment.SubmitRequest) (*payment.Receipt, error)
}

// Session is one in-flight checkout. All fields are owned by the service
// and mutated only under its lock; handlers get copies.
type Session struct {
	ID            string                  `json:"id"`
	CustomerID    string                  `json:"customer_id"`
	Customer      domain.CustomerInfo     `json:"customer"`
	Address       domain.AddressInfo      `json:"address"`
	Delivery      domain.DeliveryInfo     `json:"delivery"`
	Discount      *domain.AppliedDiscount `json:"discount,omitempty"`
	Tip           domain.TipState         `json:"tip"`
	AffiliateCode string                  `json:"affiliate_code,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`

	machine *steps.Machine
	config  pricing.Config
}

// CheckoutService composes the checkout core: prefs tiers, the cart edge,
// discount validation, the payment orchestrator and the completion
// repository.
type CheckoutService struct {
	prefs     prefs.Tiers
	carts     cart.Repository
	discounts DiscountValidator
	payments  PaymentSubmitter
	repo      repository.RepoInterface

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewCheckoutService(
	tiers prefs.Tiers,
	carts cart.Repository,
	discounts DiscountValidator,
	payments PaymentSubmitter,
	repo repository.RepoInterface,
) *CheckoutService {
	return &CheckoutService{
		prefs:     tiers,
		carts:     carts,
		discounts: discounts,
		payments:  payments,
		repo:      repo,
		sessions:  make(map[string]*Session),
	}
}

// session must be called with s.mu held.
func (s *CheckoutService) session(id string) (*Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// view returns a handler-safe copy of the session.
func (sess *Session) view() Session {
	out := *sess
	if sess.Discount != nil {
		d := *sess.Discount
		out.Discount = &d
	}
	out.machine = nil
	return out
}
