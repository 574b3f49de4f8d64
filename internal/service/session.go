package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/prefs"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/pricing"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/steps"
)

// StartSession opens a checkout for a customer. Retained preferences from
// previous orders pre-fill the session, and the pricing config is read
// once here from the session tier rather than ad hoc during pricing.
func (s *CheckoutService) StartSession(ctx context.Context, customerID, affiliateCode string) (Session, error) {
	sess := &Session{
		ID:            uuid.NewString(),
		CustomerID:    customerID,
		AffiliateCode: affiliateCode,
		CreatedAt:     time.Now(),
		machine:       steps.NewMachine(),
		config:        s.loadPricingConfig(ctx, customerID),
	}

	s.loadRetainedPrefs(ctx, sess)
	s.prefs.Session.Set(ctx, customerID, prefs.KeySessionID, sess.ID)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	view := sess.view()
	s.mu.Unlock()

	return view, nil
}

func (s *CheckoutService) loadRetainedPrefs(ctx context.Context, sess *Session) {
	load := func(key string, out any) {
		err := s.prefs.Durable.Get(ctx, sess.CustomerID, key, out)
		if err != nil && !errors.Is(err, prefs.ErrNotFound) {
			log.Printf("failed to load %s for customer %s: %v", key, sess.CustomerID, err)
		}
	}

	load(prefs.KeyCustomer, &sess.Customer)
	load(prefs.KeyAddress, &sess.Address)
	load(prefs.KeyDelivery, &sess.Delivery)

	var discount domain.AppliedDiscount
	if err := s.prefs.Durable.Get(ctx, sess.CustomerID, prefs.KeyDiscount, &discount); err == nil && discount.Code != "" {
		sess.Discount = &discount
	}
}

func (s *CheckoutService) loadPricingConfig(ctx context.Context, customerID string) pricing.Config {
	var cfg pricing.Config

	var markup float64
	if err := s.prefs.Session.Get(ctx, customerID, prefs.KeyMarkupPercent, &markup); err == nil {
		cfg.MarkupPercent = markup
	}

	var free bool
	if err := s.prefs.Session.Get(ctx, customerID, prefs.KeyFreeShipping, &free); err == nil {
		cfg.FreeDelivery = free
	}

	return cfg
}

// GetSession returns a copy of the current session state.
func (s *CheckoutService) GetSession(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(id)
	if err != nil {
		return Session{}, err
	}
	return sess.view(), nil
}

// UpdateCustomer overwrites the contact details and persists them
// immediately, matching the save-on-every-edit behavior of the form.
func (s *CheckoutService) UpdateCustomer(ctx context.Context, sessionID string, customer domain.CustomerInfo) error {
	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sess.Customer = customer
	customerID := sess.CustomerID
	s.mu.Unlock()

	s.prefs.Durable.Set(ctx, customerID, prefs.KeyCustomer, customer)
	return nil
}

func (s *CheckoutService) UpdateAddress(ctx context.Context, sessionID string, address domain.AddressInfo) error {
	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sess.Address = address
	if address.Street != "" {
		sess.Delivery.Address = address.Street
	}
	customerID := sess.CustomerID
	s.mu.Unlock()

	s.prefs.Durable.Set(ctx, customerID, prefs.KeyAddress, address)
	return nil
}

func (s *CheckoutService) UpdateDelivery(ctx context.Context, sessionID string, delivery domain.DeliveryInfo) error {
	if delivery.TimeSlot != "" && !domain.ValidTimeSlot(delivery.TimeSlot) {
		return ErrInvalidTimeSlot
	}

	s.mu.Lock()
	sess, err := s.session(sessionID)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sess.Delivery = delivery
	customerID := sess.CustomerID
	s.mu.Unlock()

	s.prefs.Durable.Set(ctx, customerID, prefs.KeyDelivery, delivery)
	return nil
}

// SetTip overrides the default 10% tip with an explicit choice.
func (s *CheckoutService) SetTip(_ context.Context, sessionID string, tip domain.TipState) error {
	if tip.Amount < 0 {
		return ErrNegativeTip
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	if tip.Type == "" {
		tip.Type = domain.TipCustom
	}
	sess.Tip = tip
	return nil
}

// ConfirmStep collapses a checkout section when its data is complete.
// Returns false with no state change otherwise.
func (s *CheckoutService) ConfirmStep(sessionID string, step steps.Step) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return false, err
	}

	switch step {
	case steps.StepAddress:
		return sess.machine.ConfirmAddress(sess.Address), nil
	case steps.StepCustomerInfo:
		return sess.machine.ConfirmCustomer(sess.Customer), nil
	case steps.StepDeliveryTime:
		return sess.machine.ConfirmDeliveryTime(sess.Delivery), nil
	default:
		return false, ErrInvalidStep
	}
}

// EditStep reopens a section. Always succeeds for a known step; data stays.
func (s *CheckoutService) EditStep(sessionID string, step steps.Step) error {
	if !steps.ValidStep(step) {
		return ErrInvalidStep
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.machine.Edit(step)
	return nil
}

// StepStates reports which sections are currently confirmed.
func (s *CheckoutService) StepStates(sessionID string) (domain.ConfirmedSteps, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.session(sessionID)
	if err != nil {
		return domain.ConfirmedSteps{}, err
	}
	return sess.machine.Snapshot(), nil
}
