package service

import (
	"context"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/cart"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/payment"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/repository"
)

type MockCartRepo struct {
	Carts      map[string]*domain.Cart
	GetErr     error
	ClearCalls []string
	UpdateErr  error
}

func NewMockCartRepo() *MockCartRepo {
	return &MockCartRepo{Carts: make(map[string]*domain.Cart)}
}

func (m *MockCartRepo) Get(_ context.Context, customerID string) (*domain.Cart, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	c, ok := m.Carts[customerID]
	if !ok {
		return nil, cart.ErrCartNotFound
	}
	return c, nil
}

func (m *MockCartRepo) UpdateQuantity(_ context.Context, customerID, itemID string, quantity int) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	c, ok := m.Carts[customerID]
	if !ok {
		return cart.ErrCartNotFound
	}
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			if quantity <= 0 {
				c.Items = append(c.Items[:i], c.Items[i+1:]...)
			} else {
				c.Items[i].Quantity = quantity
			}
			return nil
		}
	}
	return cart.ErrItemNotFound
}

func (m *MockCartRepo) Clear(_ context.Context, customerID string) error {
	m.ClearCalls = append(m.ClearCalls, customerID)
	if c, ok := m.Carts[customerID]; ok {
		c.Items = nil
	}
	return nil
}

type MockValidator struct {
	Discount     *domain.AppliedDiscount
	Err          error
	Calls        int
	LastCode     string
	LastSubtotal float64
}

func (m *MockValidator) Validate(_ context.Context, code string, subtotal float64) (*domain.AppliedDiscount, error) {
	m.Calls++
	m.LastCode = code
	m.LastSubtotal = subtotal
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Discount, nil
}

type MockSubmitter struct {
	Receipt *payment.Receipt
	Err     error
	Calls   int
	LastReq payment.SubmitRequest
}

func (m *MockSubmitter) Submit(_ context.Context, req payment.SubmitRequest) (*payment.Receipt, error) {
	m.Calls++
	m.LastReq = req
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Receipt, nil
}

type MockCompletionRepo struct {
	Saved   []*domain.CheckoutCompletion
	SaveErr error
}

func (m *MockCompletionRepo) SaveCompletion(_ context.Context, c *domain.CheckoutCompletion) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, c)
	return nil
}

func (m *MockCompletionRepo) GetUnprocessedEvents(context.Context, int) ([]*repository.OutboxEvent, error) {
	return nil, nil
}

func (m *MockCompletionRepo) MarkEventAsProcessed(context.Context, int64) error { return nil }
func (m *MockCompletionRepo) RunMigrations(*repository.Credentials) error       { return nil }
func (m *MockCompletionRepo) Close() error                                      { return nil }
