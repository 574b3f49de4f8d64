package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/pricing"
)

type MockIntentClient struct {
	Calls     int
	FailTimes int
	Err       error
	Secret    string
	LastReq   *IntentRequest
}

func (m *MockIntentClient) CreateIntent(_ context.Context, req *IntentRequest) (*Intent, error) {
	m.Calls++
	m.LastReq = req
	if m.Calls <= m.FailTimes {
		return nil, errors.New("transient network error")
	}
	if m.Err != nil {
		return nil, m.Err
	}
	return &Intent{ClientSecret: m.Secret}, nil
}

type MockProcessor struct {
	Calls       int
	Err         error
	LastSecret  string
	LastBilling BillingDetails
}

func (m *MockProcessor) ConfirmCardPayment(_ context.Context, clientSecret string, billing BillingDetails) error {
	m.Calls++
	m.LastSecret = clientSecret
	m.LastBilling = billing
	return m.Err
}

func validRequest() SubmitRequest {
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	return SubmitRequest{
		Items: []domain.CartItem{
			{ID: "item-1", Name: "Casamigos Blanco", Price: 50.00, Quantity: 1},
		},
		Customer: domain.CustomerInfo{
			FirstName: "Dana", LastName: "Whitfield",
			Email: "dana@example.com", Phone: "5125550188",
		},
		Address: domain.AddressInfo{
			Street: "2100 Barton Springs Rd", City: "Austin", State: "TX", ZipCode: "78704",
		},
		Delivery:     domain.DeliveryInfo{Date: &date, TimeSlot: "18:00", Address: "2100 Barton Springs Rd"},
		TipAmount:    5.00,
		DisplayTotal: 79.13, // 50 + 20 fee + 4.13 tax + 5 tip
	}
}

func TestSubmit_Success(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_3Abc123_secret_xYz"}
	processor := &MockProcessor{}
	o := NewOrchestrator(intents, processor)

	receipt, err := o.Submit(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, "pi_3Abc123", receipt.PaymentIntentID)
	assert.Equal(t, "pi_3Abc123_secret_xYz", processor.LastSecret)
	assert.Equal(t, "Dana Whitfield", processor.LastBilling.Name)
	assert.Equal(t, "dana@example.com", processor.LastBilling.Email)

	require.NotNil(t, intents.LastReq)
	assert.Equal(t, int64(7913), intents.LastReq.AmountCents)
	assert.Equal(t, "usd", intents.LastReq.Currency)
	assert.InDelta(t, 50.00, intents.LastReq.Subtotal, 0.005)
	assert.InDelta(t, 20.00, intents.LastReq.DeliveryFee, 0.005)
	assert.InDelta(t, 4.13, intents.LastReq.SalesTax, 0.005)
}

func TestSubmit_EmptyCartFailsBeforeNetwork(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	o := NewOrchestrator(intents, &MockProcessor{})

	req := validRequest()
	req.Items = nil

	_, err := o.Submit(context.Background(), req)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Zero(t, intents.Calls, "no network call on local validation failure")
}

func TestSubmit_IncompleteCustomerFailsBeforeNetwork(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	o := NewOrchestrator(intents, &MockProcessor{})

	req := validRequest()
	req.Customer.Email = "not-an-email"

	_, err := o.Submit(context.Background(), req)

	assert.ErrorIs(t, err, ErrIncompleteCustomer)
	assert.Zero(t, intents.Calls)
}

func TestSubmit_MissingDeliveryDateFailsBeforeNetwork(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	o := NewOrchestrator(intents, &MockProcessor{})

	req := validRequest()
	req.Delivery.Date = nil

	_, err := o.Submit(context.Background(), req)

	assert.ErrorIs(t, err, ErrIncompleteDelivery)
	assert.Zero(t, intents.Calls)
}

func TestSubmit_AmountMismatchAborts(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	o := NewOrchestrator(intents, &MockProcessor{})

	// stale displayed total, off by more than a cent
	req := validRequest()
	req.DisplayTotal = 81.00

	_, err := o.Submit(context.Background(), req)

	assert.ErrorIs(t, err, ErrAmountMismatch)
	assert.Zero(t, intents.Calls)
}

func TestSubmit_WithinOneCentTolerated(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	o := NewOrchestrator(intents, &MockProcessor{})

	req := validRequest()
	req.DisplayTotal = 79.14 // one cent of float drift is fine

	_, err := o.Submit(context.Background(), req)
	assert.NoError(t, err)
}

func TestSubmit_AmountBelowMinimumRejected(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	o := NewOrchestrator(intents, &MockProcessor{})

	req := validRequest()
	req.Items = []domain.CartItem{{ID: "item-1", Name: "Sample", Price: 0.10, Quantity: 1}}
	req.Config = pricing.Config{FreeDelivery: true}
	req.TipAmount = 0
	req.DisplayTotal = pricing.ComputeTotals(req.Items, req.Config, nil, 0).Total

	_, err := o.Submit(context.Background(), req)

	var oor *AmountOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Less(t, oor.AmountCents, int64(50))
	assert.Zero(t, intents.Calls)
}

func TestSubmit_AmountAboveMaximumRejected(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	o := NewOrchestrator(intents, &MockProcessor{})

	req := validRequest()
	req.Items = []domain.CartItem{{ID: "item-1", Name: "Full bar buyout", Price: 20000.00, Quantity: 1}}
	req.TipAmount = 0
	req.DisplayTotal = pricing.ComputeTotals(req.Items, req.Config, nil, 0).Total

	_, err := o.Submit(context.Background(), req)

	var oor *AmountOutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Greater(t, oor.AmountCents, int64(1_000_000))
	assert.Zero(t, intents.Calls)
}

func TestSubmit_IntentCreationRetriedOnTransientFailure(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y", FailTimes: 1}
	o := NewOrchestrator(intents, &MockProcessor{})

	_, err := o.Submit(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 2, intents.Calls)
}

func TestSubmit_MissingClientSecret(t *testing.T) {
	intents := &MockIntentClient{Secret: ""}
	processor := &MockProcessor{}
	o := NewOrchestrator(intents, processor)

	_, err := o.Submit(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Zero(t, processor.Calls)
}

func TestSubmit_DeclineSurfacedVerbatim(t *testing.T) {
	intents := &MockIntentClient{Secret: "pi_x_secret_y"}
	processor := &MockProcessor{Err: errors.New("Your card was declined.")}
	o := NewOrchestrator(intents, processor)

	_, err := o.Submit(context.Background(), validRequest())

	var declined *DeclinedError
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, "Your card was declined.", declined.Message)
	// intent creation is not repeated for a decline
	assert.Equal(t, 1, intents.Calls)
}

func TestIntentID(t *testing.T) {
	assert.Equal(t, "pi_3Abc", intentID("pi_3Abc_secret_123"))
	assert.Equal(t, "opaque-id", intentID("opaque-id"))
}
