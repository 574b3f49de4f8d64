package payment

import (
	"context"
	"log"
	"math"
	"strings"
	"time"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/invoker"
	"github.com/matthewtrundle/partyondelivery-checkout/internal/pricing"
)

const (
	minChargeCents = 50        // $0.50, processor minimum
	maxChargeCents = 1_000_000 // $10,000.00
	currency       = "usd"
)

// SubmitRequest carries everything needed to charge one order. The display
// total comes from the caller's last rendered snapshot; Submit recomputes
// the total independently and refuses to charge when the two disagree by
// more than a cent.
type SubmitRequest struct {
	Items         []domain.CartItem
	Customer      domain.CustomerInfo
	Address       domain.AddressInfo
	Delivery      domain.DeliveryInfo
	Discount      *domain.AppliedDiscount
	TipAmount     float64
	Config        pricing.Config
	DisplayTotal  float64
	AffiliateCode string
}

type Receipt struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// Orchestrator runs the submit sequence: local validation, intent creation
// through the safe-invoke helper, then card confirmation. It never creates
// orders; that happens asynchronously from the completion event.
type Orchestrator struct {
	intents   IntentClient
	processor Processor
	invoke    *invoker.Invoker[*Intent]
}

func NewOrchestrator(intents IntentClient, processor Processor) *Orchestrator {
	return &Orchestrator{
		intents:   intents,
		processor: processor,
		invoke:    invoker.New[*Intent]("create-payment-intent", 3, 200*time.Millisecond),
	}
}

// Submit validates, creates the payment intent and confirms the charge.
// Returns a typed error for every failure mode; only intent creation is
// ever retried, and only on transient failure.
func (o *Orchestrator) Submit(ctx context.Context, req SubmitRequest) (*Receipt, error) {
	snapshot, amountCents, err := o.validate(req)
	if err != nil {
		return nil, err
	}

	intent, err := o.invoke.Do(ctx, func() (*Intent, error) {
		return o.intents.CreateIntent(ctx, &IntentRequest{
			AmountCents:   amountCents,
			Currency:      currency,
			CartItems:     req.Items,
			CustomerInfo:  req.Customer,
			DeliveryInfo:  req.Delivery,
			Discount:      req.Discount,
			TipAmount:     snapshot.TipAmount,
			Subtotal:      snapshot.Subtotal,
			DeliveryFee:   snapshot.DeliveryFee,
			SalesTax:      snapshot.SalesTax,
			AffiliateCode: req.AffiliateCode,
		})
	})
	if err != nil {
		return nil, err
	}
	if intent.ClientSecret == "" {
		return nil, ErrMissingSecret
	}

	billing := BillingDetails{
		Name:  strings.TrimSpace(req.Customer.FirstName + " " + req.Customer.LastName),
		Email: req.Customer.Email,
		Phone: req.Customer.Phone,
	}
	if err := o.processor.ConfirmCardPayment(ctx, intent.ClientSecret, billing); err != nil {
		// the processor's message goes to the customer verbatim
		return nil, &DeclinedError{Message: err.Error()}
	}

	receipt := &Receipt{PaymentIntentID: intentID(intent.ClientSecret)}
	log.Printf("payment confirmed, intent %s, amount %d cents", receipt.PaymentIntentID, amountCents)
	return receipt, nil
}

// validate is the fail-fast gate: nothing past here runs unless the order
// is chargeable exactly as displayed.
func (o *Orchestrator) validate(req SubmitRequest) (domain.PricingSnapshot, int64, error) {
	var zero domain.PricingSnapshot

	if len(req.Items) == 0 {
		return zero, 0, ErrEmptyCart
	}
	if !req.Customer.Complete() {
		return zero, 0, ErrIncompleteCustomer
	}
	if !req.Address.Complete() || !req.Delivery.Complete() {
		return zero, 0, ErrIncompleteDelivery
	}

	snapshot := pricing.ComputeTotals(req.Items, req.Config, req.Discount, req.TipAmount)
	if math.Abs(snapshot.Total-req.DisplayTotal) > 0.01 {
		log.Printf("amount integrity check failed: displayed %.2f, recomputed %.2f",
			req.DisplayTotal, snapshot.Total)
		return zero, 0, ErrAmountMismatch
	}

	amountCents := pricing.AmountInCents(snapshot.Total)
	if amountCents < minChargeCents || amountCents > maxChargeCents {
		return zero, 0, &AmountOutOfRangeError{AmountCents: amountCents}
	}

	return snapshot, amountCents, nil
}

// intentID derives the opaque intent identifier from the client secret
// ("pi_..._secret_..." keeps the id in front of the marker).
func intentID(clientSecret string) string {
	if idx := strings.Index(clientSecret, "_secret"); idx > 0 {
		return clientSecret[:idx]
	}
	return clientSecret
}
