package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
)

// IntentRequest is the payload for the remote payment-intent-creation
// function. The full pricing breakdown rides along so the backend can
// cross-check the charge.
type IntentRequest struct {
	AmountCents   int64                   `json:"amount_cents"`
	Currency      string                  `json:"currency"`
	CartItems     []domain.CartItem       `json:"cartItems"`
	CustomerInfo  domain.CustomerInfo     `json:"customerInfo"`
	DeliveryInfo  domain.DeliveryInfo     `json:"deliveryInfo"`
	Discount      *domain.AppliedDiscount `json:"appliedDiscount,omitempty"`
	TipAmount     float64                 `json:"tipAmount"`
	Subtotal      float64                 `json:"subtotal"`
	DeliveryFee   float64                 `json:"deliveryFee"`
	SalesTax      float64                 `json:"salesTax"`
	AffiliateCode string                  `json:"affiliateCode,omitempty"`
}

type Intent struct {
	ClientSecret string `json:"client_secret"`
}

// IntentClient creates a payment intent with the remote function.
type IntentClient interface {
	CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error)
}

type httpIntentClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewHTTPIntentClient(endpoint, apiKey string, httpClient *http.Client) IntentClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &httpIntentClient{httpClient: httpClient, endpoint: endpoint, apiKey: apiKey}
}

func (c *httpIntentClient) CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal intent request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build intent request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("intent request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read intent response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("intent creation returned status %d: %s", resp.StatusCode, payload)
	}

	var intent Intent
	if err := json.Unmarshal(payload, &intent); err != nil {
		return nil, fmt.Errorf("decode intent response: %w", err)
	}
	return &intent, nil
}
