package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// BillingDetails accompany the card confirmation, derived from the
// customer's contact info.
type BillingDetails struct {
	Name  string
	Email string
	Phone string
}

// Processor confirms a charge with the payment processor using the client
// secret from the intent. The card entry surface is the processor's own;
// only success or a decline message is visible here.
type Processor interface {
	ConfirmCardPayment(ctx context.Context, clientSecret string, billing BillingDetails) error
}

type httpProcessor struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewHTTPProcessor(endpoint, apiKey string, httpClient *http.Client) Processor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &httpProcessor{httpClient: httpClient, endpoint: endpoint, apiKey: apiKey}
}

type confirmRequest struct {
	ClientSecret string         `json:"client_secret"`
	Billing      BillingDetails `json:"billing_details"`
}

type confirmResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func (p *httpProcessor) ConfirmCardPayment(ctx context.Context, clientSecret string, billing BillingDetails) error {
	body, err := json.Marshal(confirmRequest{ClientSecret: clientSecret, Billing: billing})
	if err != nil {
		return fmt.Errorf("marshal confirm request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build confirm request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("confirm request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read confirm response: %w", err)
	}

	var out confirmResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("confirmation returned status %d: %s", resp.StatusCode, payload)
		}
		return fmt.Errorf("decode confirm response: %w", err)
	}

	if resp.StatusCode == http.StatusPaymentRequired || out.Status == "declined" {
		msg := out.Error
		if msg == "" {
			msg = "your card was declined"
		}
		return &DeclinedError{Message: msg}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("confirmation returned status %d: %s", resp.StatusCode, payload)
	}
	return nil
}
