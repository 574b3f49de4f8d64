package discount

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
)

// ErrValidationUnavailable covers transport failures and server errors
// from the validation function. No automatic retry; the customer can
// resubmit the code.
var ErrValidationUnavailable = errors.New("failed to validate discount code")

// InvalidCodeError carries the remote's rejection reason for a code that
// was checked but refused.
type InvalidCodeError struct {
	Reason string
}

func (e *InvalidCodeError) Error() string {
	if e.Reason == "" {
		return "discount code is not valid"
	}
	return e.Reason
}

// Client submits codes to the remote validation function. The remote is
// authoritative for eligibility (minimum order, expiry, usage limits);
// no business rules are duplicated here.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	sfg        singleflight.Group // collapses duplicate in-flight validations
}

func NewClient(endpoint, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
		apiKey:     apiKey,
	}
}

type validateRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

// objectResponse is the primary validation response shape.
type objectResponse struct {
	Valid         bool     `json:"valid"`
	Error         string   `json:"error,omitempty"`
	Message       string   `json:"message,omitempty"`
	DiscountType  string   `json:"discount_type,omitempty"`
	DiscountValue float64  `json:"discount_value,omitempty"`
	Code          string   `json:"code,omitempty"`
}

// arrayResponse is the alternate endpoint's row shape.
type arrayResponse struct {
	IsValid        bool        `json:"is_valid"`
	DiscountAmount float64     `json:"discount_amount"`
	CodeDetails    codeDetails `json:"code_details"`
	ErrorMessage   string      `json:"error_message"`
}

type codeDetails struct {
	Code          string  `json:"code"`
	DiscountType  string  `json:"discount_type"`
	DiscountValue float64 `json:"discount_value"`
}

// Validate submits a code with the current subtotal and normalizes the
// response into an AppliedDiscount. The code is trimmed and upper-cased
// before submission.
func (c *Client) Validate(ctx context.Context, code string, subtotal float64) (*domain.AppliedDiscount, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, &InvalidCodeError{Reason: "discount code is empty"}
	}

	key := fmt.Sprintf("%s|%.2f", normalized, subtotal)
	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		return c.validate(ctx, normalized, subtotal)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.AppliedDiscount), nil
}

func (c *Client) validate(ctx context.Context, code string, subtotal float64) (*domain.AppliedDiscount, error) {
	body, err := json.Marshal(validateRequest{Code: code, Subtotal: subtotal})
	if err != nil {
		return nil, fmt.Errorf("marshal validate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build validate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ErrValidationUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, ErrValidationUnavailable
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &InvalidCodeError{Reason: fmt.Sprintf("validation rejected with status %d", resp.StatusCode)}
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrValidationUnavailable
	}

	return normalize(payload, code)
}

// normalize accepts both observed response shapes: a bare object and a
// single-row array.
func normalize(payload []byte, code string) (*domain.AppliedDiscount, error) {
	trimmed := bytes.TrimSpace(payload)

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows []arrayResponse
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, ErrValidationUnavailable
		}
		if len(rows) == 0 {
			return nil, &InvalidCodeError{}
		}
		row := rows[0]
		if !row.IsValid {
			return nil, &InvalidCodeError{Reason: row.ErrorMessage}
		}
		d := &domain.AppliedDiscount{
			Code:  row.CodeDetails.Code,
			Value: row.CodeDetails.DiscountValue,
			Type:  domain.DiscountType(row.CodeDetails.DiscountType),
		}
		if d.Code == "" {
			d.Code = code
		}
		if d.Value == 0 && row.DiscountAmount > 0 {
			d.Value = row.DiscountAmount
		}
		return checkType(d)
	}

	var obj objectResponse
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, ErrValidationUnavailable
	}
	if !obj.Valid {
		reason := obj.Error
		if reason == "" {
			reason = obj.Message
		}
		return nil, &InvalidCodeError{Reason: reason}
	}
	d := &domain.AppliedDiscount{
		Code:  obj.Code,
		Value: obj.DiscountValue,
		Type:  domain.DiscountType(obj.DiscountType),
	}
	if d.Code == "" {
		d.Code = code
	}
	return checkType(d)
}

func checkType(d *domain.AppliedDiscount) (*domain.AppliedDiscount, error) {
	switch d.Type {
	case domain.DiscountPercentage, domain.DiscountFixedAmount, domain.DiscountFreeShip:
		return d, nil
	default:
		return nil, &InvalidCodeError{Reason: fmt.Sprintf("unknown discount type %q", d.Type)}
	}
}
