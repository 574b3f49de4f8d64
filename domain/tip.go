package domain

type TipType string

const (
	TipPercentage TipType = "percentage"
	TipCustom     TipType = "custom"
)

// TipState records the driver tip. Until the customer overrides it the
// session uses the default (10% of subtotal), signalled by a zero Type.
type TipState struct {
	Amount     float64 `json:"amount"`
	Type       TipType `json:"type"`
	Percentage float64 `json:"percentage,omitempty"`
}

// Chosen reports whether the customer has explicitly set a tip.
func (t TipState) Chosen() bool {
	return t.Type != ""
}
