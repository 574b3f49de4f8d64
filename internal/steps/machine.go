package steps

import "github.com/matthewtrundle/partyondelivery-checkout/domain"

type Step string

const (
	StepDeliveryTime Step = "delivery_time"
	StepAddress      Step = "address"
	StepCustomerInfo Step = "customer_info"
)

// Machine tracks the confirmed/editable state of the three checkout
// sections. Each section is its own tiny FSM: confirming collapses it,
// editing reopens it, and neither transition touches the other sections
// or the underlying data. Nothing here gates payment.
type Machine struct {
	confirmed map[Step]bool
}

func NewMachine() *Machine {
	return &Machine{confirmed: make(map[Step]bool)}
}

// ConfirmAddress collapses the address section. Refused (no state change)
// unless street, city, state and zip are all filled in.
func (m *Machine) ConfirmAddress(a domain.AddressInfo) bool {
	if !a.Complete() {
		return false
	}
	m.confirmed[StepAddress] = true
	return true
}

// ConfirmCustomer collapses the contact section once all four fields pass
// the format validators.
func (m *Machine) ConfirmCustomer(c domain.CustomerInfo) bool {
	if !c.Complete() {
		return false
	}
	m.confirmed[StepCustomerInfo] = true
	return true
}

// ConfirmDeliveryTime collapses the date/time section once a date and a
// valid slot are both chosen.
func (m *Machine) ConfirmDeliveryTime(d domain.DeliveryInfo) bool {
	if !d.Complete() {
		return false
	}
	m.confirmed[StepDeliveryTime] = true
	return true
}

// Edit reopens a section unconditionally. Data is kept.
func (m *Machine) Edit(s Step) {
	delete(m.confirmed, s)
}

func (m *Machine) Confirmed(s Step) bool {
	return m.confirmed[s]
}

func (m *Machine) Snapshot() domain.ConfirmedSteps {
	return domain.ConfirmedSteps{
		DateTime:     m.confirmed[StepDeliveryTime],
		Address:      m.confirmed[StepAddress],
		CustomerInfo: m.confirmed[StepCustomerInfo],
	}
}

func ValidStep(s Step) bool {
	switch s {
	case StepDeliveryTime, StepAddress, StepCustomerInfo:
		return true
	}
	return false
}
