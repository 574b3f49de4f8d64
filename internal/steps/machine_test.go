package steps

import (
	"testing"
	"time"

	"github.com/matthewtrundle/partyondelivery-checkout/domain"
	"github.com/stretchr/testify/assert"
)

func completeAddress() domain.AddressInfo {
	return domain.AddressInfo{
		Street:  "1100 Congress Ave",
		City:    "Austin",
		State:   "TX",
		ZipCode: "78701",
	}
}

func TestConfirmAddress_RequiresAllFields(t *testing.T) {
	partials := []domain.AddressInfo{
		{},
		{Street: "1100 Congress Ave", City: "Austin", State: "TX"},
		{City: "Austin", State: "TX", ZipCode: "78701"},
		{Street: "  ", City: "Austin", State: "TX", ZipCode: "78701"},
	}

	for _, addr := range partials {
		m := NewMachine()
		assert.False(t, m.ConfirmAddress(addr))
		assert.False(t, m.Confirmed(StepAddress), "partial address must not confirm")
	}

	m := NewMachine()
	assert.True(t, m.ConfirmAddress(completeAddress()))
	assert.True(t, m.Confirmed(StepAddress))
}

func TestConfirmCustomer_ValidatesFormats(t *testing.T) {
	m := NewMachine()

	bad := domain.CustomerInfo{FirstName: "Sam", LastName: "Reyes", Email: "not-an-email", Phone: "512-555-0133"}
	assert.False(t, m.ConfirmCustomer(bad))

	shortPhone := domain.CustomerInfo{FirstName: "Sam", LastName: "Reyes", Email: "sam@example.com", Phone: "555"}
	assert.False(t, m.ConfirmCustomer(shortPhone))

	good := domain.CustomerInfo{FirstName: "Sam", LastName: "Reyes", Email: "sam@example.com", Phone: "(512) 555-0133"}
	assert.True(t, m.ConfirmCustomer(good))
	assert.True(t, m.Confirmed(StepCustomerInfo))
}

func TestConfirmDeliveryTime(t *testing.T) {
	m := NewMachine()
	date := time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)

	assert.False(t, m.ConfirmDeliveryTime(domain.DeliveryInfo{TimeSlot: "14:00"}), "no date")
	assert.False(t, m.ConfirmDeliveryTime(domain.DeliveryInfo{Date: &date, TimeSlot: "09:00"}), "slot before opening")
	assert.False(t, m.ConfirmDeliveryTime(domain.DeliveryInfo{Date: &date, TimeSlot: "22:00"}), "slot after closing")
	assert.True(t, m.ConfirmDeliveryTime(domain.DeliveryInfo{Date: &date, TimeSlot: "21:30"}))
}

func TestEdit_IsUnconditionalAndIndependent(t *testing.T) {
	m := NewMachine()
	date := time.Now()

	m.ConfirmAddress(completeAddress())
	m.ConfirmDeliveryTime(domain.DeliveryInfo{Date: &date, TimeSlot: "10:00"})

	m.Edit(StepAddress)
	assert.False(t, m.Confirmed(StepAddress))
	// the other section is untouched
	assert.True(t, m.Confirmed(StepDeliveryTime))

	// editing an already-editable section is a no-op
	m.Edit(StepCustomerInfo)
	assert.False(t, m.Confirmed(StepCustomerInfo))
}

func TestSnapshot(t *testing.T) {
	m := NewMachine()
	m.ConfirmAddress(completeAddress())

	snap := m.Snapshot()
	assert.True(t, snap.Address)
	assert.False(t, snap.DateTime)
	assert.False(t, snap.CustomerInfo)
}
