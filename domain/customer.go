package domain

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// CustomerInfo holds the contact details collected during checkout. Filled
// field by field and persisted on every edit; overwritten by the next order.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// Complete reports whether every field is present and passes format checks.
func (c CustomerInfo) Complete() bool {
	return c.FirstName != "" &&
		c.LastName != "" &&
		ValidEmail(c.Email) &&
		ValidPhone(c.Phone)
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidPhone accepts common US phone formats: at least 10 digits after
// stripping separators.
func ValidPhone(phone string) bool {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 10
}

// AddressInfo is the delivery address. Same lifecycle as CustomerInfo.
type AddressInfo struct {
	Street       string `json:"street"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
	Instructions string `json:"instructions,omitempty"`
}

// Complete requires street, city, state and zip. Instructions are optional.
func (a AddressInfo) Complete() bool {
	return strings.TrimSpace(a.Street) != "" &&
		strings.TrimSpace(a.City) != "" &&
		strings.TrimSpace(a.State) != "" &&
		strings.TrimSpace(a.ZipCode) != ""
}
