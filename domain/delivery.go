package domain

import (
	"fmt"
	"time"
)

// DeliveryInfo is the chosen delivery window. Date stays nil until the
// customer picks one.
type DeliveryInfo struct {
	Date         *time.Time `json:"date"`
	TimeSlot     string     `json:"time_slot"`
	Address      string     `json:"address"`
	Instructions string     `json:"instructions,omitempty"`
}

// Complete requires both a date and a valid slot.
func (d DeliveryInfo) Complete() bool {
	return d.Date != nil && ValidTimeSlot(d.TimeSlot)
}

// TimeSlots returns the fixed half-hour delivery windows between 10:00 and
// 21:30, formatted as "15:04".
func TimeSlots() []string {
	slots := make([]string, 0, 24)
	for h := 10; h <= 21; h++ {
		slots = append(slots, fmt.Sprintf("%02d:00", h), fmt.Sprintf("%02d:30", h))
	}
	return slots
}

func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots() {
		if s == slot {
			return true
		}
	}
	return false
}
