package service

import "errors"

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrInvalidTimeSlot = errors.New("time slot is not one of the offered delivery windows")
	ErrInvalidStep     = errors.New("unknown checkout step")
	ErrNegativeTip     = errors.New("tip amount cannot be negative")
)
