package handlers

import "errors"

// Sentinel errors used inside transactions so HTTP handlers can map a rolled
// back transaction to the right status code.
var (
	errCapacityExhausted  = errors.New("no available slots")
	errInvalidTransition  = errors.New("invalid status transition")
	errInsufficientPoints = errors.New("insufficient points")
	errRewardNotFound     = errors.New("reward not found or inactive")

	errMenuItemNotFound    = errors.New("menu item not found")
	errMenuItemUnavailable = errors.New("menu item unavailable")
)
