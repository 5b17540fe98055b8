package domain

import "errors"

// Lifecycle errors reported inside the response envelope, never as panics.
var (
	ErrListingNotFound  = errors.New("listing not found")
	ErrAlreadyBooked    = errors.New("listing is not available")
	ErrAlreadyCompleted = errors.New("listing already completed")
	ErrSelfBooking      = errors.New("owner cannot book own listing")
	ErrNotBooked        = errors.New("listing has not been booked")
)
