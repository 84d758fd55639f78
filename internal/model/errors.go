package model

import "errors"

// Common errors used across the application
var (
	// Storage errors
	ErrKeyNotFound = errors.New("key not found")

	// Catalog errors
	ErrVenueNotFound   = errors.New("venue not found")
	ErrCoachNotFound   = errors.New("coach not found")
	ErrProductNotFound = errors.New("product not found")
	ErrNewsNotFound    = errors.New("news item not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrVenueExists     = errors.New("venue already exists")
	ErrInvalidVenue    = errors.New("invalid venue")
)
