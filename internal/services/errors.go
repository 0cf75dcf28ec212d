package services

import "errors"

// Domain errors returned by the services and mapped to HTTP codes by the
// handler layer.
var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrDescriptionRequired = errors.New("description is required for this donation type")
	ErrInvalidDonationType = errors.New("invalid donation type")
	ErrInvalidQuantity     = errors.New("invalid quantity")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
	ErrPriceNotConfigured  = errors.New("item price is not configured")
	ErrAlreadyAdopted      = errors.New("animal already adopted by this user")

	ErrUserNotFound    = errors.New("user not found")
	ErrAnimalNotFound  = errors.New("animal not found")
	ErrShelterNotFound = errors.New("shelter not found")

	ErrEmailTaken         = errors.New("email is already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")

	ErrCityRequired  = errors.New("city is required")
	ErrImageTooLarge = errors.New("image exceeds the maximum upload size")
)
