package utils

import "time"

// Application Constants
const (
	AppName = "shelterfund"

	// Listing limits
	DefaultPageSize = 50
	MaxPageSize     = 100

	// Authentication
	JWTAccessTokenTTL = 7 * 24 * time.Hour
)

// HTTP Status Messages
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Error Messages
const (
	ErrInvalidToken     = "invalid token"
	ErrInternalServer   = "internal server error"
	ErrUnauthorized     = "unauthorized"
	ErrValidationFailed = "validation failed"
)

// Error codes returned in the response envelope.
const (
	CodeValidationError     = "VALIDATION_ERROR"
	CodeInvalidAmount       = "INVALID_AMOUNT"
	CodeDescriptionRequired = "DESCRIPTION_REQUIRED"
	CodeInvalidDonationType = "INVALID_DONATION_TYPE"
	CodeInvalidQuantity     = "INVALID_QUANTITY"
	CodeInsufficientBalance = "INSUFFICIENT_BALANCE"
	CodeAlreadyAdopted      = "ALREADY_ADOPTED"
	CodePriceNotConfigured  = "PRICE_NOT_CONFIGURED"
	CodeBalanceChanged      = "BALANCE_CHANGED"
	CodeNotFound            = "NOT_FOUND"
	CodeMissingIndex        = "MISSING_INDEX"
	CodeEmailTaken          = "EMAIL_TAKEN"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeBadRequest          = "BAD_REQUEST"
	CodeImageTooLarge       = "IMAGE_TOO_LARGE"
	CodeUnsupportedImage    = "UNSUPPORTED_IMAGE"
	CodeInternalError       = "INTERNAL_ERROR"
)

// Real-time event types
const (
	EventWalletUpdated     = "wallet.updated"
	EventDonationCompleted = "donation.completed"
	EventAdoptionCreated   = "adoption.created"
	EventSessionChanged    = "session.changed"
)

// File Types
var (
	AllowedImageTypes = []string{"jpg", "jpeg", "png"}
)
