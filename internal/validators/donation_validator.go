package validators

// DonationRequest carries the raw amount string; parsing and the
// type-specific rules live in the donation service so each failure keeps
// its own error code.
type DonationRequest struct {
	DonationType string `json:"donation_type" validate:"not_blank"`
	Quantity     int    `json:"quantity" validate:"min=0"`
	Amount       string `json:"amount" validate:"max=32"`
	Description  string `json:"description" validate:"max=500"`
}

type DepositRequest struct {
	Amount string `json:"amount" validate:"not_blank,max=32"`
}
