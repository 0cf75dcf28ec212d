package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WalletTransactionType string

const (
	WalletTransactionDeposit    WalletTransactionType = "deposit"
	WalletTransactionDonation   WalletTransactionType = "donation"
	WalletTransactionWithdrawal WalletTransactionType = "withdrawal"
)

// Credits reports whether the entry increases the wallet balance.
func (t WalletTransactionType) Credits() bool {
	return t == WalletTransactionDeposit
}

type WalletTransaction struct {
	ID                primitive.ObjectID    `json:"id" bson:"_id,omitempty"`
	UserID            primitive.ObjectID    `json:"user_id" bson:"user_id"`
	Type              WalletTransactionType `json:"type" bson:"type"`
	Amount            float64               `json:"amount" bson:"amount"`
	Currency          string                `json:"currency" bson:"currency"`
	Description       string                `json:"description" bson:"description"`
	Date              time.Time             `json:"date" bson:"date"`
	RelatedDonationID *primitive.ObjectID   `json:"related_donation_id,omitempty" bson:"related_donation_id,omitempty"`
	RelatedAnimalID   *primitive.ObjectID   `json:"related_animal_id,omitempty" bson:"related_animal_id,omitempty"`
	RelatedShelterID  *primitive.ObjectID   `json:"related_shelter_id,omitempty" bson:"related_shelter_id,omitempty"`
}

type Wallet struct {
	Balance      float64              `json:"balance"`
	Currency     string               `json:"currency"`
	Transactions []*WalletTransaction `json:"transactions"`
}
