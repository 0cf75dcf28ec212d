package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationStatus string
type PaymentMethod string

const (
	DonationStatusCompleted DonationStatus = "completed"

	PaymentMethodWallet PaymentMethod = "wallet"
)

// Donation types. Catalog item types carry a unit price in the
// donation_item_prices collection; cash and other take a user amount.
const (
	DonationTypeFood     = "Mama"
	DonationTypeToy      = "Oyuncak"
	DonationTypeMedicine = "İlaç"
	DonationTypeCash     = "Nakit"
	DonationTypeOther    = "Diğer"
)

type Donation struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID        primitive.ObjectID `json:"user_id" bson:"user_id"`
	UserName      string             `json:"user_name" bson:"user_name"`
	AnimalID      primitive.ObjectID `json:"animal_id" bson:"animal_id"`
	AnimalName    string             `json:"animal_name" bson:"animal_name"`
	ShelterID     primitive.ObjectID `json:"shelter_id" bson:"shelter_id"`
	ShelterName   string             `json:"shelter_name" bson:"shelter_name"`
	DonationType  string             `json:"donation_type" bson:"donation_type"`
	Quantity      int                `json:"quantity,omitempty" bson:"quantity,omitempty"`
	Amount        float64            `json:"amount" bson:"amount"`
	Currency      string             `json:"currency" bson:"currency"`
	Description   string             `json:"description" bson:"description"`
	DonationDate  time.Time          `json:"donation_date" bson:"donation_date"`
	Status        DonationStatus     `json:"status" bson:"status"`
	PaymentMethod PaymentMethod      `json:"payment_method" bson:"payment_method"`
}

type DonationItemPrice struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty" yaml:"-"`
	Type      string             `json:"type" bson:"type" yaml:"type"`
	UnitPrice float64            `json:"unit_price" bson:"unit_price" yaml:"unit_price"`
	Currency  string             `json:"currency" bson:"currency" yaml:"currency"`
	Active    bool               `json:"active" bson:"active" yaml:"active"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at" yaml:"-"`
}
