package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
	GenderOther  Gender = "other"
)

type User struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	DisplayName     string             `json:"display_name" bson:"display_name" validate:"required"`
	Email           string             `json:"email" bson:"email" validate:"required,email"`
	Password        string             `json:"-" bson:"password"`
	Age             int                `json:"age,omitempty" bson:"age,omitempty"`
	Gender          Gender             `json:"gender,omitempty" bson:"gender,omitempty"`
	City            string             `json:"city" bson:"city"`
	Bio             string             `json:"bio,omitempty" bson:"bio,omitempty"`
	ProfileImageURL string             `json:"profile_image_url,omitempty" bson:"profile_image_url,omitempty"`
	WalletBalance   float64            `json:"wallet_balance" bson:"wallet_balance"`
	FCMToken        string             `json:"-" bson:"fcm_token,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at" bson:"updated_at"`
}

// HasCity reports whether the user finished city selection.
func (u *User) HasCity() bool {
	return u.City != ""
}

type UserStats struct {
	DonationCount       int64 `json:"donation_count"`
	ActiveAdoptionCount int64 `json:"active_adoption_count"`
}

type UserProfile struct {
	User  *User      `json:"user"`
	Stats *UserStats `json:"stats"`
}
