package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdoptionStatus string

const (
	AdoptionStatusActive    AdoptionStatus = "active"
	AdoptionStatusCancelled AdoptionStatus = "cancelled"
)

type VirtualAdoption struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID       primitive.ObjectID `json:"user_id" bson:"user_id"`
	AnimalID     primitive.ObjectID `json:"animal_id" bson:"animal_id"`
	AnimalName   string             `json:"animal_name" bson:"animal_name"`
	AnimalType   string             `json:"animal_type,omitempty" bson:"animal_type,omitempty"`
	ImageURL     string             `json:"image_url,omitempty" bson:"image_url,omitempty"`
	ShelterID    primitive.ObjectID `json:"shelter_id" bson:"shelter_id"`
	AdoptionDate time.Time          `json:"adoption_date" bson:"adoption_date"`
	Status       AdoptionStatus     `json:"status" bson:"status"`
}
