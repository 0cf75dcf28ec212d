package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Shelter struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty" yaml:"-"`
	Name        string             `json:"name" bson:"name" yaml:"name"`
	City        string             `json:"city" bson:"city" yaml:"city"`
	Address     string             `json:"address,omitempty" bson:"address,omitempty" yaml:"address"`
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty" yaml:"phone"`
	Email       string             `json:"email,omitempty" bson:"email,omitempty" yaml:"email"`
	ImageURL    string             `json:"image_url,omitempty" bson:"image_url,omitempty" yaml:"image_url"`
	Description string             `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at" yaml:"-"`
}
