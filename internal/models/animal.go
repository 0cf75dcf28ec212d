package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Animal struct {
	ID                   primitive.ObjectID `json:"id" bson:"_id,omitempty" yaml:"-"`
	Name                 string             `json:"name" bson:"name" yaml:"name"`
	Type                 string             `json:"type" bson:"type" yaml:"type"`
	Breed                string             `json:"breed,omitempty" bson:"breed,omitempty" yaml:"breed"`
	Age                  int                `json:"age" bson:"age" yaml:"age"`
	Gender               string             `json:"gender,omitempty" bson:"gender,omitempty" yaml:"gender"`
	Description          string             `json:"description,omitempty" bson:"description,omitempty" yaml:"description"`
	ImageURL             string             `json:"image_url,omitempty" bson:"image_url,omitempty" yaml:"image_url"`
	Photos               []string           `json:"photos,omitempty" bson:"photos,omitempty" yaml:"photos"`
	ShelterID            primitive.ObjectID `json:"shelter_id" bson:"shelter_id" yaml:"-"`
	Needs                []string           `json:"needs,omitempty" bson:"needs,omitempty" yaml:"needs"`
	VirtualAdoptersCount int64              `json:"virtual_adopters_count" bson:"virtual_adopters_count" yaml:"-"`
	CreatedAt            time.Time          `json:"created_at" bson:"created_at" yaml:"-"`
}

type AnimalSort string

const (
	AnimalSortNone AnimalSort = ""
	AnimalSortName AnimalSort = "name"
	AnimalSortAge  AnimalSort = "age"
)

// AnimalFilter is the store-level query: equality on shelter and type plus
// an optional server-side ordering.
type AnimalFilter struct {
	ShelterID primitive.ObjectID
	Type      string
	Sort      AnimalSort
	Limit     int
}

type AnimalDetail struct {
	Animal     *Animal  `json:"animal"`
	Shelter    *Shelter `json:"shelter,omitempty"`
	HasAdopted bool     `json:"has_adopted"`
}
