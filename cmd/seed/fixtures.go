package main

import (
	"errors"
	"fmt"
	"strings"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"
)

// Fixture IDs are fixed hex ObjectIDs so that re-running the seeder updates
// documents in place instead of duplicating them.
type fixtures struct {
	Shelters   []shelterFixture `yaml:"shelters"`
	ItemPrices []priceFixture   `yaml:"item_prices"`
}

type shelterFixture struct {
	ID             string `yaml:"id"`
	models.Shelter `yaml:",inline"`
	Animals        []animalFixture `yaml:"animals"`
}

type animalFixture struct {
	ID            string `yaml:"id"`
	models.Animal `yaml:",inline"`
}

type priceFixture struct {
	Type      string  `yaml:"type"`
	UnitPrice float64 `yaml:"unit_price"`
	Active    *bool   `yaml:"active"`
}

func parseFixtures(data []byte) (*fixtures, error) {
	var f fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	var errs []error
	for i := range f.Shelters {
		s := &f.Shelters[i]
		id, err := primitive.ObjectIDFromHex(s.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("shelter %d: invalid id %q", i, s.ID))
		}
		s.Shelter.ID = id
		if strings.TrimSpace(s.Name) == "" || strings.TrimSpace(s.City) == "" {
			errs = append(errs, fmt.Errorf("shelter %d: name and city are required", i))
		}

		for j := range s.Animals {
			a := &s.Animals[j]
			animalID, err := primitive.ObjectIDFromHex(a.ID)
			if err != nil {
				errs = append(errs, fmt.Errorf("shelter %d animal %d: invalid id %q", i, j, a.ID))
			}
			a.Animal.ID = animalID
			a.ShelterID = id
			if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.Type) == "" {
				errs = append(errs, fmt.Errorf("shelter %d animal %d: name and type are required", i, j))
			}
			if a.Age < 0 {
				errs = append(errs, fmt.Errorf("shelter %d animal %d: negative age", i, j))
			}
		}
	}

	for i, p := range f.ItemPrices {
		if p.Type == "" {
			errs = append(errs, fmt.Errorf("item price %d: type is required", i))
		}
		if p.UnitPrice <= 0 {
			errs = append(errs, fmt.Errorf("item price %q: unit price must be positive", p.Type))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return &f, nil
}

func (p priceFixture) model(currency string) *models.DonationItemPrice {
	active := true
	if p.Active != nil {
		active = *p.Active
	}
	return &models.DonationItemPrice{
		Type:      p.Type,
		UnitPrice: p.UnitPrice,
		Currency:  currency,
		Active:    active,
	}
}
