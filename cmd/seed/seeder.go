package main

import (
	"context"
	"errors"
	"fmt"

	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/logger"
)

type seeder struct {
	shelters interfaces.ShelterRepository
	animals  interfaces.AnimalRepository
	prices   interfaces.DonationItemPriceRepository
	currency string
	logger   *logger.Logger
}

type seedSummary struct {
	Shelters   int
	Animals    int
	ItemPrices int
}

func (s *seeder) run(ctx context.Context, f *fixtures) (*seedSummary, error) {
	summary := &seedSummary{}

	for i := range f.Shelters {
		sf := &f.Shelters[i]
		shelter := sf.Shelter
		if err := s.shelters.Upsert(ctx, &shelter); err != nil {
			return summary, fmt.Errorf("shelter %s: %w", shelter.Name, err)
		}
		summary.Shelters++

		for j := range sf.Animals {
			animal := sf.Animals[j].Animal
			// Adopter counters belong to live data; a re-seed must not reset them.
			existing, err := s.animals.GetByID(ctx, animal.ID)
			switch {
			case err == nil:
				animal.VirtualAdoptersCount = existing.VirtualAdoptersCount
				animal.CreatedAt = existing.CreatedAt
			case !errors.Is(err, interfaces.ErrNotFound):
				return summary, fmt.Errorf("animal %s: %w", animal.Name, err)
			}

			if err := s.animals.Upsert(ctx, &animal); err != nil {
				return summary, fmt.Errorf("animal %s: %w", animal.Name, err)
			}
			summary.Animals++
		}
	}

	for _, p := range f.ItemPrices {
		if err := s.prices.Upsert(ctx, p.model(s.currency)); err != nil {
			return summary, fmt.Errorf("item price %s: %w", p.Type, err)
		}
		summary.ItemPrices++
	}

	s.logger.WithFields(map[string]interface{}{
		"shelters":    summary.Shelters,
		"animals":     summary.Animals,
		"item_prices": summary.ItemPrices,
	}).Info("Seed complete")
	return summary, nil
}
