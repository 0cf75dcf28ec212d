package memory

import (
	"context"
	"sort"
	"time"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type animalRepository struct {
	s *Store
}

func (r *animalRepository) Upsert(ctx context.Context, animal *models.Animal) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if animal.ID.IsZero() {
		animal.ID = primitive.NewObjectID()
	}
	if animal.CreatedAt.IsZero() {
		animal.CreatedAt = time.Now()
	}

	r.s.animals[animal.ID] = *animal
	return nil
}

func (r *animalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Animal, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	a, ok := r.s.animals[id]
	if !ok {
		return nil, notFound("get animal")
	}
	return &a, nil
}

func (r *animalRepository) List(ctx context.Context, filter *models.AnimalFilter) ([]*models.Animal, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	animals := []*models.Animal{}
	for _, a := range r.s.animals {
		if a.ShelterID != filter.ShelterID {
			continue
		}
		if filter.Type != "" && a.Type != filter.Type {
			continue
		}
		a := a
		animals = append(animals, &a)
	}

	// Natural order is insertion order.
	sort.SliceStable(animals, func(i, j int) bool {
		return animals[i].ID.Hex() < animals[j].ID.Hex()
	})
	switch filter.Sort {
	case models.AnimalSortName:
		sort.SliceStable(animals, func(i, j int) bool { return animals[i].Name < animals[j].Name })
	case models.AnimalSortAge:
		sort.SliceStable(animals, func(i, j int) bool { return animals[i].Age < animals[j].Age })
	}

	if filter.Limit > 0 && len(animals) > filter.Limit {
		animals = animals[:filter.Limit]
	}
	return animals, nil
}

func (r *animalRepository) ListTypes(ctx context.Context, shelterID primitive.ObjectID) ([]string, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	seen := make(map[string]struct{})
	types := []string{}
	for _, a := range r.s.animals {
		if a.ShelterID != shelterID || a.Type == "" {
			continue
		}
		if _, ok := seen[a.Type]; !ok {
			seen[a.Type] = struct{}{}
			types = append(types, a.Type)
		}
	}

	sort.Strings(types)
	return types, nil
}

func (r *animalRepository) IncrementAdopters(ctx context.Context, id primitive.ObjectID, delta int64) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	a, ok := r.s.animals[id]
	if !ok {
		return notFound("increment adopters")
	}

	a.VirtualAdoptersCount += delta
	r.s.animals[id] = a
	return nil
}
