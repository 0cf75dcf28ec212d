package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type shelterRepository struct {
	s *Store
}

func (r *shelterRepository) Upsert(ctx context.Context, shelter *models.Shelter) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if shelter.ID.IsZero() {
		shelter.ID = primitive.NewObjectID()
	}
	if shelter.CreatedAt.IsZero() {
		shelter.CreatedAt = time.Now()
	}

	r.s.shelters[shelter.ID] = *shelter
	return nil
}

func (r *shelterRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Shelter, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	sh, ok := r.s.shelters[id]
	if !ok {
		return nil, notFound("get shelter")
	}
	return &sh, nil
}

func (r *shelterRepository) ListByCity(ctx context.Context, city string, limit int) ([]*models.Shelter, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	shelters := []*models.Shelter{}
	for _, sh := range r.s.shelters {
		if sh.City == city {
			sh := sh
			shelters = append(shelters, &sh)
		}
	}

	sort.Slice(shelters, func(i, j int) bool { return shelters[i].Name < shelters[j].Name })
	if limit > 0 && len(shelters) > limit {
		shelters = shelters[:limit]
	}
	return shelters, nil
}

func (r *shelterRepository) ListCities(ctx context.Context) ([]string, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	seen := make(map[string]struct{})
	cities := []string{}
	for _, sh := range r.s.shelters {
		city := strings.TrimSpace(sh.City)
		if city == "" {
			continue
		}
		if _, ok := seen[city]; !ok {
			seen[city] = struct{}{}
			cities = append(cities, city)
		}
	}

	sort.Strings(cities)
	return cities, nil
}
