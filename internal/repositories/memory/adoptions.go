package memory

import (
	"context"
	"sort"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type adoptionRepository struct {
	s *Store
}

// Create mirrors the partial unique index on active (user, animal) pairs.
func (r *adoptionRepository) Create(ctx context.Context, adoption *models.VirtualAdoption) error {
	unlock := r.s.lock(ctx)
	defer unlock()

	if adoption.Status == models.AdoptionStatusActive {
		for _, a := range r.s.adoptions {
			if a.UserID == adoption.UserID && a.AnimalID == adoption.AnimalID && a.Status == models.AdoptionStatusActive {
				return wrap("create adoption", interfaces.ErrDuplicate)
			}
		}
	}

	if adoption.ID.IsZero() {
		adoption.ID = primitive.NewObjectID()
	}

	r.s.adoptions = append(r.s.adoptions, *adoption)
	return nil
}

func (r *adoptionRepository) FindActive(ctx context.Context, userID, animalID primitive.ObjectID) (*models.VirtualAdoption, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	for _, a := range r.s.adoptions {
		if a.UserID == userID && a.AnimalID == animalID && a.Status == models.AdoptionStatusActive {
			return &a, nil
		}
	}
	return nil, notFound("find active adoption")
}

func (r *adoptionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.VirtualAdoption, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	adoptions := []*models.VirtualAdoption{}
	for i := len(r.s.adoptions) - 1; i >= 0; i-- {
		if a := r.s.adoptions[i]; a.UserID == userID && a.Status == models.AdoptionStatusActive {
			adoptions = append(adoptions, &a)
		}
	}

	sort.SliceStable(adoptions, func(i, j int) bool {
		return adoptions[i].AdoptionDate.After(adoptions[j].AdoptionDate)
	})
	return adoptions, nil
}

func (r *adoptionRepository) CountActiveByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	unlock := r.s.rlock(ctx)
	defer unlock()

	var n int64
	for _, a := range r.s.adoptions {
		if a.UserID == userID && a.Status == models.AdoptionStatusActive {
			n++
		}
	}
	return n, nil
}
