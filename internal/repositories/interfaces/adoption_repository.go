package interfaces

import (
	"context"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AdoptionRepository interface {
	// Create returns ErrDuplicate when an active adoption already exists for
	// the same user and animal.
	Create(ctx context.Context, adoption *models.VirtualAdoption) error
	FindActive(ctx context.Context, userID, animalID primitive.ObjectID) (*models.VirtualAdoption, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.VirtualAdoption, error)
	CountActiveByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}
