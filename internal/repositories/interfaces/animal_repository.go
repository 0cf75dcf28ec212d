package interfaces

import (
	"context"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AnimalRepository interface {
	Upsert(ctx context.Context, animal *models.Animal) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Animal, error)
	List(ctx context.Context, filter *models.AnimalFilter) ([]*models.Animal, error)
	ListTypes(ctx context.Context, shelterID primitive.ObjectID) ([]string, error)
	IncrementAdopters(ctx context.Context, id primitive.ObjectID, delta int64) error
}
