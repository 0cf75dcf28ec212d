package interfaces

import (
	"context"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ShelterRepository interface {
	Upsert(ctx context.Context, shelter *models.Shelter) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Shelter, error)
	ListByCity(ctx context.Context, city string, limit int) ([]*models.Shelter, error)
	ListCities(ctx context.Context) ([]string, error)
}
