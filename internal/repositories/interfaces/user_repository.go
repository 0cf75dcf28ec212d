package interfaces

import (
	"context"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error

	// CompareAndSetBalance writes newBalance only if the stored balance still
	// equals expected, otherwise it returns ErrBalanceChanged.
	CompareAndSetBalance(ctx context.Context, id primitive.ObjectID, expected, newBalance float64) error

	ListIDs(ctx context.Context) ([]primitive.ObjectID, error)
}
