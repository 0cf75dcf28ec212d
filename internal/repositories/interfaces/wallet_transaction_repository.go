package interfaces

import (
	"context"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type WalletTransactionRepository interface {
	Create(ctx context.Context, entry *models.WalletTransaction) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.WalletTransaction, error)
	// NetAmount sums credits minus debits across every entry of the user.
	NetAmount(ctx context.Context, userID primitive.ObjectID) (float64, error)
}
