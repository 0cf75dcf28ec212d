package interfaces

import (
	"context"

	"shelterfund/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationRepository interface {
	Create(ctx context.Context, donation *models.Donation) error
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Donation, error)
	CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type DonationItemPriceRepository interface {
	Upsert(ctx context.Context, price *models.DonationItemPrice) error
	GetByType(ctx context.Context, itemType string) (*models.DonationItemPrice, error)
	ListActive(ctx context.Context) ([]*models.DonationItemPrice, error)
}
