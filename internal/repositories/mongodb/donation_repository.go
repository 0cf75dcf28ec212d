package mongodb

import (
	"context"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type donationRepository struct {
	collection *mongo.Collection
}

func NewDonationRepository(db *mongo.Database) interfaces.DonationRepository {
	return &donationRepository{
		collection: db.Collection(database.CollectionDonations),
	}
}

func (r *donationRepository) Create(ctx context.Context, donation *models.Donation) error {
	if donation.ID.IsZero() {
		donation.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, donation)
	return wrapError("create donation", err)
}

func (r *donationRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Donation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "donation_date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapError("find donations", err)
	}
	defer cursor.Close(ctx)

	donations := []*models.Donation{}
	if err := cursor.All(ctx, &donations); err != nil {
		return nil, wrapError("decode donations", err)
	}

	return donations, nil
}

func (r *donationRepository) CountByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, wrapError("count donations", err)
	}
	return count, nil
}
