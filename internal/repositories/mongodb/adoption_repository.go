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

type adoptionRepository struct {
	collection *mongo.Collection
}

func NewAdoptionRepository(db *mongo.Database) interfaces.AdoptionRepository {
	return &adoptionRepository{
		collection: db.Collection(database.CollectionVirtualAdoptions),
	}
}

// Create relies on the partial unique index over (user_id, animal_id) for
// active adoptions; a violation surfaces as ErrDuplicate.
func (r *adoptionRepository) Create(ctx context.Context, adoption *models.VirtualAdoption) error {
	if adoption.ID.IsZero() {
		adoption.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, adoption)
	return wrapError("create adoption", err)
}

func (r *adoptionRepository) FindActive(ctx context.Context, userID, animalID primitive.ObjectID) (*models.VirtualAdoption, error) {
	var adoption models.VirtualAdoption
	err := r.collection.FindOne(ctx, bson.M{
		"user_id":   userID,
		"animal_id": animalID,
		"status":    models.AdoptionStatusActive,
	}).Decode(&adoption)
	if err != nil {
		return nil, wrapError("find active adoption", err)
	}

	return &adoption, nil
}

func (r *adoptionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.VirtualAdoption, error) {
	opts := options.Find().SetSort(bson.D{{Key: "adoption_date", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{
		"user_id": userID,
		"status":  models.AdoptionStatusActive,
	}, opts)
	if err != nil {
		return nil, wrapError("find adoptions", err)
	}
	defer cursor.Close(ctx)

	adoptions := []*models.VirtualAdoption{}
	if err := cursor.All(ctx, &adoptions); err != nil {
		return nil, wrapError("decode adoptions", err)
	}

	return adoptions, nil
}

func (r *adoptionRepository) CountActiveByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{
		"user_id": userID,
		"status":  models.AdoptionStatusActive,
	})
	if err != nil {
		return 0, wrapError("count adoptions", err)
	}
	return count, nil
}
