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

type walletTransactionRepository struct {
	collection *mongo.Collection
}

func NewWalletTransactionRepository(db *mongo.Database) interfaces.WalletTransactionRepository {
	return &walletTransactionRepository{
		collection: db.Collection(database.CollectionWalletTransactions),
	}
}

func (r *walletTransactionRepository) Create(ctx context.Context, entry *models.WalletTransaction) error {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}

	_, err := r.collection.InsertOne(ctx, entry)
	return wrapError("create wallet transaction", err)
}

func (r *walletTransactionRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, limit int) ([]*models.WalletTransaction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, wrapError("find wallet transactions", err)
	}
	defer cursor.Close(ctx)

	entries := []*models.WalletTransaction{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, wrapError("decode wallet transactions", err)
	}

	return entries, nil
}

// netAmountPipeline sums deposits as credits and every other entry type as
// a debit.
func netAmountPipeline(userID primitive.ObjectID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user_id": userID}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"net": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$eq": bson.A{"$type", models.WalletTransactionDeposit}},
					"$amount",
					bson.M{"$multiply": bson.A{"$amount", -1}},
				},
			}},
		}}},
	}
}

func (r *walletTransactionRepository) NetAmount(ctx context.Context, userID primitive.ObjectID) (float64, error) {
	cursor, err := r.collection.Aggregate(ctx, netAmountPipeline(userID))
	if err != nil {
		return 0, wrapError("aggregate wallet transactions", err)
	}
	defer cursor.Close(ctx)

	var result struct {
		Net float64 `bson:"net"`
	}
	if cursor.Next(ctx) {
		if err := cursor.Decode(&result); err != nil {
			return 0, wrapError("decode wallet net amount", err)
		}
	}

	return result.Net, wrapError("iterate wallet net amount", cursor.Err())
}
