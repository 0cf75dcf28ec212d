package mongodb

import (
	"context"
	"strings"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// userRepository never caches: user documents carry the wallet balance,
// which must always be read from the store.
type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) interfaces.UserRepository {
	return &userRepository{
		collection: db.Collection(database.CollectionUsers),
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt

	_, err := r.collection.InsertOne(ctx, user)
	return wrapError("create user", err)
}

func (r *userRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		return nil, wrapError("get user", err)
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{
		"email": strings.ToLower(strings.TrimSpace(email)),
	}).Decode(&user)
	if err != nil {
		return nil, wrapError("get user by email", err)
	}

	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) error {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range updates {
		set[k] = v
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return wrapError("update user", err)
	}
	if result.MatchedCount == 0 {
		return wrapError("update user", mongo.ErrNoDocuments)
	}

	return nil
}

// balanceFilter matches the user only while the stored balance still equals
// expected.
func balanceFilter(id primitive.ObjectID, expected float64) bson.M {
	if expected == 0 {
		// Users created before the wallet existed have no balance field.
		return bson.M{
			"_id": id,
			"$or": bson.A{
				bson.M{"wallet_balance": 0},
				bson.M{"wallet_balance": bson.M{"$exists": false}},
			},
		}
	}
	return bson.M{"_id": id, "wallet_balance": expected}
}

func (r *userRepository) CompareAndSetBalance(ctx context.Context, id primitive.ObjectID, expected, newBalance float64) error {
	result, err := r.collection.UpdateOne(ctx, balanceFilter(id, expected), bson.M{
		"$set": bson.M{
			"wallet_balance": newBalance,
			"updated_at":     time.Now(),
		},
	})
	if err != nil {
		return wrapError("update wallet balance", err)
	}

	if result.MatchedCount == 0 {
		return interfaces.ErrBalanceChanged
	}

	return nil
}

func (r *userRepository) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, wrapError("list users", err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, wrapError("decode user id", err)
		}
		ids = append(ids, doc.ID)
	}

	return ids, wrapError("iterate users", cursor.Err())
}
