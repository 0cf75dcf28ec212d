package mongodb

import (
	"context"
	"sort"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type animalRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewAnimalRepository(db *mongo.Database, cache CacheService) interfaces.AnimalRepository {
	return &animalRepository{
		collection: db.Collection(database.CollectionAnimals),
		cache:      cache,
	}
}

func (r *animalRepository) Upsert(ctx context.Context, animal *models.Animal) error {
	if animal.ID.IsZero() {
		animal.ID = primitive.NewObjectID()
	}
	if animal.CreatedAt.IsZero() {
		animal.CreatedAt = time.Now()
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": animal.ID}, animal, options.Replace().SetUpsert(true))
	if err != nil {
		return wrapError("upsert animal", err)
	}

	cacheDelete(ctx, r.cache, animalKey(animal.ID), animalTypesKey(animal.ShelterID))
	return nil
}

func (r *animalRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Animal, error) {
	var animal models.Animal
	if cacheGet(ctx, r.cache, animalKey(id), &animal) {
		return &animal, nil
	}

	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&animal); err != nil {
		return nil, wrapError("get animal", err)
	}

	cacheSet(ctx, r.cache, animalKey(id), &animal)
	return &animal, nil
}

func (r *animalRepository) List(ctx context.Context, filter *models.AnimalFilter) ([]*models.Animal, error) {
	query := bson.M{"shelter_id": filter.ShelterID}
	if filter.Type != "" {
		query["type"] = filter.Type
	}

	opts := options.Find()
	switch filter.Sort {
	case models.AnimalSortName:
		opts.SetSort(bson.D{{Key: "name", Value: 1}})
	case models.AnimalSortAge:
		opts.SetSort(bson.D{{Key: "age", Value: 1}})
	}
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, wrapError("find animals", err)
	}
	defer cursor.Close(ctx)

	animals := []*models.Animal{}
	for cursor.Next(ctx) {
		var animal models.Animal
		if err := cursor.Decode(&animal); err != nil {
			return nil, wrapError("decode animal", err)
		}
		animals = append(animals, &animal)
	}

	if err := cursor.Err(); err != nil {
		return nil, wrapError("iterate animals", err)
	}

	return animals, nil
}

func (r *animalRepository) ListTypes(ctx context.Context, shelterID primitive.ObjectID) ([]string, error) {
	var types []string
	if cacheGet(ctx, r.cache, animalTypesKey(shelterID), &types) {
		return types, nil
	}

	values, err := r.collection.Distinct(ctx, "type", bson.M{"shelter_id": shelterID})
	if err != nil {
		return nil, wrapError("list animal types", err)
	}

	types = make([]string, 0, len(values))
	for _, v := range values {
		if t, ok := v.(string); ok && t != "" {
			types = append(types, t)
		}
	}
	sort.Strings(types)

	cacheSet(ctx, r.cache, animalTypesKey(shelterID), types)
	return types, nil
}

func (r *animalRepository) IncrementAdopters(ctx context.Context, id primitive.ObjectID, delta int64) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"virtual_adopters_count": delta},
	})
	if err != nil {
		return wrapError("increment adopters", err)
	}
	if result.MatchedCount == 0 {
		return wrapError("increment adopters", mongo.ErrNoDocuments)
	}

	cacheDelete(ctx, r.cache, animalKey(id))
	return nil
}

func animalKey(id primitive.ObjectID) string {
	return "animal:" + id.Hex()
}

func animalTypesKey(shelterID primitive.ObjectID) string {
	return "animal_types:" + shelterID.Hex()
}
