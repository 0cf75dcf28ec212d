package mongodb

import (
	"context"
	"fmt"
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

type shelterRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewShelterRepository(db *mongo.Database, cache CacheService) interfaces.ShelterRepository {
	return &shelterRepository{
		collection: db.Collection(database.CollectionShelters),
		cache:      cache,
	}
}

func (r *shelterRepository) Upsert(ctx context.Context, shelter *models.Shelter) error {
	if shelter.ID.IsZero() {
		shelter.ID = primitive.NewObjectID()
	}
	if shelter.CreatedAt.IsZero() {
		shelter.CreatedAt = time.Now()
	}

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": shelter.ID}, shelter, options.Replace().SetUpsert(true))
	if err != nil {
		return wrapError("upsert shelter", err)
	}

	// City listings are keyed by limit and expire with the cache TTL.
	cacheDelete(ctx, r.cache, shelterKey(shelter.ID), citiesKey)
	return nil
}

func (r *shelterRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Shelter, error) {
	var shelter models.Shelter
	if cacheGet(ctx, r.cache, shelterKey(id), &shelter) {
		return &shelter, nil
	}

	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shelter); err != nil {
		return nil, wrapError("get shelter", err)
	}

	cacheSet(ctx, r.cache, shelterKey(id), &shelter)
	return &shelter, nil
}

func (r *shelterRepository) ListByCity(ctx context.Context, city string, limit int) ([]*models.Shelter, error) {
	key := fmt.Sprintf("shelters:city:%s:%d", city, limit)

	var shelters []*models.Shelter
	if cacheGet(ctx, r.cache, key, &shelters) {
		return shelters, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"city": city}, opts)
	if err != nil {
		return nil, wrapError("find shelters", err)
	}
	defer cursor.Close(ctx)

	shelters = []*models.Shelter{}
	if err := cursor.All(ctx, &shelters); err != nil {
		return nil, wrapError("decode shelters", err)
	}

	cacheSet(ctx, r.cache, key, shelters)
	return shelters, nil
}

func (r *shelterRepository) ListCities(ctx context.Context) ([]string, error) {
	var cities []string
	if cacheGet(ctx, r.cache, citiesKey, &cities) {
		return cities, nil
	}

	values, err := r.collection.Distinct(ctx, "city", bson.M{})
	if err != nil {
		return nil, wrapError("list cities", err)
	}

	cities = make([]string, 0, len(values))
	for _, v := range values {
		if city, ok := v.(string); ok && city != "" {
			cities = append(cities, city)
		}
	}
	sort.Strings(cities)

	cacheSet(ctx, r.cache, citiesKey, cities)
	return cities, nil
}

const citiesKey = "cities"

func shelterKey(id primitive.ObjectID) string {
	return "shelter:" + id.Hex()
}
