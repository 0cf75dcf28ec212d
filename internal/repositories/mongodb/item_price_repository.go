package mongodb

import (
	"context"
	"time"

	"shelterfund/internal/models"
	"shelterfund/internal/repositories/interfaces"
	"shelterfund/pkg/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type itemPriceRepository struct {
	collection *mongo.Collection
	cache      CacheService
}

func NewDonationItemPriceRepository(db *mongo.Database, cache CacheService) interfaces.DonationItemPriceRepository {
	return &itemPriceRepository{
		collection: db.Collection(database.CollectionDonationItemPrices),
		cache:      cache,
	}
}

func (r *itemPriceRepository) Upsert(ctx context.Context, price *models.DonationItemPrice) error {
	price.UpdatedAt = time.Now()

	update := bson.M{
		"$set": bson.M{
			"unit_price": price.UnitPrice,
			"currency":   price.Currency,
			"active":     price.Active,
			"updated_at": price.UpdatedAt,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}

	_, err := r.collection.UpdateOne(ctx, bson.M{"type": price.Type}, update, options.Update().SetUpsert(true))
	if err != nil {
		return wrapError("upsert item price", err)
	}

	cacheDelete(ctx, r.cache, priceKey(price.Type), activePricesKey)
	return nil
}

func (r *itemPriceRepository) GetByType(ctx context.Context, itemType string) (*models.DonationItemPrice, error) {
	var price models.DonationItemPrice
	if cacheGet(ctx, r.cache, priceKey(itemType), &price) {
		return &price, nil
	}

	if err := r.collection.FindOne(ctx, bson.M{"type": itemType}).Decode(&price); err != nil {
		return nil, wrapError("get item price", err)
	}

	cacheSet(ctx, r.cache, priceKey(itemType), &price)
	return &price, nil
}

func (r *itemPriceRepository) ListActive(ctx context.Context) ([]*models.DonationItemPrice, error) {
	var prices []*models.DonationItemPrice
	if cacheGet(ctx, r.cache, activePricesKey, &prices) {
		return prices, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"active": true}, options.Find().SetSort(bson.D{{Key: "type", Value: 1}}))
	if err != nil {
		return nil, wrapError("find item prices", err)
	}
	defer cursor.Close(ctx)

	prices = []*models.DonationItemPrice{}
	if err := cursor.All(ctx, &prices); err != nil {
		return nil, wrapError("decode item prices", err)
	}

	cacheSet(ctx, r.cache, activePricesKey, prices)
	return prices, nil
}

const activePricesKey = "item_prices:active"

func priceKey(itemType string) string {
	return "item_price:" + itemType
}
