package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shelterfund/pkg/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Migration struct {
	Version     int
	Description string
	Up          func(ctx context.Context, db *mongo.Database) error
	Down        func(ctx context.Context, db *mongo.Database) error
}

type Migrator struct {
	db         *mongo.Database
	migrations []Migration
	logger     *logger.Logger
}

func NewMigrator(db *mongo.Database, log *logger.Logger) *Migrator {
	return &Migrator{
		db:         db,
		migrations: getMigrations(),
		logger:     log,
	}
}

func (m *Migrator) Up(ctx context.Context) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for _, migration := range m.migrations {
		if migration.Version <= currentVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Running migration: %s", migration.Description)

		if err := migration.Up(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if err := m.updateVersion(ctx, migration.Version); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) Down(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.getCurrentVersion(ctx)
	if err != nil {
		return err
	}

	for i := len(m.migrations) - 1; i >= 0; i-- {
		migration := m.migrations[i]
		if migration.Version > currentVersion || migration.Version <= targetVersion {
			continue
		}

		m.logger.WithField("version", migration.Version).Infof("Reverting migration: %s", migration.Description)

		if err := migration.Down(ctx, m.db); err != nil {
			return fmt.Errorf("migration %d rollback failed: %w", migration.Version, err)
		}

		previousVersion := targetVersion
		if i > 0 {
			previousVersion = m.migrations[i-1].Version
		}

		if err := m.updateVersion(ctx, previousVersion); err != nil {
			return fmt.Errorf("failed to update migration version: %w", err)
		}
	}

	return nil
}

func (m *Migrator) getCurrentVersion(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var result struct {
		Version int `bson:"version"`
	}

	err := m.db.Collection(CollectionMigrations).FindOne(ctx, bson.D{}).Decode(&result)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, err
	}

	return result.Version, nil
}

func (m *Migrator) updateVersion(ctx context.Context, version int) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := m.db.Collection(CollectionMigrations).ReplaceOne(
		ctx,
		bson.D{},
		bson.D{{Key: "version", Value: version}, {Key: "updated_at", Value: time.Now()}},
		options.Replace().SetUpsert(true),
	)

	return err
}

func getMigrations() []Migration {
	return []Migration{
		{
			Version:     1,
			Description: "Create users collection with indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createIndexes(ctx, db.Collection(CollectionUsers), []mongo.IndexModel{
					{
						Keys:    bson.D{{Key: "email", Value: 1}},
						Options: options.Index().SetUnique(true),
					},
				})
			},
			Down: dropIndexes(CollectionUsers),
		},
		{
			Version:     2,
			Description: "Create shelters and animals indexes for city and shelter browsing",
			Up: func(ctx context.Context, db *mongo.Database) error {
				if err := createIndexes(ctx, db.Collection(CollectionShelters), []mongo.IndexModel{
					{Keys: bson.D{{Key: "city", Value: 1}, {Key: "name", Value: 1}}},
				}); err != nil {
					return err
				}
				return createIndexes(ctx, db.Collection(CollectionAnimals), []mongo.IndexModel{
					{Keys: bson.D{{Key: "shelter_id", Value: 1}, {Key: "type", Value: 1}}},
					{Keys: bson.D{{Key: "shelter_id", Value: 1}, {Key: "type", Value: 1}, {Key: "name", Value: 1}}},
					{Keys: bson.D{{Key: "shelter_id", Value: 1}, {Key: "type", Value: 1}, {Key: "age", Value: 1}}},
				})
			},
			Down: func(ctx context.Context, db *mongo.Database) error {
				if err := dropIndexes(CollectionShelters)(ctx, db); err != nil {
					return err
				}
				return dropIndexes(CollectionAnimals)(ctx, db)
			},
		},
		{
			Version:     3,
			Description: "Create donations and wallet ledger indexes",
			Up: func(ctx context.Context, db *mongo.Database) error {
				if err := createIndexes(ctx, db.Collection(CollectionDonations), []mongo.IndexModel{
					{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "donation_date", Value: -1}}},
					{Keys: bson.D{{Key: "animal_id", Value: 1}}},
				}); err != nil {
					return err
				}
				return createIndexes(ctx, db.Collection(CollectionWalletTransactions), []mongo.IndexModel{
					{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: -1}}},
					{
						Keys:    bson.D{{Key: "related_donation_id", Value: 1}},
						Options: options.Index().SetSparse(true),
					},
				})
			},
			Down: func(ctx context.Context, db *mongo.Database) error {
				if err := dropIndexes(CollectionDonations)(ctx, db); err != nil {
					return err
				}
				return dropIndexes(CollectionWalletTransactions)(ctx, db)
			},
		},
		{
			Version:     4,
			Description: "Enforce one active virtual adoption per user and animal",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createIndexes(ctx, db.Collection(CollectionVirtualAdoptions), []mongo.IndexModel{
					{
						Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "animal_id", Value: 1}},
						Options: options.Index().
							SetName("uniq_active_adoption").
							SetUnique(true).
							SetPartialFilterExpression(bson.M{"status": "active"}),
					},
					{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "adoption_date", Value: -1}}},
				})
			},
			Down: dropIndexes(CollectionVirtualAdoptions),
		},
		{
			Version:     5,
			Description: "Create donation item price catalog index",
			Up: func(ctx context.Context, db *mongo.Database) error {
				return createIndexes(ctx, db.Collection(CollectionDonationItemPrices), []mongo.IndexModel{
					{
						Keys:    bson.D{{Key: "type", Value: 1}},
						Options: options.Index().SetUnique(true),
					},
				})
			},
			Down: dropIndexes(CollectionDonationItemPrices),
		},
	}
}

func createIndexes(ctx context.Context, collection *mongo.Collection, indexes []mongo.IndexModel) error {
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("failed to create indexes on %s: %w", collection.Name(), err)
	}
	return nil
}

func dropIndexes(name string) func(ctx context.Context, db *mongo.Database) error {
	return func(ctx context.Context, db *mongo.Database) error {
		_, err := db.Collection(name).Indexes().DropAll(ctx)
		return err
	}
}
