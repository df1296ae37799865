package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	MealsCollection     *mongo.Collection
	FoodItemsCollection *mongo.Collection
	ProfilesCollection  *mongo.Collection

	Client *mongo.Client
)

// Connect dials MongoDB, pings it and binds the collection handles.
func Connect(ctx context.Context, uri string) error {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return err
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		return err
	}

	Client = client
	database := client.Database("mealtracker")
	MealsCollection = database.Collection("meals")
	FoodItemsCollection = database.Collection("fooditems")
	ProfilesCollection = database.Collection("profiles")
	return nil
}

// EnsureIndexes creates the indexes the handlers rely on. The strength-2
// collation makes the food-item name unique case-insensitively.
func EnsureIndexes(ctx context.Context) error {
	_, err := FoodItemsCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetCollation(&options.Collation{Locale: "en", Strength: 2}),
	})
	if err != nil {
		return err
	}

	// Meal dates are stored normalized to midnight UTC, so this unique
	// index is what turns two concurrent merge upserts for the same
	// (userId, type, day) bucket into one insert and one append.
	_, err = MealsCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "type", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return err
	}

	_, err = ProfilesCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
