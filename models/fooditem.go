package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FoodItem is a catalog entry. Name is unique case-insensitively (enforced
// by a collated index on the collection). Weight is an opaque display
// string such as "100g" or "1 cup"; no unit conversion happens anywhere.
type FoodItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name      string             `bson:"name"          json:"name"`
	Weight    string             `bson:"weight"        json:"weight"`
	Calories  float64            `bson:"calories"      json:"calories"`
	Protein   float64            `bson:"protein"       json:"protein"`
	Carbs     float64            `bson:"carbs"         json:"carbs"`
	Fat       float64            `bson:"fat"           json:"fat"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}
