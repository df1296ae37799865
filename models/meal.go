package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MealTypes is the fixed set of buckets a day is divided into. A user has
// at most one meal per (userId, type, calendar day).
var MealTypes = []string{"Breakfast", "Lunch", "Dinner", "Snack"}

func ValidMealType(t string) bool {
	for _, mt := range MealTypes {
		if mt == t {
			return true
		}
	}
	return false
}

// MealItem is a denormalized snapshot of a catalog entry at the moment it
// was logged. Items carry no id of their own; later edits to the catalog
// must not rewrite meal history.
type MealItem struct {
	Name     string  `bson:"name"     json:"name"`
	Weight   string  `bson:"weight"   json:"weight"`
	Calories float64 `bson:"calories" json:"calories"`
	Protein  float64 `bson:"protein"  json:"protein"`
	Carbs    float64 `bson:"carbs"    json:"carbs"`
	Fat      float64 `bson:"fat"      json:"fat"`
}

type Meal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	UserID    string             `bson:"userId"        json:"userId"`
	Date      time.Time          `bson:"date"          json:"date"`
	Type      string             `bson:"type"          json:"type"`
	Items     []MealItem         `bson:"items"         json:"items"`
	CreatedAt time.Time          `bson:"createdAt"     json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"     json:"updatedAt"`
}
