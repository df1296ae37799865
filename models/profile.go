package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Goals a profile can aim for. The multiplier each one applies to TDEE
// lives in the goals package.
var Goals = []string{"Weight Loss", "Muscle Gain", "Maintenance"}

func ValidGoal(g string) bool {
	for _, goal := range Goals {
		if goal == g {
			return true
		}
	}
	return false
}

// UserProfile holds biometrics and macro targets, one record per userId.
type UserProfile struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"  json:"_id"`
	UserID         string             `bson:"userId"         json:"userId"`
	Email          string             `bson:"email"          json:"email"`
	Goal           string             `bson:"goal"           json:"goal"`
	TargetWeight   float64            `bson:"targetWeight"   json:"targetWeight"`
	Height         float64            `bson:"height"         json:"height"`
	CurrentWeight  float64            `bson:"currentWeight"  json:"currentWeight"`
	TargetCalories float64            `bson:"targetCalories" json:"targetCalories"`
	TargetProtein  float64            `bson:"targetProtein"  json:"targetProtein"`
	TargetCarbs    float64            `bson:"targetCarbs"    json:"targetCarbs"`
	TargetFat      float64            `bson:"targetFat"      json:"targetFat"`
	CreatedAt      time.Time          `bson:"createdAt"      json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"      json:"updatedAt"`
}
