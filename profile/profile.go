package profile

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"time"

	"kalori/db"
	"kalori/goals"
	"kalori/models"
	"kalori/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type profilePayload struct {
	UserID         string   `json:"userId"`
	Email          string   `json:"email"`
	Goal           string   `json:"goal"`
	TargetWeight   *float64 `json:"targetWeight"`
	Height         *float64 `json:"height"`
	CurrentWeight  *float64 `json:"currentWeight"`
	TargetCalories *float64 `json:"targetCalories"`
	TargetProtein  *float64 `json:"targetProtein"`
	TargetCarbs    *float64 `json:"targetCarbs"`
	TargetFat      *float64 `json:"targetFat"`
}

func validateProfilePayload(req profilePayload) []utils.FieldError {
	var errs []utils.FieldError
	if req.UserID == "" {
		errs = append(errs, utils.FieldError{Path: "userId", Msg: "userId is required"})
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		errs = append(errs, utils.FieldError{Path: "email", Msg: "Valid email is required"})
	}
	if !models.ValidGoal(req.Goal) {
		errs = append(errs, utils.FieldError{Path: "goal", Msg: "Valid goal is required"})
	}
	for _, f := range []struct {
		name  string
		label string
		value *float64
	}{
		{"targetWeight", "Target weight", req.TargetWeight},
		{"height", "Height", req.Height},
		{"currentWeight", "Current weight", req.CurrentWeight},
		{"targetCalories", "Target calories", req.TargetCalories},
		{"targetProtein", "Target protein", req.TargetProtein},
		{"targetCarbs", "Target carbs", req.TargetCarbs},
		{"targetFat", "Target fat", req.TargetFat},
	} {
		if f.value == nil || *f.value < 0 {
			errs = append(errs, utils.FieldError{
				Path: f.name,
				Msg:  f.label + " must be a non-negative number",
			})
		}
	}
	return errs
}

// DefaultProfile is what a user sees before they have saved anything.
func DefaultProfile(userID string) models.UserProfile {
	now := time.Now().UTC()
	return models.UserProfile{
		ID:             primitive.NewObjectID(),
		UserID:         userID,
		Email:          "user@example.com",
		Goal:           "Weight Loss",
		TargetWeight:   70,
		Height:         175,
		CurrentWeight:  80,
		TargetCalories: 2000,
		TargetProtein:  150,
		TargetCarbs:    200,
		TargetFat:      67,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// GetProfile returns the user's profile, lazily creating the default
// one on first read.
func GetProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing userId")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var prof models.UserProfile
	err := db.ProfilesCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&prof)
	if errors.Is(err, mongo.ErrNoDocuments) {
		prof = DefaultProfile(userID)
		if _, err := db.ProfilesCollection.InsertOne(ctx, prof); err != nil {
			utils.RespondWithServerError(w, err)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, prof)
		return
	}
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prof)
}

// UpdateProfile upserts the full profile keyed by userId.
func UpdateProfile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req profilePayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateProfilePayload(req); len(errs) > 0 {
		utils.RespondWithFieldErrors(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"userId":         req.UserID,
			"email":          req.Email,
			"goal":           req.Goal,
			"targetWeight":   *req.TargetWeight,
			"height":         *req.Height,
			"currentWeight":  *req.CurrentWeight,
			"targetCalories": *req.TargetCalories,
			"targetProtein":  *req.TargetProtein,
			"targetCarbs":    *req.TargetCarbs,
			"targetFat":      *req.TargetFat,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{"createdAt": now},
	}

	var prof models.UserProfile
	err := db.ProfilesCollection.FindOneAndUpdate(ctx,
		bson.M{"userId": req.UserID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)).Decode(&prof)
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, prof)
}

type calculateGoalsRequest struct {
	Height        *float64 `json:"height"`
	CurrentWeight *float64 `json:"currentWeight"`
	Goal          string   `json:"goal"`
	Age           *float64 `json:"age"`
	Gender        *string  `json:"gender"`
	ActivityLevel *string  `json:"activityLevel"`
}

func validateCalculateGoals(req calculateGoalsRequest) []utils.FieldError {
	var errs []utils.FieldError
	if req.Height == nil {
		errs = append(errs, utils.FieldError{Path: "height", Msg: "Height must be a number"})
	}
	if req.CurrentWeight == nil {
		errs = append(errs, utils.FieldError{Path: "currentWeight", Msg: "Current weight must be a number"})
	}
	if !models.ValidGoal(req.Goal) {
		errs = append(errs, utils.FieldError{Path: "goal", Msg: "Valid goal is required"})
	}
	if req.Gender != nil && *req.Gender != "male" && *req.Gender != "female" {
		errs = append(errs, utils.FieldError{Path: "gender", Msg: "Gender must be male or female"})
	}
	if req.ActivityLevel != nil {
		if _, ok := goals.ActivityMultipliers[*req.ActivityLevel]; !ok {
			errs = append(errs, utils.FieldError{Path: "activityLevel", Msg: "Invalid activity level"})
		}
	}
	return errs
}

// CalculateGoals runs the BMR/TDEE calculator over the submitted
// biometrics. Nothing is persisted; the client decides whether to save
// the suggested targets via UpdateProfile.
func CalculateGoals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req calculateGoalsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateCalculateGoals(req); len(errs) > 0 {
		utils.RespondWithFieldErrors(w, errs)
		return
	}

	in := goals.Input{
		Height:        *req.Height,
		CurrentWeight: *req.CurrentWeight,
		Goal:          req.Goal,
		Age:           30,
		Gender:        "male",
		ActivityLevel: "lightly_active",
	}
	if req.Age != nil {
		in.Age = *req.Age
	}
	if req.Gender != nil {
		in.Gender = *req.Gender
	}
	if req.ActivityLevel != nil {
		in.ActivityLevel = *req.ActivityLevel
	}

	targets, err := goals.Compute(in)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, targets)
}
