package meals

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"kalori/db"
	"kalori/models"
	"kalori/mq"
	"kalori/realtime"
	"kalori/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Pointer macro fields so a missing value is distinguishable from zero.
type mealItemPayload struct {
	Name     string   `json:"name"`
	Weight   string   `json:"weight"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

type logMealRequest struct {
	UserID string            `json:"userId"`
	Date   string            `json:"date"`
	Type   string            `json:"type"`
	Items  []mealItemPayload `json:"items"`
}

type updateMealRequest struct {
	UserID string            `json:"userId"`
	Date   string            `json:"date"`
	Type   string            `json:"type"`
	Items  []mealItemPayload `json:"items"`
}

type mergedMealResponse struct {
	models.Meal
	Message string `json:"message"`
}

// dayStart returns midnight UTC of t's calendar day. Any time component
// is deliberately dropped: bucketing only cares about the calendar day.
// Meals store their date normalized to this instant, so the
// (userId, type, date) unique index can arbitrate concurrent writes.
func dayStart(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// dayWindow returns the UTC day bounds [start, end) covering t.
func dayWindow(t time.Time) (time.Time, time.Time) {
	start := dayStart(t)
	return start, start.AddDate(0, 0, 1)
}

// bucketFilter identifies the single meal a (userId, type, day) may have.
// The date predicate is an equality on the normalized day start, never a
// range: only an equality match lets the unique index resolve two
// concurrent upserts for the same bucket into one insert plus one update.
func bucketFilter(userID, mealType string, date time.Time) bson.M {
	return bson.M{
		"userId": userID,
		"type":   mealType,
		"date":   dayStart(date),
	}
}

// mergeUpdate appends items to the bucket's meal and fills in the full
// document when the upsert has to create it.
func mergeUpdate(userID, mealType string, date time.Time, items []models.MealItem, now time.Time) bson.M {
	return bson.M{
		"$push": bson.M{"items": bson.M{"$each": items}},
		"$set":  bson.M{"updatedAt": now},
		"$setOnInsert": bson.M{
			"userId":    userID,
			"type":      mealType,
			"date":      dayStart(date),
			"createdAt": now,
		},
	}
}

func validateItems(items []mealItemPayload) []utils.FieldError {
	var errs []utils.FieldError
	if len(items) == 0 {
		return append(errs, utils.FieldError{Path: "items", Msg: "At least one item is required"})
	}
	for i, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			errs = append(errs, utils.FieldError{Path: fmt.Sprintf("items[%d].name", i), Msg: "Item name is required"})
		}
		if strings.TrimSpace(it.Weight) == "" {
			errs = append(errs, utils.FieldError{Path: fmt.Sprintf("items[%d].weight", i), Msg: "Item weight is required"})
		}
		for _, f := range []struct {
			name  string
			value *float64
		}{
			{"calories", it.Calories},
			{"protein", it.Protein},
			{"carbs", it.Carbs},
			{"fat", it.Fat},
		} {
			if f.value == nil || *f.value < 0 {
				errs = append(errs, utils.FieldError{
					Path: fmt.Sprintf("items[%d].%s", i, f.name),
					Msg:  fmt.Sprintf("Item %s must be a non-negative number", f.name),
				})
			}
		}
	}
	return errs
}

func validateMealPayload(date, mealType string, items []mealItemPayload) []utils.FieldError {
	var errs []utils.FieldError
	if utils.ParseDate(date) == nil {
		errs = append(errs, utils.FieldError{Path: "date", Msg: "Valid date is required"})
	}
	if !models.ValidMealType(mealType) {
		errs = append(errs, utils.FieldError{Path: "type", Msg: "Valid meal type is required"})
	}
	return append(errs, validateItems(items)...)
}

func toMealItems(items []mealItemPayload) []models.MealItem {
	out := make([]models.MealItem, 0, len(items))
	for _, it := range items {
		out = append(out, models.MealItem{
			Name:     it.Name,
			Weight:   it.Weight,
			Calories: *it.Calories,
			Protein:  *it.Protein,
			Carbs:    *it.Carbs,
			Fat:      *it.Fat,
		})
	}
	return out
}

// LogMeal appends the submitted items to the day's meal of the given
// type, creating the meal when the bucket is empty. Merge-or-create is a
// conditional upsert against the (userId, type, date) unique index, so
// concurrent logs for the same bucket cannot produce two records: the
// write that loses the insert race gets a duplicate-key error, re-runs,
// and lands as an append on the winner's document.
func LogMeal(hub *realtime.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var req logMealRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		errs := validateMealPayload(req.Date, req.Type, req.Items)
		if req.UserID == "" {
			errs = append(errs, utils.FieldError{Path: "userId", Msg: "userId is required"})
		}
		if len(errs) > 0 {
			utils.RespondWithFieldErrors(w, errs)
			return
		}

		date := dayStart(*utils.ParseDate(req.Date))
		items := toMealItems(req.Items)
		now := time.Now().UTC()

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		var res *mongo.UpdateResult
		var err error
		for attempt := 0; attempt < 2; attempt++ {
			res, err = db.MealsCollection.UpdateOne(ctx,
				bucketFilter(req.UserID, req.Type, date),
				mergeUpdate(req.UserID, req.Type, date, items, now),
				options.Update().SetUpsert(true))
			if err == nil || !mongo.IsDuplicateKeyError(err) {
				break
			}
			// Lost the insert race; the bucket exists now, so the retry
			// matches it and appends.
		}
		if err != nil {
			utils.RespondWithServerError(w, err)
			return
		}

		var meal models.Meal
		if err := db.MealsCollection.FindOne(ctx, bucketFilter(req.UserID, req.Type, date)).Decode(&meal); err != nil {
			utils.RespondWithServerError(w, err)
			return
		}

		_ = mq.Emit("meal-logged", mq.Event{EntityType: "meal", Method: "POST", EntityID: meal.ID.Hex(), UserID: req.UserID})
		go pushDayProgress(hub, req.UserID, date)

		if res.UpsertedCount > 0 {
			utils.RespondWithJSON(w, http.StatusCreated, meal)
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, mergedMealResponse{
			Meal:    meal,
			Message: fmt.Sprintf("Items added to existing %s meal", strings.ToLower(req.Type)),
		})
	}
}

// UpdateMeal replaces a meal's fields wholesale, addressed by id. It
// never merges: moving a meal onto an already-occupied (type, day)
// bucket trips the unique index and comes back as a 409.
func UpdateMeal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	mealID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid meal ID")
		return
	}

	var req updateMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if errs := validateMealPayload(req.Date, req.Type, req.Items); len(errs) > 0 {
		utils.RespondWithFieldErrors(w, errs)
		return
	}

	update := bson.M{
		"date":      dayStart(*utils.ParseDate(req.Date)),
		"type":      req.Type,
		"items":     toMealItems(req.Items),
		"updatedAt": time.Now().UTC(),
	}
	if req.UserID != "" {
		update["userId"] = req.UserID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var meal models.Meal
	err = db.MealsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": mealID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&meal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Meal not found")
		return
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict,
				fmt.Sprintf("A %s meal already exists for that date", strings.ToLower(req.Type)))
			return
		}
		utils.RespondWithServerError(w, err)
		return
	}

	_ = mq.Emit("meal-updated", mq.Event{EntityType: "meal", Method: "PUT", EntityID: meal.ID.Hex(), UserID: meal.UserID})
	utils.RespondWithJSON(w, http.StatusOK, meal)
}

func DeleteMeal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	mealID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid meal ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.MealsCollection.DeleteOne(ctx, bson.M{"_id": mealID})
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Meal not found")
		return
	}

	_ = mq.Emit("meal-deleted", mq.Event{EntityType: "meal", Method: "DELETE", EntityID: mealID.Hex()})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Meal deleted successfully"})
}

func GetMeal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	mealID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid meal ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var meal models.Meal
	err = db.MealsCollection.FindOne(ctx, bson.M{"_id": mealID}).Decode(&meal)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Meal not found")
		return
	}
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, meal)
}

// buildMealQuery turns list-endpoint query params into a Mongo filter.
// Exactly one of `date` or the `startDate`/`endDate` pair narrows the
// range; `date` wins when both are present.
func buildMealQuery(params url.Values) (bson.M, error) {
	userID := params.Get("userId")
	if userID == "" {
		return nil, errors.New("Missing userId")
	}
	query := bson.M{"userId": userID}

	if d := params.Get("date"); d != "" {
		t := utils.ParseDate(d)
		if t == nil {
			return nil, errors.New("Valid date is required")
		}
		start, end := dayWindow(*t)
		query["date"] = bson.M{"$gte": start, "$lt": end}
	} else if s, e := params.Get("startDate"), params.Get("endDate"); s != "" && e != "" {
		from, to := utils.ParseDate(s), utils.ParseDate(e)
		if from == nil || to == nil {
			return nil, errors.New("Valid startDate and endDate are required")
		}
		start, _ := dayWindow(*from)
		_, end := dayWindow(*to)
		query["date"] = bson.M{"$gte": start, "$lt": end}
	}

	if t := params.Get("type"); t != "" {
		query["type"] = t
	}
	return query, nil
}

func ListMeals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query, err := buildMealQuery(r.URL.Query())
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	cursor, err := db.MealsCollection.Find(ctx, query, opts)
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var meals []models.Meal
	if err := cursor.All(ctx, &meals); err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	if meals == nil {
		meals = []models.Meal{}
	}
	utils.RespondWithJSON(w, http.StatusOK, meals)
}

// pushDayProgress recomputes the user's totals for the logged day and
// fans them out to any open progress sockets.
func pushDayProgress(hub *realtime.Hub, userID string, date time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start, end := dayWindow(date)
	totals, err := runDailyTotals(ctx, userID, bson.M{"$gte": start, "$lt": end})
	if err != nil || len(totals) == 0 {
		return
	}
	hub.PushProgress(userID, utils.M{
		"userId": userID,
		"date":   totals[0].ID.Date,
		"totals": totals[0],
	})
}
