package fooditems

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"kalori/db"
	"kalori/models"
	"kalori/mq"
	"kalori/rdx"
	"kalori/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const catalogCacheKey = "fooditem_catalogue"
const defaultListLimit = 50

type foodItemPayload struct {
	Name     string   `json:"name"`
	Weight   string   `json:"weight"`
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fat      *float64 `json:"fat"`
}

func validateFoodItemPayload(req foodItemPayload) []utils.FieldError {
	var errs []utils.FieldError
	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, utils.FieldError{Path: "name", Msg: "Name is required"})
	}
	if strings.TrimSpace(req.Weight) == "" {
		errs = append(errs, utils.FieldError{Path: "weight", Msg: "Weight is required"})
	}
	for _, f := range []struct {
		name  string
		label string
		value *float64
	}{
		{"calories", "Calories", req.Calories},
		{"protein", "Protein", req.Protein},
		{"carbs", "Carbs", req.Carbs},
		{"fat", "Fat", req.Fat},
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

// nameTaken reports whether another catalog entry already uses the name,
// compared case-insensitively. exclude skips the entry being updated.
func nameTaken(ctx context.Context, name string, exclude primitive.ObjectID) (bool, error) {
	filter := bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(name) + "$", "$options": "i"}}
	if exclude != primitive.NilObjectID {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	err := db.FoodItemsCollection.FindOne(ctx, filter).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func respondDuplicate(w http.ResponseWriter, name string) {
	utils.RespondWithJSON(w, http.StatusUnprocessableEntity, utils.M{
		"error":   "Food item already exists",
		"message": fmt.Sprintf("A food item with the name %q already exists.", name),
	})
}

func invalidateCatalogCache(ctx context.Context) {
	_ = rdx.Conn.Del(ctx, catalogCacheKey).Err()
}

// ListFoodItems returns the catalog, optionally narrowed by a
// case-insensitive substring search. The unfiltered default page is
// cached in Redis and refilled on demand.
func ListFoodItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	search := r.URL.Query().Get("search")
	limit := int64(defaultListLimit)
	if l := utils.ParseInt(r.URL.Query().Get("limit")); l > 0 {
		limit = int64(l)
	}
	cacheable := search == "" && limit == defaultListLimit

	if cacheable {
		if val, err := rdx.Conn.Get(ctx, catalogCacheKey).Result(); err == nil && val != "" {
			var cached []models.FoodItem
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				utils.RespondWithJSON(w, http.StatusOK, cached)
				return
			}
		}
	}

	query := bson.M{}
	if search != "" {
		query["name"] = bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(limit)
	cursor, err := db.FoodItemsCollection.Find(ctx, query, opts)
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var items []models.FoodItem
	if err := cursor.All(ctx, &items); err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	if items == nil {
		items = []models.FoodItem{}
	}

	if cacheable {
		if data, err := json.Marshal(items); err == nil {
			_ = rdx.Conn.Set(ctx, catalogCacheKey, data, 2*time.Hour).Err()
		}
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

func GetFoodItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	itemID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid food item ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var item models.FoodItem
	err = db.FoodItemsCollection.FindOne(ctx, bson.M{"_id": itemID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Food item not found")
		return
	}
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, item)
}

// CreateFoodItem adds a catalog entry. Uniqueness is checked up front
// for a friendly 422, and again by the collated unique index for the
// race window the pre-check can't cover.
func CreateFoodItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req foodItemPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if errs := validateFoodItemPayload(req); len(errs) > 0 {
		utils.RespondWithFieldErrors(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if taken, err := nameTaken(ctx, req.Name, primitive.NilObjectID); err != nil {
		utils.RespondWithServerError(w, err)
		return
	} else if taken {
		respondDuplicate(w, req.Name)
		return
	}

	now := time.Now().UTC()
	item := models.FoodItem{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Weight:    req.Weight,
		Calories:  *req.Calories,
		Protein:   *req.Protein,
		Carbs:     *req.Carbs,
		Fat:       *req.Fat,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := db.FoodItemsCollection.InsertOne(ctx, item); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondDuplicate(w, req.Name)
			return
		}
		utils.RespondWithServerError(w, err)
		return
	}

	invalidateCatalogCache(ctx)
	_ = mq.Emit("fooditem-created", mq.Event{EntityType: "fooditem", Method: "POST", EntityID: item.ID.Hex()})
	utils.RespondWithJSON(w, http.StatusCreated, item)
}

func UpdateFoodItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	itemID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid food item ID")
		return
	}

	var req foodItemPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if errs := validateFoodItemPayload(req); len(errs) > 0 {
		utils.RespondWithFieldErrors(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if taken, err := nameTaken(ctx, req.Name, itemID); err != nil {
		utils.RespondWithServerError(w, err)
		return
	} else if taken {
		respondDuplicate(w, req.Name)
		return
	}

	update := bson.M{
		"name":      req.Name,
		"weight":    req.Weight,
		"calories":  *req.Calories,
		"protein":   *req.Protein,
		"carbs":     *req.Carbs,
		"fat":       *req.Fat,
		"updatedAt": time.Now().UTC(),
	}

	var item models.FoodItem
	err = db.FoodItemsCollection.FindOneAndUpdate(ctx,
		bson.M{"_id": itemID},
		bson.M{"$set": update},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		utils.RespondWithError(w, http.StatusNotFound, "Food item not found")
		return
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondDuplicate(w, req.Name)
			return
		}
		utils.RespondWithServerError(w, err)
		return
	}

	invalidateCatalogCache(ctx)
	_ = mq.Emit("fooditem-updated", mq.Event{EntityType: "fooditem", Method: "PUT", EntityID: item.ID.Hex()})
	utils.RespondWithJSON(w, http.StatusOK, item)
}

func DeleteFoodItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	itemID, err := primitive.ObjectIDFromHex(ps.ByName("id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid food item ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	res, err := db.FoodItemsCollection.DeleteOne(ctx, bson.M{"_id": itemID})
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	if res.DeletedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "Food item not found")
		return
	}

	invalidateCatalogCache(ctx)
	_ = mq.Emit("fooditem-deleted", mq.Event{EntityType: "fooditem", Method: "DELETE", EntityID: itemID.Hex()})
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"message": "Food item deleted successfully"})
}
