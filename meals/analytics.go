package meals

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"kalori/db"
	"kalori/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// DailyKey and MealTypeKey mirror the aggregation group ids on the wire,
// so clients see {"_id":{"date":...}} exactly as stored views expect.
type DailyKey struct {
	Date string `bson:"date" json:"date"`
}

type MealTypeKey struct {
	Date string `bson:"date" json:"date"`
	Type string `bson:"type" json:"type"`
}

type DailyTotal struct {
	ID            DailyKey `bson:"_id"           json:"_id"`
	TotalCalories float64  `bson:"totalCalories" json:"totalCalories"`
	TotalProtein  float64  `bson:"totalProtein"  json:"totalProtein"`
	TotalCarbs    float64  `bson:"totalCarbs"    json:"totalCarbs"`
	TotalFat      float64  `bson:"totalFat"      json:"totalFat"`
}

type MealTypeTotal struct {
	ID            MealTypeKey `bson:"_id"           json:"_id"`
	TotalCalories float64     `bson:"totalCalories" json:"totalCalories"`
	TotalProtein  float64     `bson:"totalProtein"  json:"totalProtein"`
	TotalCarbs    float64     `bson:"totalCarbs"    json:"totalCarbs"`
	TotalFat      float64     `bson:"totalFat"      json:"totalFat"`
}

func macroSums() bson.M {
	return bson.M{
		"totalCalories": bson.M{"$sum": "$items.calories"},
		"totalProtein":  bson.M{"$sum": "$items.protein"},
		"totalCarbs":    bson.M{"$sum": "$items.carbs"},
		"totalFat":      bson.M{"$sum": "$items.fat"},
	}
}

// dailyTotalsPipeline flattens every meal's items and sums macros per
// calendar day. Days without meals simply don't appear; dense series are
// the caller's job.
func dailyTotalsPipeline(userID string, dateFilter bson.M) mongo.Pipeline {
	group := macroSums()
	group["_id"] = bson.M{
		"date": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$date"}},
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "date": dateFilter}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: group}},
		{{Key: "$sort", Value: bson.M{"_id.date": 1}}},
	}
}

// mealTypeTotalsPipeline groups by (day, meal type) instead.
func mealTypeTotalsPipeline(userID string, dateFilter bson.M) mongo.Pipeline {
	group := macroSums()
	group["_id"] = bson.M{
		"date": bson.M{"$dateToString": bson.M{"format": "%Y-%m-%d", "date": "$date"}},
		"type": "$type",
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID, "date": dateFilter}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: group}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.date", Value: 1}, {Key: "_id.type", Value: 1}}}},
	}
}

func runDailyTotals(ctx context.Context, userID string, dateFilter bson.M) ([]DailyTotal, error) {
	cursor, err := db.MealsCollection.Aggregate(ctx, dailyTotalsPipeline(userID, dateFilter))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var totals []DailyTotal
	if err := cursor.All(ctx, &totals); err != nil {
		return nil, err
	}
	return totals, nil
}

// parseAnalyticsRange validates the shared analytics query params and
// returns (userId, date filter covering both endpoint days inclusive).
func parseAnalyticsRange(params url.Values) (string, bson.M, string) {
	userID := params.Get("userId")
	if userID == "" {
		return "", nil, "Missing userId"
	}
	s, e := params.Get("startDate"), params.Get("endDate")
	if s == "" || e == "" {
		return "", nil, "Start date and end date are required"
	}
	from, to := utils.ParseDate(s), utils.ParseDate(e)
	if from == nil || to == nil {
		return "", nil, "Valid startDate and endDate are required"
	}
	start, _ := dayWindow(*from)
	_, end := dayWindow(*to)
	return userID, bson.M{"$gte": start, "$lt": end}, ""
}

// DailyTotals serves /api/meals/analytics/daily-totals. The route is
// registered as /api/meals/:id/daily-totals because httprouter cannot
// mix static and wildcard children under the same prefix, hence the
// param check.
func DailyTotals(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "analytics" {
		http.NotFound(w, r)
		return
	}
	userID, dateFilter, msg := parseAnalyticsRange(r.URL.Query())
	if msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	totals, err := runDailyTotals(ctx, userID, dateFilter)
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	if totals == nil {
		totals = []DailyTotal{}
	}
	utils.RespondWithJSON(w, http.StatusOK, totals)
}

// MealTypeTotals serves /api/meals/analytics/meal-type-totals; same
// routing caveat as DailyTotals.
func MealTypeTotals(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if ps.ByName("id") != "analytics" {
		http.NotFound(w, r)
		return
	}
	userID, dateFilter, msg := parseAnalyticsRange(r.URL.Query())
	if msg != "" {
		utils.RespondWithError(w, http.StatusBadRequest, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := db.MealsCollection.Aggregate(ctx, mealTypeTotalsPipeline(userID, dateFilter))
	if err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	defer cursor.Close(ctx)

	var totals []MealTypeTotal
	if err := cursor.All(ctx, &totals); err != nil {
		utils.RespondWithServerError(w, err)
		return
	}
	if totals == nil {
		totals = []MealTypeTotal{}
	}
	utils.RespondWithJSON(w, http.StatusOK, totals)
}
