package routes

import (
	"kalori/fooditems"
	"kalori/meals"
	"kalori/profile"
	"kalori/ratelim"
	"kalori/realtime"

	"github.com/julienschmidt/httprouter"
)

// AddMealRoutes wires the meal ledger and analytics endpoints. The
// analytics paths are registered through the :id wildcard (with the
// handler checking for the "analytics" segment) because httprouter
// rejects static siblings of a wildcard.
func AddMealRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/api/meals", meals.ListMeals)
	router.GET("/api/meals/:id", meals.GetMeal)
	router.GET("/api/meals/:id/daily-totals", meals.DailyTotals)
	router.GET("/api/meals/:id/meal-type-totals", meals.MealTypeTotals)
	router.POST("/api/meals", ratelim.RateLimit(meals.LogMeal(hub)))
	router.PUT("/api/meals/:id", ratelim.RateLimit(meals.UpdateMeal))
	router.DELETE("/api/meals/:id", ratelim.RateLimit(meals.DeleteMeal))
}

func AddFoodItemRoutes(router *httprouter.Router) {
	router.GET("/api/food-items", fooditems.ListFoodItems)
	router.GET("/api/food-items/:id", fooditems.GetFoodItem)
	router.POST("/api/food-items", ratelim.RateLimit(fooditems.CreateFoodItem))
	router.PUT("/api/food-items/:id", ratelim.RateLimit(fooditems.UpdateFoodItem))
	router.DELETE("/api/food-items/:id", ratelim.RateLimit(fooditems.DeleteFoodItem))
}

func AddProfileRoutes(router *httprouter.Router) {
	router.GET("/api/profile", profile.GetProfile)
	router.PUT("/api/profile", ratelim.RateLimit(profile.UpdateProfile))
	router.POST("/api/profile/calculate-goals", ratelim.RateLimit(profile.CalculateGoals))
}

func AddRealtimeRoutes(router *httprouter.Router, hub *realtime.Hub) {
	router.GET("/ws/progress", realtime.WebSocketHandler(hub))
}
