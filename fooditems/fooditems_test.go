package fooditems

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"kalori/utils"

	"github.com/julienschmidt/httprouter"
)

func f(v float64) *float64 { return &v }

func TestValidateFoodItemPayloadHappyPath(t *testing.T) {
	req := foodItemPayload{Name: "Chicken Breast", Weight: "100g", Calories: f(165), Protein: f(31), Carbs: f(0), Fat: f(3.6)}
	if errs := validateFoodItemPayload(req); len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
}

func TestValidateFoodItemPayloadZeroMacrosAllowed(t *testing.T) {
	req := foodItemPayload{Name: "Water", Weight: "250ml", Calories: f(0), Protein: f(0), Carbs: f(0), Fat: f(0)}
	if errs := validateFoodItemPayload(req); len(errs) != 0 {
		t.Fatalf("zero macros should validate: %v", errs)
	}
}

func TestValidateFoodItemPayloadCollectsAllFailures(t *testing.T) {
	req := foodItemPayload{Name: "  ", Weight: "", Calories: nil, Protein: f(-5), Carbs: f(10), Fat: nil}
	errs := validateFoodItemPayload(req)

	paths := make(map[string]string)
	for _, e := range errs {
		paths[e.Path] = e.Msg
	}
	for _, want := range []string{"name", "weight", "calories", "protein", "fat"} {
		if _, ok := paths[want]; !ok {
			t.Errorf("missing error for %s: %v", want, errs)
		}
	}
	if _, ok := paths["carbs"]; ok {
		t.Error("positive carbs should be valid")
	}
	if got := paths["protein"]; got != "Protein must be a non-negative number" {
		t.Errorf("protein message = %q", got)
	}
}

func TestCreateFoodItemRejectsInvalidBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/food-items", strings.NewReader("nope"))
	rec := httptest.NewRecorder()

	CreateFoodItem(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateFoodItemRejectsMissingFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/food-items", strings.NewReader(`{"name":"Apple"}`))
	rec := httptest.NewRecorder()

	CreateFoodItem(rec, req, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var resp struct {
		Errors []utils.FieldError `json:"errors"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Errors) != 5 {
		t.Fatalf("want errors for weight + four macros, got %v", resp.Errors)
	}
}

func TestUpdateFoodItemRejectsBadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/food-items/banana", strings.NewReader("{}"))
	rec := httptest.NewRecorder()

	UpdateFoodItem(rec, req, httprouter.Params{{Key: "id", Value: "banana"}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestDeleteFoodItemRejectsBadID(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/food-items/banana", nil)
	rec := httptest.NewRecorder()

	DeleteFoodItem(rec, req, httprouter.Params{{Key: "id", Value: "banana"}})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}
