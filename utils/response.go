package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
)

func RespondWithError(w http.ResponseWriter, code int, msg string) {
	RespondWithJSON(w, code, map[string]string{"error": msg})
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

// RespondWithServerError hides the underlying store error outside of
// development; the detail still goes to whoever reads the logs.
func RespondWithServerError(w http.ResponseWriter, err error) {
	log.Printf("server error: %v", err)
	msg := "Internal server error"
	if os.Getenv("APP_ENV") != "production" && err != nil {
		msg = err.Error()
	}
	RespondWithError(w, http.StatusInternalServerError, msg)
}

type M map[string]interface{}
