package utils

import "net/http"

// FieldError is one entry of a 400 response's per-field error list.
type FieldError struct {
	Path string `json:"path"`
	Msg  string `json:"msg"`
}

func RespondWithFieldErrors(w http.ResponseWriter, errs []FieldError) {
	RespondWithJSON(w, http.StatusBadRequest, M{"errors": errs})
}
