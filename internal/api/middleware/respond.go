package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/iconidentify/vidfetch/internal/domain"
)

type errorBody struct {
	Error string           `json:"error"`
	Code  domain.ErrorKind `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code domain.ErrorKind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: message, Code: code})
}
