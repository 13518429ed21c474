package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/vidfetch/internal/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string           `json:"error"`
	Code  domain.ErrorKind `json:"code"`
}

// errorStatus maps each error kind to its HTTP status.
var errorStatus = map[domain.ErrorKind]int{
	domain.KindMissingURL:          http.StatusBadRequest,
	domain.KindInvalidURL:          http.StatusBadRequest,
	domain.KindUnsupportedURL:      http.StatusNotFound,
	domain.KindPrivateOrRemoved:    http.StatusNotFound,
	domain.KindUpstreamUnavailable: http.StatusBadGateway,
	domain.KindTimeout:             http.StatusBadGateway,
	domain.KindDiskIO:              http.StatusInternalServerError,
	domain.KindInternal:            http.StatusInternalServerError,
	domain.KindNotFound:            http.StatusNotFound,
	domain.KindMethodNotAllowed:    http.StatusMethodNotAllowed,
}

const internalMessage = "internal server error"

// StatusFor returns the HTTP status for an error kind.
func StatusFor(kind domain.ErrorKind) int {
	if status, ok := errorStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, kind domain.ErrorKind, message string) {
	writeJSON(w, StatusFor(kind), ErrorResponse{Error: message, Code: kind})
}

// writeDomainError converts err into a JSON error response. Messages of
// domain errors are safe to show; anything else is logged and hidden.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	kind := domain.KindOf(err)

	var ve *domain.ValidationError
	var ee *domain.ExtractionError
	switch {
	case errors.As(err, &ve):
		writeError(w, kind, ve.Err.Error())
	case errors.As(err, &ee):
		logger.Warn("extraction failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"kind", kind,
			"error", err,
		)
		writeError(w, kind, ee.Unwrap().Error())
	default:
		logger.Error("request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, domain.KindInternal, internalMessage)
	}
}

// NotFound handles requests for unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, domain.KindNotFound, "endpoint not found")
}

// MethodNotAllowed handles requests with an unsupported method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, domain.KindMethodNotAllowed, "method not allowed")
}
