package handler

import (
	"net/http"

	"github.com/iconidentify/vidfetch/internal/domain"
)

// IndexHandler describes the API.
type IndexHandler struct {
	version string
}

// NewIndexHandler creates a new index handler.
func NewIndexHandler(version string) *IndexHandler {
	return &IndexHandler{version: version}
}

// Endpoint documents one route.
type Endpoint struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Description string `json:"description"`
}

// IndexResponse is the JSON response for GET /.
type IndexResponse struct {
	Message            string            `json:"message"`
	Version            string            `json:"version"`
	SupportedPlatforms []domain.Platform `json:"supported_platforms"`
	Endpoints          []Endpoint        `json:"endpoints"`
}

var endpoints = []Endpoint{
	{http.MethodGet, "/", "API description"},
	{http.MethodPost, "/api/info", "Video metadata for {url, include_formats?}"},
	{http.MethodPost, "/api/download", "Download {url, quality?} as a file"},
	{http.MethodPost, "/api/validate", "Check whether {url} is acceptable"},
	{http.MethodGet, "/api/formats", "Named quality presets"},
	{http.MethodGet, "/api/health", "Service health"},
}

// Index handles GET /
func (h *IndexHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, IndexResponse{
		Message:            "Video download API",
		Version:            h.version,
		SupportedPlatforms: domain.SupportedPlatforms(),
		Endpoints:          endpoints,
	})
}
