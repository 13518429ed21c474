package handler

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/vidfetch/internal/domain"
	"github.com/iconidentify/vidfetch/internal/service"
	"github.com/iconidentify/vidfetch/internal/validate"
)

// MediaService is the part of service.MediaService the handlers use.
type MediaService interface {
	Info(ctx context.Context, req domain.DownloadRequest) (*domain.VideoInfo, error)
	Download(ctx context.Context, req domain.DownloadRequest, deliver service.DeliverFunc) error
}

// MediaHandler handles info, download and validation requests.
type MediaHandler struct {
	svc    MediaService
	logger *slog.Logger
}

// NewMediaHandler creates a new media handler.
func NewMediaHandler(svc MediaService, logger *slog.Logger) *MediaHandler {
	return &MediaHandler{
		svc:    svc,
		logger: logger,
	}
}

// Info handles POST /api/info
func (h *MediaHandler) Info(w http.ResponseWriter, r *http.Request) {
	req, err := validate.Decode(r.Body)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	info, err := h.svc.Info(r.Context(), req)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Download handles POST /api/download
func (h *MediaHandler) Download(w http.ResponseWriter, r *http.Request) {
	req, err := validate.Decode(r.Body)
	if err != nil {
		writeDomainError(w, r, h.logger, err)
		return
	}

	streaming := false
	err = h.svc.Download(r.Context(), req, func(res *domain.DownloadResult, body io.Reader) error {
		streaming = true
		w.Header().Set("Content-Type", res.ContentType)
		w.Header().Set("Content-Disposition", contentDisposition(res.Filename))
		w.Header().Set("X-Content-Type-Options", "nosniff")
		if res.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(res.Size, 10))
		}
		w.WriteHeader(http.StatusOK)
		_, err := io.Copy(w, body)
		return err
	})
	if err == nil {
		return
	}

	// Headers are already on the wire; all that is left is to log.
	if streaming {
		h.logger.Warn("download stream aborted",
			"request_id", middleware.GetReqID(r.Context()),
			"url", req.URL,
			"error", err,
		)
		return
	}
	writeDomainError(w, r, h.logger, err)
}

func contentDisposition(filename string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": filename}); v != "" {
		return v
	}
	return "attachment"
}

// ValidateResponse is the JSON response for URL validation.
type ValidateResponse struct {
	Valid    bool             `json:"valid"`
	Message  string           `json:"message"`
	Platform *domain.Platform `json:"platform"`
}

// Validate handles POST /api/validate. It always answers 200; the verdict
// is in the body.
func (h *MediaHandler) Validate(w http.ResponseWriter, r *http.Request) {
	req, err := validate.Decode(r.Body)
	if err != nil {
		writeJSON(w, http.StatusOK, ValidateResponse{
			Valid:   false,
			Message: validationMessage(err),
		})
		return
	}

	platform := domain.DetectPlatform(req.URL)
	message := "Valid URL"
	if platform == domain.PlatformUnknown {
		message = "URL appears valid but platform may not be fully supported"
	}
	writeJSON(w, http.StatusOK, ValidateResponse{
		Valid:    true,
		Message:  message,
		Platform: &platform,
	})
}

func validationMessage(err error) string {
	if domain.KindOf(err) == domain.KindInvalidURL {
		return "Invalid URL format"
	}
	return "URL is required"
}

// FormatsResponse lists the named quality presets.
type FormatsResponse struct {
	DownloadPresets map[string]string `json:"download_presets"`
	Descriptions    map[string]string `json:"descriptions"`
	Presets         []domain.Preset   `json:"presets"`
}

// Formats handles GET /api/formats
func (h *MediaHandler) Formats(w http.ResponseWriter, r *http.Request) {
	presets := domain.Presets()
	resp := FormatsResponse{
		DownloadPresets: make(map[string]string, len(presets)),
		Descriptions:    make(map[string]string, len(presets)),
		Presets:         presets,
	}
	for _, p := range presets {
		resp.DownloadPresets[p.Name] = p.Selector
		resp.Descriptions[p.Name] = p.Description
	}
	writeJSON(w, http.StatusOK, resp)
}
