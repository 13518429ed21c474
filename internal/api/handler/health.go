package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/iconidentify/vidfetch/internal/domain"
)

// healthTimeout bounds how long a health check may take.
const healthTimeout = time.Second

// HealthReporter computes service health.
type HealthReporter interface {
	Health(ctx context.Context) domain.HealthStatus
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	reporter HealthReporter
	version  string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(reporter HealthReporter, version string) *HealthHandler {
	return &HealthHandler{
		reporter: reporter,
		version:  version,
	}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status    domain.HealthState `json:"status"`
	Timestamp string             `json:"timestamp"`
	Version   string             `json:"version,omitempty"`
	Checks    *HealthChecks      `json:"checks,omitempty"`
}

// HealthChecks contains the individual probe results.
type HealthChecks struct {
	YTDLP         bool  `json:"ytdlp"`
	FFmpeg        bool  `json:"ffmpeg"`
	TempFreeBytes int64 `json:"temp_free_bytes"`
	ActiveScopes  int   `json:"active_scopes"`
}

// Health handles GET /api/health. It always answers 200; a probe that
// does not finish within healthTimeout is reported as degraded.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	done := make(chan domain.HealthStatus, 1)
	go func() {
		done <- h.reporter.Health(ctx)
	}()

	select {
	case st := <-done:
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:    st.Status,
			Timestamp: st.Timestamp.UTC().Format(time.RFC3339),
			Version:   h.version,
			Checks: &HealthChecks{
				YTDLP:         st.Checks.YTDLPAvailable,
				FFmpeg:        st.Checks.FFmpegAvailable,
				TempFreeBytes: st.Checks.TempFreeBytes,
				ActiveScopes:  st.Checks.ActiveScopes,
			},
		})
	case <-ctx.Done():
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:    domain.HealthDegraded,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Version:   h.version,
		})
	}
}
