package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iconidentify/vidfetch/internal/domain"
)

func TestHealthHandler_Health(t *testing.T) {
	reporter := &mockHealthReporter{status: domain.HealthStatus{
		Status:    domain.HealthOK,
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Checks: domain.HealthChecks{
			YTDLPAvailable: true,
			TempFreeBytes:  2048,
			ActiveScopes:   3,
		},
	}}
	handler := NewHealthHandler(reporter, "1.2.3")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q, want %q", contentType, "application/json")
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp.Status != domain.HealthOK {
		t.Errorf("status = %q, want %q", resp.Status, domain.HealthOK)
	}
	if resp.Timestamp != "2024-01-02T03:04:05Z" {
		t.Errorf("timestamp = %q", resp.Timestamp)
	}
	if resp.Version != "1.2.3" {
		t.Errorf("version = %q, want %q", resp.Version, "1.2.3")
	}
	if resp.Checks == nil || !resp.Checks.YTDLP || resp.Checks.ActiveScopes != 3 {
		t.Errorf("checks = %+v", resp.Checks)
	}
}

func TestHealthHandler_Degraded(t *testing.T) {
	reporter := &mockHealthReporter{status: domain.HealthStatus{
		Status:    domain.HealthDegraded,
		Timestamp: time.Now(),
	}}
	handler := NewHealthHandler(reporter, "")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != domain.HealthDegraded {
		t.Errorf("status = %q, want %q", resp.Status, domain.HealthDegraded)
	}
}

func TestHealthHandler_SlowProbeAnswersWithinASecond(t *testing.T) {
	reporter := &mockHealthReporter{
		status: domain.HealthStatus{Status: domain.HealthOK, Timestamp: time.Now()},
		delay:  3 * time.Second,
	}
	handler := NewHealthHandler(reporter, "")

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	start := time.Now()
	handler.Health(w, req)
	elapsed := time.Since(start)

	if elapsed > 1500*time.Millisecond {
		t.Errorf("Health took %v, want about %v", elapsed, healthTimeout)
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Status != domain.HealthDegraded {
		t.Errorf("status = %q, want %q", resp.Status, domain.HealthDegraded)
	}
}
