package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIndexHandler_Index(t *testing.T) {
	handler := NewIndexHandler("dev")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.Index(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp IndexResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Version != "dev" {
		t.Errorf("version = %q, want %q", resp.Version, "dev")
	}
	if len(resp.SupportedPlatforms) == 0 {
		t.Error("supported_platforms should not be empty")
	}
	if len(resp.Endpoints) != len(endpoints) {
		t.Errorf("endpoints = %d, want %d", len(resp.Endpoints), len(endpoints))
	}
}
