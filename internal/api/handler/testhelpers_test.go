package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/iconidentify/vidfetch/internal/domain"
	"github.com/iconidentify/vidfetch/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockMediaService is a test implementation of MediaService.
type mockMediaService struct {
	info     *domain.VideoInfo
	infoErr  error
	result   *domain.DownloadResult
	payload  string
	dlErr    error
	lastReq  domain.DownloadRequest
	released bool
}

func (m *mockMediaService) Info(ctx context.Context, req domain.DownloadRequest) (*domain.VideoInfo, error) {
	m.lastReq = req
	if m.infoErr != nil {
		return nil, m.infoErr
	}
	return m.info, nil
}

func (m *mockMediaService) Download(ctx context.Context, req domain.DownloadRequest, deliver service.DeliverFunc) error {
	m.lastReq = req
	defer func() { m.released = true }()
	if m.dlErr != nil {
		return m.dlErr
	}
	return deliver(m.result, strings.NewReader(m.payload))
}

// mockHealthReporter returns a fixed status after delay, ignoring ctx like
// a probe stuck in a syscall would.
type mockHealthReporter struct {
	status domain.HealthStatus
	delay  time.Duration
}

func (m *mockHealthReporter) Health(ctx context.Context) domain.HealthStatus {
	time.Sleep(m.delay)
	return m.status
}

// brokenPipeRecorder accepts headers but fails every body write, like a
// client that disconnected mid-stream.
type brokenPipeRecorder struct {
	*httptest.ResponseRecorder
}

func (b *brokenPipeRecorder) Write(p []byte) (int, error) {
	return 0, io.ErrClosedPipe
}

// WriteString shadows the recorder's own, which io.Copy prefers for string
// sources.
func (b *brokenPipeRecorder) WriteString(s string) (int, error) {
	return 0, io.ErrClosedPipe
}
