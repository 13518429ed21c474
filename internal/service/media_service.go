package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/iconidentify/vidfetch/internal/config"
	"github.com/iconidentify/vidfetch/internal/domain"
	"github.com/iconidentify/vidfetch/internal/tempfs"
)

// Extractor fetches metadata and media for a URL.
type Extractor interface {
	FetchInfo(ctx context.Context, url string, includeFormats bool) (*domain.VideoInfo, error)
	FetchMedia(ctx context.Context, url, quality, dir string) (*domain.DownloadResult, error)
}

// HealthProbe reports on the external tools and disk the service depends on.
type HealthProbe interface {
	DownloaderAvailable() bool
	FFmpegAvailable() bool
	FreeBytes() int64
}

// DeliverFunc streams a staged artifact to the client. body is only valid
// until DeliverFunc returns.
type DeliverFunc func(res *domain.DownloadResult, body io.Reader) error

// MediaService orchestrates extraction, staging and cleanup for a request.
type MediaService struct {
	extractor Extractor
	temp      *tempfs.Manager
	probe     HealthProbe
	minFree   int64
	logger    *slog.Logger
}

// NewMediaService creates a new media service.
func NewMediaService(
	extractor Extractor,
	temp *tempfs.Manager,
	probe HealthProbe,
	storageCfg config.StorageConfig,
	logger *slog.Logger,
) *MediaService {
	return &MediaService{
		extractor: extractor,
		temp:      temp,
		probe:     probe,
		minFree:   storageCfg.MinFreeBytes,
		logger:    logger,
	}
}

// Info returns normalized metadata for req.URL.
func (s *MediaService) Info(ctx context.Context, req domain.DownloadRequest) (*domain.VideoInfo, error) {
	info, err := s.extractor.FetchInfo(ctx, req.URL, req.IncludeFormats)
	if err != nil {
		return nil, fmt.Errorf("info: %w", err)
	}

	s.logger.Info("video info extracted",
		"url", req.URL,
		"platform", info.Platform,
		"title", info.Title,
	)
	return info, nil
}

// Download fetches req.URL into a fresh scope and hands the artifact to
// deliver. The scope is removed once deliver returns, whatever the outcome.
func (s *MediaService) Download(ctx context.Context, req domain.DownloadRequest, deliver DeliverFunc) error {
	_, err := tempfs.WithScopedDir(s.temp, func(scope *tempfs.Scope) (struct{}, error) {
		logger := s.logger.With("url", req.URL, "scope", scope.Dir())

		logger.Info("downloading media", "quality", req.Quality)
		res, err := s.extractor.FetchMedia(ctx, req.URL, req.Quality, scope.Dir())
		if err != nil {
			return struct{}{}, err
		}

		art, err := scope.Open(res.Path)
		if err != nil {
			return struct{}{}, domain.NewExtractionError(domain.KindDiskIO, "open artifact", err.Error())
		}
		body := newProgressReader(art, res.Size, logger)
		defer body.Close()

		logger.Info("streaming media",
			"filename", res.Filename,
			"content_type", res.ContentType,
			"size", res.Size,
		)
		if err := deliver(res, body); err != nil {
			logger.Warn("stream aborted",
				"sent_bytes", body.Sent(),
				"size", res.Size,
				"error", err,
			)
			return struct{}{}, fmt.Errorf("stream artifact: %w", err)
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	return nil
}

// Health computes the current service status.
func (s *MediaService) Health(_ context.Context) domain.HealthStatus {
	checks := domain.HealthChecks{
		YTDLPAvailable:  s.probe.DownloaderAvailable(),
		FFmpegAvailable: s.probe.FFmpegAvailable(),
		TempFreeBytes:   s.probe.FreeBytes(),
		ActiveScopes:    s.temp.Active(),
	}

	status := domain.HealthOK
	if !checks.YTDLPAvailable || (s.minFree > 0 && checks.TempFreeBytes < s.minFree) {
		status = domain.HealthDegraded
	}

	return domain.HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC(),
		Checks:    checks,
	}
}
