// Package extractor adapts yt-dlp to the domain model.
//
// All knowledge of yt-dlp's flags, JSON shape and diagnostics stays in this
// package; callers only see domain.VideoInfo, domain.DownloadResult and
// domain errors.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/iconidentify/vidfetch/internal/config"
	"github.com/iconidentify/vidfetch/internal/domain"
)

const (
	opFetchInfo  = "fetch info"
	opFetchMedia = "fetch media"
)

// DefaultTimeout bounds a single yt-dlp call when none is configured.
const DefaultTimeout = 300 * time.Second

// Adapter performs one yt-dlp call per operation with a wall-clock limit.
type Adapter struct {
	runner             Runner
	timeout            time.Duration
	cancelOnDisconnect bool
	logger             *slog.Logger
}

// New creates an Adapter. A nil runner uses yt-dlp at cfg.BinaryPath.
func New(cfg config.ExtractorConfig, runner Runner, logger *slog.Logger) *Adapter {
	if runner == nil {
		runner = NewYTDLPRunner(cfg.BinaryPath)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		runner:             runner,
		timeout:            timeout,
		cancelOnDisconnect: cfg.CancelOnDisconnect,
		logger:             logger,
	}
}

// FetchInfo probes url for metadata without downloading media.
func (a *Adapter) FetchInfo(ctx context.Context, url string, includeFormats bool) (*domain.VideoInfo, error) {
	out, err := a.run(ctx, opFetchInfo, Invocation{URL: url, InfoOnly: true})
	if err != nil {
		return nil, err
	}

	raw, err := parseInfo(out.Stdout)
	if errors.Is(err, errEmptyPlaylist) {
		return nil, domain.NewExtractionError(domain.KindPrivateOrRemoved, opFetchInfo, err.Error())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: decode yt-dlp output: %w", opFetchInfo, err)
	}
	return toVideoInfo(raw, url, includeFormats), nil
}

// FetchMedia downloads url at the given quality hint into dir and returns
// the resulting artifact. The file is left in place for the caller.
func (a *Adapter) FetchMedia(ctx context.Context, url, quality, dir string) (*domain.DownloadResult, error) {
	inv := Invocation{
		URL:            url,
		Format:         domain.ResolveQuality(quality),
		OutputTemplate: filepath.Join(dir, "%(id)s.%(ext)s"),
	}
	out, err := a.run(ctx, opFetchMedia, inv)
	if err != nil {
		return nil, err
	}

	title := "download"
	if raw, err := parseInfo(out.Stdout); err == nil {
		title = orDefault(raw.Title, title)
	} else {
		a.logger.Debug("media metadata unavailable", "url", url, "error", err)
	}

	path, err := locateArtifact(dir)
	if err != nil {
		return nil, domain.NewExtractionError(domain.KindDiskIO, opFetchMedia, "no output file found: "+err.Error())
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, domain.NewExtractionError(domain.KindDiskIO, opFetchMedia, err.Error())
	}

	return &domain.DownloadResult{
		Path:        path,
		ContentType: detectContentType(path),
		Filename:    SanitizeFilename(title) + filepath.Ext(path),
		Size:        stat.Size(),
	}, nil
}

func (a *Adapter) run(ctx context.Context, op string, inv Invocation) (*Output, error) {
	if !a.cancelOnDisconnect {
		ctx = context.WithoutCancel(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	start := time.Now()
	out, err := a.runner.Run(ctx, inv)
	if err == nil {
		a.logger.Debug("yt-dlp finished", "op", op, "url", inv.URL, "duration", time.Since(start))
		return out, nil
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		a.logger.Warn("yt-dlp timed out", "op", op, "url", inv.URL, "timeout", a.timeout)
		return nil, domain.NewExtractionError(domain.KindTimeout, op, fmt.Sprintf("exceeded %s", a.timeout))
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	}
	if out == nil || out.Stderr == "" {
		// yt-dlp never produced diagnostics: not found or failed to start.
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	kind := classifyStderr(out.Stderr)
	detail := errorDetail(out.Stderr)
	a.logger.Warn("yt-dlp failed",
		"op", op,
		"url", inv.URL,
		"kind", kind,
		"exit_code", out.ExitCode,
		"detail", detail,
	)
	return nil, domain.NewExtractionError(kind, op, detail)
}
