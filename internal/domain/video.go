package domain

import (
	"time"
)

// DefaultQuality is used when a download request names no quality.
const DefaultQuality = "best"

// DownloadRequest is a validated client request.
type DownloadRequest struct {
	URL            string
	Quality        string
	IncludeFormats bool
}

// VideoInfo is the normalized metadata of a single media item.
type VideoInfo struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Duration    float64      `json:"duration"`
	Uploader    string       `json:"uploader"`
	Qualities   []string     `json:"qualities"`
	Thumbnail   string       `json:"thumbnail,omitempty"`
	Platform    Platform     `json:"platform"`
	WebpageURL  string       `json:"webpage_url"`
	Description string       `json:"description,omitempty"`
	UploadDate  string       `json:"upload_date,omitempty"`
	ViewCount   int64        `json:"view_count"`
	LikeCount   int64        `json:"like_count"`
	Tags        []string     `json:"tags"`
	Formats     *FormatGroup `json:"formats,omitempty"`
}

// FormatInfo describes one format offered by the source.
type FormatInfo struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Height     int     `json:"height,omitempty"`
	FPS        float64 `json:"fps,omitempty"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize,omitempty"`
	FormatNote string  `json:"format_note,omitempty"`
	Resolution string  `json:"resolution,omitempty"`
}

// HasVideo reports whether the format carries a video stream.
func (f FormatInfo) HasVideo() bool {
	return f.VCodec != "" && f.VCodec != "none"
}

// HasAudio reports whether the format carries an audio stream.
func (f FormatInfo) HasAudio() bool {
	return f.ACodec != "" && f.ACodec != "none"
}

// FormatGroup splits formats by the streams they carry.
type FormatGroup struct {
	Video    []FormatInfo `json:"video"`
	Audio    []FormatInfo `json:"audio"`
	Combined []FormatInfo `json:"combined"`
}

// DownloadResult points at an artifact staged inside a scoped directory.
type DownloadResult struct {
	Path        string
	ContentType string
	Filename    string
	Size        int64
}

// HealthState is the coarse state reported by the health endpoint.
type HealthState string

const (
	HealthOK       HealthState = "ok"
	HealthDegraded HealthState = "degraded"
)

// HealthStatus is computed on demand and never stored.
type HealthStatus struct {
	Status    HealthState
	Timestamp time.Time
	Checks    HealthChecks
}

// HealthChecks holds the individual probes behind a HealthStatus.
type HealthChecks struct {
	YTDLPAvailable  bool
	FFmpegAvailable bool
	TempFreeBytes   int64
	ActiveScopes    int
}
