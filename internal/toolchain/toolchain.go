// Package toolchain locates the external binaries the server shells out to
// and probes the filesystem they write into.
package toolchain

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrNotFound is returned when a required binary cannot be located.
var ErrNotFound = errors.New("binary not found")

// downloaderNames are tried in order when no explicit path is configured.
var downloaderNames = []string{"yt-dlp", "youtube-dl"}

// FindDownloader returns the path to yt-dlp or youtube-dl.
// If customPath is non-empty, it tries that path or looks it up in PATH.
func FindDownloader(customPath string) (string, error) {
	if customPath != "" {
		if _, err := os.Stat(customPath); err == nil {
			return customPath, nil
		}
		if p, err := exec.LookPath(customPath); err == nil {
			return p, nil
		}
		return "", fmt.Errorf("downloader %q: %w", customPath, ErrNotFound)
	}
	for _, name := range downloaderNames {
		if p, err := exec.LookPath(name); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("yt-dlp or youtube-dl in PATH: %w", ErrNotFound)
}

// FindFFmpeg returns the path to the ffmpeg binary in PATH.
func FindFFmpeg() (string, error) {
	if p, err := exec.LookPath("ffmpeg"); err == nil {
		return p, nil
	}
	return "", fmt.Errorf("ffmpeg in PATH: %w", ErrNotFound)
}

// Probe reports tool availability and free space for health checks.
type Probe struct {
	DownloaderPath string
	TempRoot       string
}

// DownloaderAvailable reports whether the configured downloader can be found.
func (p Probe) DownloaderAvailable() bool {
	_, err := FindDownloader(p.DownloaderPath)
	return err == nil
}

// FFmpegAvailable reports whether ffmpeg is on PATH.
func (p Probe) FFmpegAvailable() bool {
	_, err := FindFFmpeg()
	return err == nil
}

// FreeBytes returns the space available to unprivileged users on the
// filesystem holding TempRoot, or 0 if it cannot be determined.
func (p Probe) FreeBytes() int64 {
	free, err := FreeDiskSpace(p.TempRoot)
	if err != nil {
		return 0
	}
	return free
}
