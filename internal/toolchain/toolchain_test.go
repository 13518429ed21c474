package toolchain

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestFindDownloader_CustomPath(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "yt-dlp")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("write fake binary: %v", err)
	}

	got, err := FindDownloader(bin)
	if err != nil {
		t.Fatalf("FindDownloader() error = %v", err)
	}
	if got != bin {
		t.Errorf("FindDownloader() = %q, want %q", got, bin)
	}
}

func TestFindDownloader_MissingCustomPath(t *testing.T) {
	_, err := FindDownloader(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("FindDownloader() error = %v, want ErrNotFound", err)
	}
}

func TestFindDownloader_EmptyPATH(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	if _, err := FindDownloader(""); !errors.Is(err, ErrNotFound) {
		t.Errorf("FindDownloader() error = %v, want ErrNotFound", err)
	}
	p := Probe{}
	if p.DownloaderAvailable() {
		t.Error("DownloaderAvailable() = true with empty PATH")
	}
	if p.FFmpegAvailable() {
		t.Error("FFmpegAvailable() = true with empty PATH")
	}
}

func TestFreeDiskSpace(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	if got, err := FreeDiskSpace(missing); err == nil || got != 0 {
		t.Errorf("FreeDiskSpace(missing) = %d, %v; want 0 and an error", got, err)
	}
	if got := (Probe{TempRoot: missing}).FreeBytes(); got != 0 {
		t.Errorf("FreeBytes() on missing root = %d, want 0", got)
	}

	if runtime.GOOS == "windows" {
		t.Skip("free space on CI volumes is not predictable")
	}
	p := Probe{TempRoot: t.TempDir()}
	if got := p.FreeBytes(); got <= 0 {
		t.Errorf("FreeBytes() = %d, want > 0", got)
	}
}
