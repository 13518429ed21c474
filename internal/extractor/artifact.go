package extractor

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"
)

const (
	defaultContentType = "application/octet-stream"
	maxFilenameRunes   = 200
)

// partialSuffixes mark files yt-dlp writes while working or alongside media.
var partialSuffixes = []string{".part", ".ytdl", ".json", ".temp", ".tmp", ".description", ".vtt", ".srt"}

// locateArtifact returns the finished media file in dir, preferring common
// playable containers.
func locateArtifact(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var candidates []string
	for _, e := range entries {
		if e.IsDir() || isPartial(e.Name()) {
			continue
		}
		candidates = append(candidates, filepath.Join(dir, e.Name()))
	}
	if len(candidates) == 0 {
		return "", os.ErrNotExist
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi := extPriority(filepath.Ext(candidates[i]))
		pj := extPriority(filepath.Ext(candidates[j]))
		if pi == pj {
			return candidates[i] < candidates[j]
		}
		return pi < pj
	})
	return candidates[0], nil
}

func isPartial(name string) bool {
	lower := strings.ToLower(name)
	if strings.Contains(lower, ".part-frag") {
		return true
	}
	for _, s := range partialSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

func extPriority(ext string) int {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp4":
		return 0
	case "mkv":
		return 1
	case "webm":
		return 2
	case "mov":
		return 3
	default:
		return 9
	}
}

// detectContentType sniffs the file's leading bytes.
func detectContentType(path string) string {
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return defaultContentType
	}
	return mt.String()
}

// SanitizeFilename turns a media title into a portable file name stem.
// An empty result falls back to "download".
func SanitizeFilename(title string) string {
	var sb strings.Builder
	lastSpace := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			sb.WriteRune('_')
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				sb.WriteRune(' ')
			}
			lastSpace = true
		default:
			sb.WriteRune(r)
			lastSpace = false
		}
	}

	s := strings.Trim(sb.String(), " .")
	if r := []rune(s); len(r) > maxFilenameRunes {
		s = strings.TrimRight(string(r[:maxFilenameRunes]), " .")
	}
	if s == "" {
		return "download"
	}
	return s
}
