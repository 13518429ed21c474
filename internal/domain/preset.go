package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Preset is a named yt-dlp format selector.
type Preset struct {
	Name        string `json:"name"`
	Selector    string `json:"selector"`
	Description string `json:"description"`
}

var presets = []Preset{
	{"best_video", "best[ext=mp4]/best", "Best quality video (MP4)"},
	{"best_audio", "bestaudio[ext=m4a]/bestaudio", "Best quality audio only"},
	{"worst_video", "worst[ext=mp4]/worst", "Smallest file size video"},
	{"hd_720p", "best[height<=720][ext=mp4]", "720p HD video"},
	{"hd_1080p", "best[height<=1080][ext=mp4]", "1080p Full HD video"},
	{"4k", "best[height<=2160][ext=mp4]", "4K Ultra HD video (if available)"},
	{"audio_only", "bestaudio/best", "Audio only (various formats)"},
	{"video_only", "bestvideo[ext=mp4]", "Video only (no audio)"},
}

// AudioQuality is the hint listed in VideoInfo.Qualities for audio-only downloads.
const AudioQuality = "audio"

// Presets returns the named format presets.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// ResolveQuality turns a quality hint into the selector handed to yt-dlp.
// Named presets and the "<N>p" and "audio" shorthands are expanded; any
// other hint is passed through untouched.
func ResolveQuality(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return DefaultQuality
	}
	for _, p := range presets {
		if p.Name == hint {
			return p.Selector
		}
	}
	if hint == AudioQuality {
		return "bestaudio/best"
	}
	if h, ok := parseHeight(hint); ok {
		return fmt.Sprintf("bestvideo[height<=%d]+bestaudio/best[height<=%d]", h, h)
	}
	return hint
}

// HeightQuality formats a video height as a quality hint ("720p").
func HeightQuality(height int) string {
	return strconv.Itoa(height) + "p"
}

func parseHeight(hint string) (int, bool) {
	digits, ok := strings.CutSuffix(strings.ToLower(hint), "p")
	if !ok || digits == "" {
		return 0, false
	}
	h, err := strconv.Atoi(digits)
	if err != nil || h <= 0 {
		return 0, false
	}
	return h, true
}
