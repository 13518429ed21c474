package extractor

import (
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"github.com/iconidentify/vidfetch/internal/domain"
)

const (
	maxDescriptionLen  = 500
	maxTags            = 10
	maxFormatsPerGroup = 15
)

// rawInfo is the subset of yt-dlp's info JSON that is used.
type rawInfo struct {
	Type        string      `json:"_type"`
	Entries     []rawInfo   `json:"entries"`
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Duration    float64     `json:"duration"`
	Uploader    string      `json:"uploader"`
	UploadDate  string      `json:"upload_date"`
	ViewCount   int64       `json:"view_count"`
	LikeCount   int64       `json:"like_count"`
	Thumbnail   string      `json:"thumbnail"`
	WebpageURL  string      `json:"webpage_url"`
	Ext         string      `json:"ext"`
	Tags        []string    `json:"tags"`
	Formats     []rawFormat `json:"formats"`
}

type rawFormat struct {
	FormatID   string  `json:"format_id"`
	Ext        string  `json:"ext"`
	Height     int     `json:"height"`
	FPS        float64 `json:"fps"`
	VCodec     string  `json:"vcodec"`
	ACodec     string  `json:"acodec"`
	Filesize   int64   `json:"filesize"`
	FormatNote string  `json:"format_note"`
	Resolution string  `json:"resolution"`
}

var (
	errNoJSON        = errors.New("no JSON object in yt-dlp output")
	errEmptyPlaylist = errors.New("playlist has no entries")
)

// parseInfo decodes yt-dlp stdout. When several JSON documents were printed
// the last one that decodes wins. A playlist document yields its first entry.
func parseInfo(stdout string) (*rawInfo, error) {
	data := strings.TrimSpace(stdout)
	if data == "" {
		return nil, errNoJSON
	}

	var info rawInfo
	err := json.Unmarshal([]byte(data), &info)
	if err == nil {
		return firstItem(&info)
	}

	lines := strings.Split(data, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if !strings.HasPrefix(line, "{") {
			continue
		}
		var tmp rawInfo
		if json.Unmarshal([]byte(line), &tmp) == nil {
			return firstItem(&tmp)
		}
	}
	return nil, err
}

func firstItem(info *rawInfo) (*rawInfo, error) {
	if info.Type != "playlist" && info.Type != "multi_video" {
		return info, nil
	}
	if len(info.Entries) == 0 {
		return nil, errEmptyPlaylist
	}
	return firstItem(&info.Entries[0])
}

// toVideoInfo normalizes raw metadata. pageURL is the URL the client asked
// for; it is the fallback webpage URL and decides the platform.
func toVideoInfo(raw *rawInfo, pageURL string, includeFormats bool) *domain.VideoInfo {
	info := &domain.VideoInfo{
		ID:          raw.ID,
		Title:       orDefault(raw.Title, "Unknown"),
		Duration:    raw.Duration,
		Uploader:    orDefault(raw.Uploader, "Unknown"),
		Qualities:   qualities(raw.Formats),
		Thumbnail:   raw.Thumbnail,
		Platform:    domain.DetectPlatform(pageURL),
		WebpageURL:  orDefault(raw.WebpageURL, pageURL),
		Description: truncateDescription(raw.Description),
		UploadDate:  raw.UploadDate,
		ViewCount:   raw.ViewCount,
		LikeCount:   raw.LikeCount,
		Tags:        raw.Tags,
	}
	if len(info.Tags) > maxTags {
		info.Tags = info.Tags[:maxTags]
	}
	if info.Tags == nil {
		info.Tags = []string{}
	}
	if includeFormats {
		info.Formats = groupFormats(raw.Formats)
	}
	return info
}

func truncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= maxDescriptionLen {
		return s
	}
	return string(r[:maxDescriptionLen]) + "..."
}

// qualities lists distinct video heights, highest first, followed by
// "audio" when an audio-only stream is offered.
func qualities(formats []rawFormat) []string {
	seen := make(map[int]bool)
	var heights []int
	hasAudioOnly := false

	for _, rf := range formats {
		f := toFormatInfo(rf)
		if f.HasVideo() && f.Height > 0 && !seen[f.Height] {
			seen[f.Height] = true
			heights = append(heights, f.Height)
		}
		if !f.HasVideo() && f.HasAudio() {
			hasAudioOnly = true
		}
	}

	sort.Sort(sort.Reverse(sort.IntSlice(heights)))
	out := make([]string, 0, len(heights)+1)
	for _, h := range heights {
		out = append(out, domain.HeightQuality(h))
	}
	if hasAudioOnly {
		out = append(out, domain.AudioQuality)
	}
	return out
}

// groupFormats keeps the first formats of each category, as listed by
// yt-dlp, then orders them by height.
func groupFormats(formats []rawFormat) *domain.FormatGroup {
	group := &domain.FormatGroup{
		Video:    []domain.FormatInfo{},
		Audio:    []domain.FormatInfo{},
		Combined: []domain.FormatInfo{},
	}
	for _, rf := range formats {
		f := toFormatInfo(rf)
		switch {
		case f.HasVideo() && f.HasAudio():
			group.Combined = appendCapped(group.Combined, f)
		case f.HasVideo():
			group.Video = appendCapped(group.Video, f)
		case f.HasAudio():
			group.Audio = appendCapped(group.Audio, f)
		}
	}
	for _, list := range [][]domain.FormatInfo{group.Video, group.Audio, group.Combined} {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Height > list[j].Height
		})
	}
	return group
}

func appendCapped(list []domain.FormatInfo, f domain.FormatInfo) []domain.FormatInfo {
	if len(list) >= maxFormatsPerGroup {
		return list
	}
	return append(list, f)
}

func toFormatInfo(rf rawFormat) domain.FormatInfo {
	return domain.FormatInfo{
		FormatID:   rf.FormatID,
		Ext:        rf.Ext,
		Height:     rf.Height,
		FPS:        rf.FPS,
		VCodec:     rf.VCodec,
		ACodec:     rf.ACodec,
		Filesize:   rf.Filesize,
		FormatNote: rf.FormatNote,
		Resolution: rf.Resolution,
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
