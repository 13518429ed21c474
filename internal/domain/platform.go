package domain

import (
	"net/url"
	"strings"
)

// Platform is the display name of a recognised media site.
type Platform string

// PlatformUnknown is reported for hosts outside the known list. yt-dlp may
// still support them.
const PlatformUnknown Platform = "Unknown"

type platformDomain struct {
	domain   string
	platform Platform
}

// knownPlatforms is ordered; the first matching domain wins.
var knownPlatforms = []platformDomain{
	{"youtube.com", "YouTube"},
	{"youtu.be", "YouTube"},
	{"twitter.com", "Twitter"},
	{"x.com", "Twitter"},
	{"instagram.com", "Instagram"},
	{"tiktok.com", "TikTok"},
	{"facebook.com", "Facebook"},
	{"vimeo.com", "Vimeo"},
	{"dailymotion.com", "Dailymotion"},
	{"twitch.tv", "Twitch"},
	{"reddit.com", "Reddit"},
	{"soundcloud.com", "SoundCloud"},
}

// DetectPlatform maps a URL's host to a known platform. Subdomains match
// their parent domain (m.youtube.com is YouTube, box.com is not x.com).
func DetectPlatform(rawURL string) Platform {
	u, err := url.Parse(rawURL)
	if err != nil {
		return PlatformUnknown
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range knownPlatforms {
		if host == p.domain || strings.HasSuffix(host, "."+p.domain) {
			return p.platform
		}
	}
	return PlatformUnknown
}

// SupportedPlatforms returns the distinct platform names in display order.
func SupportedPlatforms() []Platform {
	seen := make(map[Platform]bool, len(knownPlatforms))
	out := make([]Platform, 0, len(knownPlatforms))
	for _, p := range knownPlatforms {
		if seen[p.platform] {
			continue
		}
		seen[p.platform] = true
		out = append(out, p.platform)
	}
	return out
}
