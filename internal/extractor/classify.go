package extractor

import (
	"strings"

	"github.com/iconidentify/vidfetch/internal/domain"
)

type stderrRule struct {
	kind    domain.ErrorKind
	markers []string
}

// stderrRules are checked in order against lower-cased stderr.
var stderrRules = []stderrRule{
	{domain.KindDiskIO, []string{
		"no space left on device",
		"disk quota exceeded",
		"read-only file system",
		"permission denied",
		"unable to open for writing",
		"unable to write",
		"unable to rename file",
	}},
	{domain.KindPrivateOrRemoved, []string{
		"private video",
		"video is private",
		"video unavailable",
		"video is unavailable",
		"content is not available",
		"has been removed",
		"been terminated",
		"no longer available",
		"video is not available",
		"does not exist",
		"has been deleted",
		"available in your country",
		"not available from your location",
		"geo restriction",
		"geo-restricted",
		"sign in to confirm your age",
		"members-only",
		"login required",
		"requires authentication",
		"http error 404",
		"http error 410",
	}},
	{domain.KindUnsupportedURL, []string{
		"unsupported url",
		"no suitable extractor",
		"is not a valid url",
	}},
	{domain.KindUpstreamUnavailable, []string{
		"unable to download webpage",
		"unable to download json metadata",
		"unable to extract",
		"timed out",
		"connection refused",
		"connection reset",
		"network is unreachable",
		"name or service not known",
		"temporary failure in name resolution",
		"http error",
	}},
}

// classifyStderr maps yt-dlp's diagnostic output to an error kind.
// Anything unrecognised is treated as an upstream failure.
func classifyStderr(stderr string) domain.ErrorKind {
	lower := strings.ToLower(stderr)
	for _, rule := range stderrRules {
		for _, m := range rule.markers {
			if strings.Contains(lower, m) {
				return rule.kind
			}
		}
	}
	return domain.KindUpstreamUnavailable
}

const maxDetailLen = 500

// errorDetail picks the most useful line of stderr for logs.
func errorDetail(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	detail := ""
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			detail = line
			break
		}
		if detail == "" {
			detail = line
		}
	}
	if len(detail) > maxDetailLen {
		detail = detail[:maxDetailLen]
	}
	return detail
}
