package search

import (
	"net/url"
	"strings"
)

// IsYouTubeURL reports whether the input parses as a URL on a YouTube
// host. Search queries that are not URLs return false and go through
// text search instead.
func IsYouTubeURL(input string) bool {
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return false
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	return strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be")
}

// ExtractVideoID pulls the video id out of the common YouTube URL
// shapes: youtu.be short links, watch?v= links, /embed/ and /shorts/
// paths. Unrecognized shapes yield "".
func ExtractVideoID(input string) string {
	u, err := url.Parse(input)
	if err != nil || u.Host == "" {
		return ""
	}

	if strings.Contains(u.Hostname(), "youtu.be") {
		return strings.TrimPrefix(u.Path, "/")
	}

	if v := u.Query().Get("v"); v != "" {
		return v
	}

	parts := strings.Split(u.Path, "/")
	for i, part := range parts {
		if (part == "embed" || part == "shorts") && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return ""
}

// DefaultThumbnail derives the standard medium-quality thumbnail URL
// for a video id.
func DefaultThumbnail(videoID string) string {
	return "https://i.ytimg.com/vi/" + videoID + "/mqdefault.jpg"
}
