package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

// VideoIDLength is the length of every YouTube video identifier.
const VideoIDLength = 11

// VideoRef is a canonical YouTube video identifier.
type VideoRef string

// String returns the identifier.
func (v VideoRef) String() string {
	return string(v)
}

// IsValid returns true if the identifier has the YouTube shape.
func (v VideoRef) IsValid() bool {
	return videoIDRe.MatchString(string(v))
}

// WatchURL returns the canonical watch page URL for the video.
func (v VideoRef) WatchURL() string {
	return "https://www.youtube.com/watch?v=" + string(v)
}

// VideoMetadata holds optional descriptive data about a video.
type VideoMetadata struct {
	// Title is the video title.
	Title string

	// Channel is the uploading channel's name.
	Channel string

	// Duration is the video length, zero when unknown.
	Duration time.Duration
}

var (
	// youtubeURLRe is a cheap shape check run before structured parsing.
	youtubeURLRe = regexp.MustCompile(
		`(?i)(?:https?://)?(?:[0-9A-Z-]+\.)?(?:youtube|youtu|youtube-nocookie)\.(?:com|be)/` +
			`(?:watch\?v=|watch\?.+&v=|embed/|v/|.+\?v=)?([^&=\n%?]{11})`)

	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

	// pathPrefixes are the youtube.com path shapes that carry the id as the next segment.
	pathPrefixes = []string{"/shorts/", "/embed/", "/v/", "/live/"}
)

// ValidateVideoURL reports whether raw is a YouTube video URL and returns its id.
// It never fails for well-formed but wrong strings; it returns false and an empty ref.
func ValidateVideoURL(raw string) (bool, VideoRef) {
	id, err := parseVideoURL(raw)
	if err != nil {
		return false, ""
	}
	return true, id
}

// VideoIDFromURL returns the video id for raw.
// Returns ErrInvalidURL when raw is not a YouTube URL and ErrNoVideoID when
// it is one but no 11-character id can be extracted.
func VideoIDFromURL(raw string) (VideoRef, error) {
	return parseVideoURL(raw)
}

func parseVideoURL(raw string) (VideoRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || !youtubeURLRe.MatchString(raw) {
		return "", ErrInvalidURL
	}

	candidate := raw
	if !strings.Contains(strings.ToLower(candidate), "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return "", ErrInvalidURL
	}

	host := strings.ToLower(u.Hostname())
	var id string
	switch {
	case hostIs(host, "youtu.be"):
		id = firstSegment(u.Path)
	case hostIs(host, "youtube.com"), hostIs(host, "youtube-nocookie.com"):
		if v := u.Query().Get("v"); v != "" {
			id = v
			break
		}
		lowerPath := strings.ToLower(u.Path)
		for _, prefix := range pathPrefixes {
			if idx := strings.Index(lowerPath, prefix); idx >= 0 {
				id = firstSegment(u.Path[idx+len(prefix):])
				break
			}
		}
	default:
		return "", ErrInvalidURL
	}

	ref := VideoRef(id)
	if !ref.IsValid() {
		return "", ErrNoVideoID
	}
	return ref, nil
}

// hostIs reports whether host is domain or one of its subdomains.
func hostIs(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

func firstSegment(p string) string {
	p = strings.TrimPrefix(p, "/")
	if i := strings.IndexByte(p, '/'); i >= 0 {
		p = p[:i]
	}
	return p
}
