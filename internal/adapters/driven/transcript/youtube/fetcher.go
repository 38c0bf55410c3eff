// Package youtube fetches caption transcripts and video metadata from YouTube.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// Ensure Fetcher implements the interface.
var _ driven.TranscriptFetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://www.youtube.com"
	DefaultTimeout = 30 * time.Second

	maxWatchPageBytes = 6 << 20
	maxTimedTextBytes = 2 << 20
)

// errNoCaptions marks a player response without caption tracks.
var errNoCaptions = errors.New("no caption tracks")

// errNoUsableTracks marks a player whose tracks all need a PoToken.
var errNoUsableTracks = errors.New("all caption tracks require a PoToken")

var tagRe = regexp.MustCompile(`<[^>]*>`)

// Config holds configuration for the transcript fetcher.
type Config struct {
	// BaseURL is the YouTube web root (default: https://www.youtube.com).
	BaseURL string

	// Timeout bounds each HTTP request (default: 30s).
	Timeout time.Duration

	// RatePerSecond and Burst configure the request throttle.
	RatePerSecond float64
	Burst         int
}

// Fetcher reads caption tracks through the watch page, falling back to the
// ANDROID innertube player endpoint.
type Fetcher struct {
	client  *http.Client
	baseURL string
	limiter *RateLimiter
}

// NewFetcher creates a new transcript fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Fetcher{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: NewRateLimiter(cfg.RatePerSecond, cfg.Burst),
	}
}

// Fetch returns the transcript of videoID in the first available language.
// The innertube player is tried whenever the watch page yields no usable
// track, including pages whose tracks all require a proof-of-origin token.
func (f *Fetcher) Fetch(ctx context.Context, videoID domain.VideoRef, languages []string) (*domain.Transcript, error) {
	var track captionTrack
	player, err := f.watchPagePlayer(ctx, videoID)
	if err == nil {
		track, err = selectTrack(player, languages)
	}
	if err != nil {
		pageErr := err
		logger.Debug("YouTube: watch page for %s: %v; trying innertube player", videoID, pageErr)

		player, err = f.innertubePlayer(ctx, videoID)
		if err == nil {
			track, err = selectTrack(player, languages)
		}
		if err != nil {
			switch {
			case errors.Is(err, errNoCaptions), errors.Is(err, errNoUsableTracks), errors.Is(pageErr, errNoCaptions):
				return nil, fmt.Errorf("%s: %w", videoID, domain.ErrCaptionsDisabled)
			default:
				return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, videoID, err)
			}
		}
	}
	logger.Debug("YouTube: %s using %s track (kind=%q)", videoID, track.LanguageCode, track.Kind)

	content, err := f.timedText(ctx, track.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrFetchFailed, videoID, err)
	}

	return domain.NewTranscript(videoID, content, track.LanguageCode), nil
}

// selectTrack picks the best track of player or reports why there is none.
func selectTrack(player *playerResponse, languages []string) (captionTrack, error) {
	if len(player.tracks()) == 0 {
		return captionTrack{}, noCaptionsError(player)
	}
	track, ok := pickTrack(player.tracks(), languages)
	if !ok {
		return captionTrack{}, errNoUsableTracks
	}
	return track, nil
}

func (f *Fetcher) watchPagePlayer(ctx context.Context, videoID domain.VideoRef) (*playerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/watch?v="+videoID.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	body, err := f.do(req, maxWatchPageBytes)
	if err != nil {
		return nil, fmt.Errorf("watch page: %w", err)
	}

	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, errors.New("ytInitialPlayerResponse not found")
	}
	raw := extractJSON(body[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, errors.New("unterminated ytInitialPlayerResponse")
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	return &player, nil
}

func (f *Fetcher) innertubePlayer(ctx context.Context, videoID domain.VideoRef) (*playerResponse, error) {
	payload, err := json.Marshal(playerRequest{
		VideoID: videoID.String(),
		Context: playerContext{Client: playerClient{
			ClientName:        androidClientName,
			ClientVersion:     androidClientVersion,
			AndroidSdkVersion: 30,
			Hl:                "en",
			Gl:                "US",
		}},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		f.baseURL+"/youtubei/v1/player?prettyPrint=false", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", androidUserAgent)
	req.Header.Set("X-Youtube-Client-Name", androidClientID)
	req.Header.Set("X-Youtube-Client-Version", androidClientVersion)

	body, err := f.do(req, maxWatchPageBytes)
	if err != nil {
		return nil, fmt.Errorf("innertube player: %w", err)
	}

	var player playerResponse
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, fmt.Errorf("decode player response: %w", err)
	}
	return &player, nil
}

// timedText downloads a caption track and space-joins its fragments.
func (f *Fetcher) timedText(ctx context.Context, trackURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	body, err := f.do(req, maxTimedTextBytes)
	if err != nil {
		return "", fmt.Errorf("timed text: %w", err)
	}

	return parseTimedText(body)
}

func (f *Fetcher) do(req *http.Request, limit int64) ([]byte, error) {
	if err := f.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		f.limiter.RecordRateLimited(resp.Header.Get("Retry-After"))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// parseTimedText joins caption fragments with single spaces in document
// order. Markup is stripped, entities are decoded and blank fragments skipped.
func parseTimedText(body []byte) (string, error) {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timed text: %w", err)
	}

	lines := tt.Texts
	if len(lines) == 0 {
		lines = tt.Paragraphs
	}

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if text := cleanFragment(line.Inner); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}

func cleanFragment(raw string) string {
	text := tagRe.ReplaceAllString(raw, "")
	// Timed text double-escapes entities such as &amp;#39;.
	text = html.UnescapeString(html.UnescapeString(text))
	return strings.Join(strings.Fields(text), " ")
}

// pickTrack chooses a manual track in the first preferred language, then an
// auto-generated one, then any English track, then the first track.
func pickTrack(tracks []captionTrack, languages []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		// Tracks marked exp=xpe need a browser proof-of-origin token.
		if t.BaseURL != "" && !strings.Contains(t.BaseURL, "&exp=xpe") {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}

	for _, lang := range languages {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != asrKind {
				return t, true
			}
		}
	}
	for _, lang := range languages {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

func noCaptionsError(player *playerResponse) error {
	if reason := player.unplayable(); reason != "" {
		return fmt.Errorf("video unplayable: %s", reason)
	}
	return errNoCaptions
}
