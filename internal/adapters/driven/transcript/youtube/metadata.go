package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// Ensure MetadataService implements the interface.
var _ driven.MetadataProvider = (*MetadataService)(nil)

var isoDurationRe = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// MetadataConfig holds configuration for the YouTube Data API client.
type MetadataConfig struct {
	// APIKey is the YouTube Data API key (required).
	APIKey string

	// Endpoint overrides the API root, mainly for tests.
	Endpoint string
}

// MetadataService looks up titles and durations through the YouTube Data API.
type MetadataService struct {
	svc *yt.Service
}

// NewMetadataService creates a YouTube Data API client.
func NewMetadataService(ctx context.Context, cfg MetadataConfig) (*MetadataService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube: API key is required")
	}

	opts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(strings.TrimRight(cfg.Endpoint, "/")+"/"))
	}

	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube: create service: %w", err)
	}
	return &MetadataService{svc: svc}, nil
}

// Lookup returns the title, channel and duration of a video.
func (m *MetadataService) Lookup(ctx context.Context, videoID domain.VideoRef) (*domain.VideoMetadata, error) {
	resp, err := m.svc.Videos.List([]string{"snippet", "contentDetails"}).
		Id(videoID.String()).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("%s: %w", videoID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("youtube: list videos: %w", err)
	}
	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%s: %w", videoID, domain.ErrNotFound)
	}

	item := resp.Items[0]
	meta := &domain.VideoMetadata{}
	if item.Snippet != nil {
		meta.Title = item.Snippet.Title
		meta.Channel = item.Snippet.ChannelTitle
	}
	if item.ContentDetails != nil {
		meta.Duration = parseISODuration(item.ContentDetails.Duration)
	}
	return meta, nil
}

// parseISODuration converts the API's ISO 8601 durations (PT1H2M3S).
// Unknown shapes yield zero.
func parseISODuration(s string) time.Duration {
	m := isoDurationRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var d time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return 0
		}
		d += time.Duration(n) * unit
	}
	return d
}
