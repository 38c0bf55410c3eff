// Package s3 archives fetched transcripts to an S3-compatible bucket.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// Ensure Archive implements the interface.
var _ driven.TranscriptArchive = (*Archive)(nil)

// DefaultPrefix is the key prefix used when none is configured.
const DefaultPrefix = "transcripts"

// Config holds configuration for the archive.
type Config struct {
	// Bucket is the destination bucket (required).
	Bucket string

	// Region is the bucket region (required).
	Region string

	// Endpoint points at an S3-compatible service such as Spaces or MinIO.
	// Setting it switches to path-style addressing.
	Endpoint string

	// Prefix is prepended to every object key.
	Prefix string

	// AccessKey and SecretKey select static credentials. When empty the
	// default AWS credential chain is used.
	AccessKey string
	SecretKey string
}

// Archive writes transcripts as JSON objects.
type Archive struct {
	client *s3.Client
	bucket string
	prefix string
	now    func() time.Time
}

// record is the stored object layout.
type record struct {
	VideoID    string         `json:"video_id"`
	Language   string         `json:"language"`
	Translated bool           `json:"translated"`
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
	ArchivedAt time.Time      `json:"archived_at"`
}

// NewArchive creates an archive client.
func NewArchive(ctx context.Context, cfg Config) (*Archive, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		now:    time.Now,
	}, nil
}

// Put uploads the transcript to <prefix>/<video_id>.json.
func (a *Archive) Put(ctx context.Context, t *domain.Transcript) error {
	body, err := json.Marshal(record{
		VideoID:    t.VideoID.String(),
		Language:   t.Language,
		Translated: t.Translated,
		Content:    t.Content,
		Metadata:   t.Metadata,
		ArchivedAt: a.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("s3: marshal transcript: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(a.Key(t.VideoID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3: put %s: %w", t.VideoID, err)
	}
	return nil
}

// Key returns the object key for a video.
func (a *Archive) Key(videoID domain.VideoRef) string {
	return path.Join(a.prefix, videoID.String()+".json")
}
