// Package huggingface provides an embedding service adapter for the Hugging
// Face inference feature-extraction pipeline.
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://router.huggingface.co/hf-inference/models"
	DefaultModel      = "intfloat/e5-mistral-7b-instruct"
	DefaultTimeout    = 120 * time.Second
	DefaultDimensions = 4096 // e5-mistral-7b-instruct
)

// Config holds configuration for the Hugging Face embedding service.
type Config struct {
	// Token is the Hugging Face access token (required).
	Token string

	// BaseURL is the inference models root (default: router hf-inference).
	BaseURL string

	// Model is the repository id of the embedding model.
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Dimensions is the expected vector size.
	Dimensions int
}

// EmbeddingService generates embeddings through feature extraction.
type EmbeddingService struct {
	client     *http.Client
	endpoint   string
	token      string
	model      string
	dimensions int
}

type featureRequest struct {
	Inputs []string `json:"inputs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewEmbeddingService creates a new Hugging Face embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("huggingface: access token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		client:     &http.Client{Timeout: cfg.Timeout},
		endpoint:   strings.TrimRight(cfg.BaseURL, "/") + "/" + cfg.Model + "/pipeline/feature-extraction",
		token:      cfg.Token,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch embeds all texts in one request.
// Models that return per-token vectors are mean-pooled to one vector per text.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	body, err := json.Marshal(featureRequest{Inputs: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("huggingface: send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if json.Unmarshal(raw, &e) == nil && e.Error != "" {
			return nil, fmt.Errorf("huggingface error (status %d): %s", resp.StatusCode, e.Error)
		}
		return nil, fmt.Errorf("huggingface error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	embeddings, err := decodeFeatures(raw)
	if err != nil {
		return nil, err
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("huggingface: expected %d embeddings, got %d", len(texts), len(embeddings))
	}
	return embeddings, nil
}

// decodeFeatures accepts pooled ([text][dim]) and token-level
// ([text][token][dim]) responses.
func decodeFeatures(raw []byte) ([][]float32, error) {
	var pooled [][]float32
	if err := json.Unmarshal(raw, &pooled); err == nil {
		return pooled, nil
	}

	var tokens [][][]float32
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make([][]float32, len(tokens))
	for i, vectors := range tokens {
		out[i] = meanPool(vectors)
	}
	return out, nil
}

func meanPool(vectors [][]float32) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	mean := make([]float32, len(vectors[0]))
	for _, v := range vectors {
		for j := range mean {
			if j < len(v) {
				mean[j] += v[j]
			}
		}
	}
	n := float32(len(vectors))
	for j := range mean {
		mean[j] /= n
	}
	return mean
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping embeds a single short text, since the pipeline has no metadata endpoint.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.Embed(ctx, "ping"); err != nil {
		return fmt.Errorf("huggingface: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
