package postprocessors

import (
	"github.com/custodia-labs/ytqa/internal/core/ports/driven"
	"github.com/custodia-labs/ytqa/internal/postprocessors/chunker"
	"github.com/custodia-labs/ytqa/internal/postprocessors/cleaner"
)

// DefaultProcessors is the processor order used when none is configured.
var DefaultProcessors = []string{"cleaner", "chunker"}

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("cleaner", buildCleaner)
	r.Register("chunker", buildChunker)
}

// NewDefaultPipeline builds the cleaner + chunker pipeline with default settings.
func NewDefaultPipeline() *Pipeline {
	return NewPipeline(cleaner.New(), chunker.New())
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Characters per chunk (default: 1000)
//   - overlap (int): Overlapping characters between chunks (default: 200)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
		if _, ok := cfg["overlap"]; ok {
			opts = append(opts, chunker.WithOverlap(getIntFromConfig(cfg, "overlap")))
		}
	}

	return chunker.New(opts...), nil
}

// buildCleaner creates a cleaner processor from generic config.
// Supported config keys:
//   - keep_cues (bool): keep bracketed cues such as [Music] (default: false)
func buildCleaner(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []cleaner.Option
	if keep, ok := cfg["keep_cues"].(bool); ok && keep {
		opts = append(opts, cleaner.KeepCues())
	}
	return cleaner.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
