package domain

import "time"

// OutputEncoding is the text encoding of the written answer file.
type OutputEncoding string

// Supported output encodings.
const (
	EncodingUTF8  OutputEncoding = "utf-8"
	EncodingUTF16 OutputEncoding = "utf-16"
)

// IsValid returns true if the encoding is supported.
func (e OutputEncoding) IsValid() bool {
	return e == EncodingUTF8 || e == EncodingUTF16
}

// VectorSettings configures the vector collection.
type VectorSettings struct {
	Backend     VectorBackend `validate:"required,oneof=sqlite postgres memory"`
	Dir         string        `validate:"required_if=Backend sqlite"`
	Collection  string        `validate:"required,max=63"`
	K           int           `validate:"gte=1,lte=50"`
	DatabaseURL string        `validate:"required_if=Backend postgres"`
}

// TranscriptSettings configures fetching and translation.
type TranscriptSettings struct {
	Languages      []string `validate:"min=1,dive,required"`
	Translate      bool
	TargetLanguage string  `validate:"required"`
	RatePerSecond  float64 `validate:"gt=0"`
	Burst          int     `validate:"gte=1"`
}

// GenerationSettings configures answer generation.
type GenerationSettings struct {
	Temperature    float64 `validate:"gte=0,lte=2"`
	ThinkEndMarker string
	MaxTokens      int `validate:"gte=0"`
}

// OutputSettings configures where answers are written.
type OutputSettings struct {
	Path     string         `validate:"required"`
	Encoding OutputEncoding `validate:"oneof=utf-8 utf-16"`
}

// ArchiveSettings configures the optional S3 transcript archive.
// An empty Bucket disables archiving.
type ArchiveSettings struct {
	Bucket   string
	Region   string `validate:"required_with=Bucket"`
	Endpoint string `validate:"omitempty,url"`
	Prefix   string
}

// Enabled reports whether archiving is configured.
func (a ArchiveSettings) Enabled() bool {
	return a.Bucket != ""
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr         string        `validate:"required"`
	ReadTimeout  time.Duration `validate:"gte=0"`
	WriteTimeout time.Duration `validate:"gte=0"`
}

// AppSettings holds every non-secret setting.
type AppSettings struct {
	Vector     VectorSettings
	Transcript TranscriptSettings
	Generation GenerationSettings
	Output     OutputSettings
	Archive    ArchiveSettings
	Server     ServerSettings
	Processors []string `validate:"min=1,dive,oneof=cleaner chunker"`
	PromptDir  string
}

// DefaultAppSettings returns the settings used when nothing is configured.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Vector: VectorSettings{
			Backend:    VectorBackendSQLite,
			Dir:        "db",
			Collection: "yt_store",
			K:          4,
		},
		Transcript: TranscriptSettings{
			Languages:      []string{"en", "hi"},
			Translate:      true,
			TargetLanguage: "en",
			RatePerSecond:  2,
			Burst:          1,
		},
		Generation: GenerationSettings{
			Temperature:    0.5,
			ThinkEndMarker: "</think>",
		},
		Output: OutputSettings{
			Path:     "out/response.md",
			Encoding: EncodingUTF16,
		},
		Server: ServerSettings{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Processors: []string{"cleaner", "chunker"},
	}
}
