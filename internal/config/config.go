// Package config resolves runtime configuration from the environment, an
// optional .env file and the TOML settings file.
//
// Secrets and provider choices come from environment variables only. The
// TOML file holds everything else and environment variables override the
// few settings that have a conventional variable (DATABASE_URL, AWS_REGION).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/custodia-labs/ytqa/internal/core/domain"
	"github.com/custodia-labs/ytqa/internal/logger"
)

// Environment variable names.
const (
	EnvGoogleAPIKey          = "GOOGLE_API_KEY"
	EnvGoogleModel           = "GOOGLE_GENERATIVE_MODEL"
	EnvHuggingFaceToken      = "HUGGINGFACEHUB_ACCESS_TOKEN"
	EnvHuggingFaceTokenAlias = "HUGGINGFACEHUB_API_TOKEN"
	EnvHuggingFaceModel      = "HUGGINGFACE_MODEL"
	EnvHuggingFaceEmbeddings = "HUGGINGFACE_EMBEDDINGS_MODEL"
	EnvOpenAIAPIKey          = "OPENAI_API_KEY"
	EnvOpenAIModel           = "OPENAI_MODEL"
	EnvOpenAIEmbeddings      = "OPENAI_EMBEDDINGS_MODEL"
	EnvOpenAIBaseURL         = "OPENAI_BASE_URL"
	EnvOllamaHost            = "OLLAMA_HOST"
	EnvOllamaModel           = "OLLAMA_MODEL"
	EnvOllamaEmbeddings      = "OLLAMA_EMBEDDINGS_MODEL"
	EnvYouTubeAPIKey         = "YOUTUBE_API_KEY"
	EnvDatabaseURL           = "DATABASE_URL"
	EnvVectorBackend         = "YTQA_VECTOR_BACKEND"
	EnvArchiveBucket         = "YTQA_ARCHIVE_BUCKET"
	EnvAWSRegion             = "AWS_REGION"
	EnvAWSDefaultRegion      = "AWS_DEFAULT_REGION"
	EnvAWSEndpoint           = "AWS_ENDPOINT_URL"
	EnvAWSAccessKey          = "AWS_ACCESS_KEY_ID"
	EnvAWSSecretKey          = "AWS_SECRET_ACCESS_KEY"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

var validate = validator.New()

// Getenv looks up an environment variable; os.Getenv in production.
type Getenv func(key string) string

// AWSCredentials are static credentials for the transcript archive.
// Empty values defer to the SDK's default credential chain.
type AWSCredentials struct {
	AccessKey string
	SecretKey string
}

// Config is the fully resolved runtime configuration.
type Config struct {
	Keys     domain.ProviderKeys
	Settings domain.AppSettings
	AWS      AWSCredentials
}

// LoadDotEnv loads variables from files into the process environment.
// Variables that are already set win. Missing files are not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	for _, f := range files {
		err := godotenv.Load(f)
		switch {
		case err == nil:
			logger.Debug("Config: loaded %s", f)
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("Config: no %s file", f)
		default:
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Resolve overlays the environment onto settings, validates the result and
// collects provider credentials. A nil getenv means os.Getenv.
func Resolve(settings domain.AppSettings, getenv Getenv) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	ApplyEnv(&settings, getenv)
	if err := Validate(&settings); err != nil {
		return nil, err
	}

	return &Config{
		Keys:     ProviderKeysFromEnv(getenv),
		Settings: settings,
		AWS: AWSCredentials{
			AccessKey: getenv(EnvAWSAccessKey),
			SecretKey: getenv(EnvAWSSecretKey),
		},
	}, nil
}

// ProviderKeysFromEnv reads every provider credential and model override.
func ProviderKeysFromEnv(getenv Getenv) domain.ProviderKeys {
	return domain.ProviderKeys{
		GoogleAPIKey: getenv(EnvGoogleAPIKey),
		GoogleModel:  getenv(EnvGoogleModel),

		HuggingFaceToken:          firstNonEmpty(getenv(EnvHuggingFaceToken), getenv(EnvHuggingFaceTokenAlias)),
		HuggingFaceModel:          getenv(EnvHuggingFaceModel),
		HuggingFaceEmbeddingModel: getenv(EnvHuggingFaceEmbeddings),

		OpenAIAPIKey:         getenv(EnvOpenAIAPIKey),
		OpenAIModel:          getenv(EnvOpenAIModel),
		OpenAIEmbeddingModel: getenv(EnvOpenAIEmbeddings),
		OpenAIBaseURL:        getenv(EnvOpenAIBaseURL),

		OllamaHost:           normaliseHost(getenv(EnvOllamaHost)),
		OllamaModel:          getenv(EnvOllamaModel),
		OllamaEmbeddingModel: getenv(EnvOllamaEmbeddings),

		YouTubeAPIKey: getenv(EnvYouTubeAPIKey),
	}
}

// ApplyEnv overrides settings that have a conventional environment variable.
func ApplyEnv(settings *domain.AppSettings, getenv Getenv) {
	if v := getenv(EnvVectorBackend); v != "" {
		settings.Vector.Backend = domain.VectorBackend(strings.ToLower(v))
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		settings.Vector.DatabaseURL = v
	}
	if v := getenv(EnvArchiveBucket); v != "" {
		settings.Archive.Bucket = v
	}
	if v := firstNonEmpty(getenv(EnvAWSRegion), getenv(EnvAWSDefaultRegion)); v != "" && settings.Archive.Region == "" {
		settings.Archive.Region = v
	}
	if v := getenv(EnvAWSEndpoint); v != "" && settings.Archive.Endpoint == "" {
		settings.Archive.Endpoint = v
	}
}

// Validate checks settings against their struct constraints.
// Failures wrap domain.ErrInvalidInput and name every offending field.
func Validate(settings *domain.AppSettings) error {
	err := validate.Struct(settings)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.TrimPrefix(e.Namespace(), "AppSettings.")
		msgs = append(msgs, fmt.Sprintf("%s failed on '%s'", field, e.Tag()))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

// normaliseHost adds the scheme Ollama's own CLI accepts implicitly.
func normaliseHost(host string) string {
	host = strings.TrimSpace(host)
	if host == "" || strings.Contains(host, "://") {
		return host
	}
	return "http://" + host
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
