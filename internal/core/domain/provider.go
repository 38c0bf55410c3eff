package domain

// ProviderKeys holds the credentials and model overrides read from the
// environment. Empty fields mean "not set".
type ProviderKeys struct {
	GoogleAPIKey string
	GoogleModel  string

	HuggingFaceToken          string
	HuggingFaceModel          string
	HuggingFaceEmbeddingModel string

	OpenAIAPIKey         string
	OpenAIModel          string
	OpenAIEmbeddingModel string
	OpenAIBaseURL        string

	OllamaHost           string
	OllamaModel          string
	OllamaEmbeddingModel string

	YouTubeAPIKey string
}

// ProviderStatus reports the result of checking one provider.
type ProviderStatus struct {
	Kind       string     `json:"kind"`
	Provider   AIProvider `json:"provider"`
	Model      string     `json:"model"`
	Configured bool       `json:"configured"`
	Selected   bool       `json:"selected"`
	Error      string     `json:"error,omitempty"`
}
