package domain

// PipelineState names a step of the retrieval orchestration.
type PipelineState string

// Pipeline states in execution order.
const (
	StateCheckCache PipelineState = "check_cache"
	StateCacheHit   PipelineState = "cache_hit"
	StateCacheMiss  PipelineState = "cache_miss"
	StateIngest     PipelineState = "ingest"
	StateRetrieve   PipelineState = "retrieve"
	StateFormat     PipelineState = "format"
	StateGenerate   PipelineState = "generate"
	StateDone       PipelineState = "done"
)

// String returns the string representation.
func (s PipelineState) String() string {
	return string(s)
}

// PromptRequest is a model-ready request rendered from the QA template.
type PromptRequest struct {
	// System carries the instructions and the retrieved context.
	System string

	// User is the user's question.
	User string

	// Tokens is an estimate of the prompt size, zero when unknown.
	Tokens int
}

// QueryContext is the state of one request as it moves through the pipeline.
// It is discarded after the response is produced.
type QueryContext struct {
	// Query is the user's question.
	Query string

	// VideoURL is the URL as supplied by the user.
	VideoURL string

	// Video is the normalised reference derived from VideoURL.
	Video VideoRef

	// State is the last state the pipeline entered.
	State PipelineState

	// CacheHit is true when the video was already indexed.
	CacheHit bool

	// Chunks are the retrieved chunks, most similar first.
	Chunks []Chunk

	// Context is the chunk texts joined for the prompt.
	Context string

	// Prompt is the assembled request sent to the model.
	Prompt PromptRequest

	// Answer is the generated text.
	Answer string
}

// Answer is the result returned to driving adapters.
type Answer struct {
	VideoID  VideoRef `json:"video_id"`
	Title    string   `json:"title,omitempty"`
	Query    string   `json:"query"`
	Text     string   `json:"answer"`
	CacheHit bool     `json:"cache_hit"`
	Chunks   int      `json:"chunks"`
	Model    string   `json:"model,omitempty"`
}
