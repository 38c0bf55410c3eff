package domain

import "unicode/utf8"

// Metadata keys attached to transcripts and inherited by their chunks.
const (
	// MetaVideoID holds the VideoRef as a string.
	MetaVideoID = "video_id"

	// MetaLength holds the transcript length in characters.
	MetaLength = "length"
)

// Transcript is the caption text of one video.
// It is created once per ingestion and never modified afterwards.
type Transcript struct {
	// VideoID is the video the captions belong to.
	VideoID VideoRef

	// Content is every caption fragment, space-joined in time order.
	Content string

	// Language is the language code of the caption track used.
	Language string

	// Translated is true when Content was produced by the translation step.
	Translated bool

	// Metadata holds the video id and character length.
	Metadata map[string]any
}

// NewTranscript builds a transcript with its standard metadata.
func NewTranscript(videoID VideoRef, content, language string) *Transcript {
	return &Transcript{
		VideoID:  videoID,
		Content:  content,
		Language: language,
		Metadata: map[string]any{
			MetaVideoID: videoID.String(),
			MetaLength:  utf8.RuneCountInString(content),
		},
	}
}

// Length returns the transcript length in characters.
func (t *Transcript) Length() int {
	return utf8.RuneCountInString(t.Content)
}

// SetContent replaces the transcript text and keeps MetaLength in step.
func (t *Transcript) SetContent(content string) {
	t.Content = content
	if t.Metadata == nil {
		t.Metadata = make(map[string]any)
	}
	t.Metadata[MetaLength] = t.Length()
}

// Chunk represents a retrievable unit within a transcript.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// VideoID links to the parent transcript's video.
	VideoID VideoRef

	// Content is the text content of this chunk.
	Content string

	// Position is the ordinal position within the transcript.
	Position int

	// Metadata is inherited from the parent transcript.
	Metadata map[string]any
}

// IndexedEntry is a chunk together with its embedding vector.
type IndexedEntry struct {
	Chunk     Chunk
	Embedding []float32
}

// EntryVideos returns the distinct videos of entries in first-seen order.
func EntryVideos(entries []IndexedEntry) []VideoRef {
	seen := make(map[VideoRef]bool)
	var videos []VideoRef
	for _, e := range entries {
		if !seen[e.Chunk.VideoID] {
			seen[e.Chunk.VideoID] = true
			videos = append(videos, e.Chunk.VideoID)
		}
	}
	return videos
}

// Filter restricts queries to entries with matching metadata.
// A zero Filter matches everything.
type Filter struct {
	// VideoID restricts results to a single video when set.
	VideoID VideoRef
}

// Matches reports whether the chunk satisfies the filter.
func (f Filter) Matches(c Chunk) bool {
	if f.VideoID != "" && c.VideoID != f.VideoID {
		return false
	}
	return true
}

// ForVideo returns a filter on a single video.
func ForVideo(id VideoRef) Filter {
	return Filter{VideoID: id}
}
