package types

// FallbackScore is reported for lexical matches, which carry no real
// similarity measure. Documented placeholder, not a tuned value.
const FallbackScore = 0.5

// RetrievalResult is a ranked chunk projection returned to callers.
// It never carries the raw embedding.
type RetrievalResult struct {
	ID         string         `json:"id,omitempty"`
	Content    string         `json:"content"`
	Category   string         `json:"category,omitempty"`
	SourceFile string         `json:"source_file,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Similarity float64        `json:"similarity"`
}

type Stats struct {
	TotalChunks    int64            `json:"total_chunks"`
	WithEmbeddings int64            `json:"with_embeddings"`
	Categories     map[string]int64 `json:"categories"`
}
