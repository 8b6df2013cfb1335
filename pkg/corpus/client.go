// pkg/corpus/client.go

package corpus

import (
	"github.com/vazovski37/argon-backend/pkg/rag/types"
)

// File describes one document attached to the remote corpus.
type File struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Client talks to an externally managed retrieval corpus. It is consulted
// before the local pipeline; any error here means "fall back", never a
// user-facing failure.
type Client interface {
	Retrieve(query string, topK int, threshold float64) ([]types.RetrievalResult, error)
	BuildContext(query string, maxChunks int, userVisited []string) (string, error)
	ListFiles() ([]File, error)
	Info() map[string]any
}
