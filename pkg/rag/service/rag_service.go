package service

import (
	"github.com/vazovski37/argon-backend/entities"
	"github.com/vazovski37/argon-backend/pkg/rag/types"
)

// RAGService is the local retrieval pipeline: splitting + embedding +
// storage on ingest, vector ranking with lexical fallback on retrieve.
type RAGService interface {
	Ingest(content, category, source string, metadata map[string]any, chunkSize, overlap int) (int, error)
	Retrieve(query string, k int, category string, threshold float64) ([]types.RetrievalResult, error)
	BuildContext(query string, maxChunks int, userVisited []string) (string, error)

	DeleteChunk(id string) (bool, error)
	DeleteByCategory(category string) (int64, error)
	DeleteBySource(source string) (int64, error)
	ListChunks(page, perPage int, category string) ([]entities.KnowledgeChunk, int64, error)
	Stats() (*types.Stats, error)
}
