package repository

import (
	"github.com/vazovski37/argon-backend/entities"
	"github.com/vazovski37/argon-backend/pkg/rag/types"
)

// ChunkRepository owns chunk rows and both query paths: vector similarity
// over embedded chunks and lexical substring search over everything.
// category == "" means no category filter.
type ChunkRepository interface {
	Insert(ch *entities.KnowledgeChunk) error
	DeleteByID(id string) (bool, error)
	DeleteByCategory(category string) (int64, error)
	DeleteBySource(source string) (int64, error)

	Nearest(queryVec []float32, k int, category string, threshold float64) ([]types.RetrievalResult, error)
	SearchText(query string, k int, category string) ([]types.RetrievalResult, error)

	List(page, perPage int, category string) ([]entities.KnowledgeChunk, int64, error)
	CountAll() (int64, error)
	CountWithEmbedding() (int64, error)
	CountByCategory() (map[string]int64, error)
}
