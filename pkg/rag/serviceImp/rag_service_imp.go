package serviceImp

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/vazovski37/argon-backend/entities"
	"github.com/vazovski37/argon-backend/pkg/embedder"
	"github.com/vazovski37/argon-backend/pkg/rag/repository"
	"github.com/vazovski37/argon-backend/pkg/rag/types"
	"github.com/vazovski37/argon-backend/pkg/splitter"
)

const (
	DefaultChunkSize = 500
	DefaultOverlap   = 50
	DefaultTopK      = 5
	DefaultThreshold = 0.5
)

type Svc struct {
	r   repository.ChunkRepository
	emb embedder.Embedder
}

func New(r repository.ChunkRepository, e embedder.Embedder) *Svc { return &Svc{r: r, emb: e} }

// Ingest splits content and stores one chunk per segment. A chunk whose
// embedding call fails is stored without a vector instead of aborting the
// batch; it stays reachable through lexical fallback.
func (s *Svc) Ingest(content, category, source string, metadata map[string]any, chunkSize, overlap int) (int, error) {
	if strings.TrimSpace(content) == "" {
		return 0, errors.New("content is required")
	}
	if strings.TrimSpace(category) == "" {
		return 0, errors.New("category is required")
	}
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	pieces, err := splitter.Split(content, chunkSize, overlap)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, piece := range pieces {
		var embBytes []byte
		vec, err := s.emb.Embed(piece)
		if err != nil {
			log.Printf("[rag] embedding failed, storing chunk without vector: %v", err)
		} else {
			embBytes = embedder.FloatsToBytes(vec)
		}
		ch := entities.KnowledgeChunk{
			Content:    piece,
			Category:   category,
			SourceFile: source,
			Metadata:   metadata,
			Embedding:  embBytes,
		}
		if err := s.r.Insert(&ch); err != nil {
			return count, fmt.Errorf("insert chunk: %w", err)
		}
		count++
	}
	return count, nil
}

// Retrieve embeds the query and ranks stored chunks by similarity. When the
// embedding backend is down it answers from lexical substring search; the
// caller never sees the embedding failure, only lower-quality results.
func (s *Svc) Retrieve(query string, k int, category string, threshold float64) ([]types.RetrievalResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, errors.New("query is required")
	}
	if k <= 0 {
		k = DefaultTopK
	}
	vec, err := s.emb.Embed(q)
	if err != nil {
		log.Printf("[rag] query embedding failed, using text search: %v", err)
		return s.r.SearchText(q, k, category)
	}
	return s.r.Nearest(vec, k, category, threshold)
}

// BuildContext formats retrieved chunks into the prompt-context block.
// The exact layout is consumed downstream; keep it stable.
func (s *Svc) BuildContext(query string, maxChunks int, userVisited []string) (string, error) {
	if maxChunks <= 0 {
		maxChunks = DefaultTopK
	}
	results, err := s.Retrieve(query, maxChunks, "", DefaultThreshold)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	parts := []string{"## Relevant Information\n"}
	for _, res := range results {
		category := "INFO"
		if res.Category != "" {
			category = strings.ToUpper(res.Category)
		}
		parts = append(parts, fmt.Sprintf("[%s]: %s\n", category, res.Content))
	}
	if len(userVisited) > 0 {
		parts = append(parts, fmt.Sprintf("\n## User has visited: %s", strings.Join(userVisited, ", ")))
	}
	return strings.Join(parts, "\n"), nil
}

func (s *Svc) DeleteChunk(id string) (bool, error) { return s.r.DeleteByID(id) }

func (s *Svc) DeleteByCategory(category string) (int64, error) {
	return s.r.DeleteByCategory(category)
}

func (s *Svc) DeleteBySource(source string) (int64, error) { return s.r.DeleteBySource(source) }

func (s *Svc) ListChunks(page, perPage int, category string) ([]entities.KnowledgeChunk, int64, error) {
	return s.r.List(page, perPage, category)
}

func (s *Svc) Stats() (*types.Stats, error) {
	total, err := s.r.CountAll()
	if err != nil {
		return nil, err
	}
	withEmb, err := s.r.CountWithEmbedding()
	if err != nil {
		return nil, err
	}
	byCat, err := s.r.CountByCategory()
	if err != nil {
		return nil, err
	}
	return &types.Stats{TotalChunks: total, WithEmbeddings: withEmb, Categories: byCat}, nil
}
