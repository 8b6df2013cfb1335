package repositoryImp

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vazovski37/argon-backend/entities"
	"github.com/vazovski37/argon-backend/pkg/embedder"
	"github.com/vazovski37/argon-backend/pkg/rag/repository"
	"github.com/vazovski37/argon-backend/pkg/rag/types"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.ChunkRepository { return &repo{db} }

func (r *repo) Insert(ch *entities.KnowledgeChunk) error {
	if ch.ID == "" {
		ch.ID = uuid.NewString()
	}
	return r.db.Create(ch).Error
}

func (r *repo) DeleteByID(id string) (bool, error) {
	res := r.db.Delete(&entities.KnowledgeChunk{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func (r *repo) DeleteByCategory(category string) (int64, error) {
	res := r.db.Where("category = ?", category).Delete(&entities.KnowledgeChunk{})
	return res.RowsAffected, res.Error
}

func (r *repo) DeleteBySource(source string) (int64, error) {
	res := r.db.Where("source_file = ?", source).Delete(&entities.KnowledgeChunk{})
	return res.RowsAffected, res.Error
}

// Nearest ranks embedded chunks by cosine similarity against queryVec.
// Chunks whose stored vector has a different dimension are skipped rather
// than scored wrong. Equal scores order by created_at ascending so results
// are deterministic.
func (r *repo) Nearest(queryVec []float32, k int, category string, threshold float64) ([]types.RetrievalResult, error) {
	if k <= 0 || len(queryVec) == 0 {
		return nil, nil
	}
	q := r.db.Where("embedding IS NOT NULL AND length(embedding) > 0")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var rows []entities.KnowledgeChunk
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	type scored struct {
		ch entities.KnowledgeChunk
		sc float64
	}
	hits := make([]scored, 0, len(rows))
	for _, ch := range rows {
		vec := embedder.BytesToFloats(ch.Embedding)
		if len(vec) != len(queryVec) {
			continue
		}
		sc := cosine(queryVec, vec)
		if sc >= threshold {
			hits = append(hits, scored{ch: ch, sc: sc})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].sc != hits[j].sc {
			return hits[i].sc > hits[j].sc
		}
		return hits[i].ch.CreatedAt.Before(hits[j].ch.CreatedAt)
	})
	if k > len(hits) {
		k = len(hits)
	}
	out := make([]types.RetrievalResult, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, toResult(hits[i].ch, hits[i].sc))
	}
	return out, nil
}

// SearchText is the lexical fallback: case-insensitive substring match on
// content, insertion order, fixed fallback score.
func (r *repo) SearchText(query string, k int, category string) ([]types.RetrievalResult, error) {
	if k <= 0 {
		return nil, nil
	}
	q := r.db.Where("lower(content) LIKE ?", "%"+strings.ToLower(query)+"%")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var rows []entities.KnowledgeChunk
	if err := q.Order("created_at ASC").Limit(k).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]types.RetrievalResult, 0, len(rows))
	for _, ch := range rows {
		out = append(out, toResult(ch, types.FallbackScore))
	}
	return out, nil
}

func (r *repo) List(page, perPage int, category string) ([]entities.KnowledgeChunk, int64, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	base := func() *gorm.DB {
		q := r.db.Model(&entities.KnowledgeChunk{})
		if category != "" {
			q = q.Where("category = ?", category)
		}
		return q
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []entities.KnowledgeChunk
	err := base().Order("created_at DESC").Offset((page - 1) * perPage).Limit(perPage).Find(&rows).Error
	return rows, total, err
}

func (r *repo) CountAll() (int64, error) {
	var n int64
	err := r.db.Model(&entities.KnowledgeChunk{}).Count(&n).Error
	return n, err
}

func (r *repo) CountWithEmbedding() (int64, error) {
	var n int64
	err := r.db.Model(&entities.KnowledgeChunk{}).
		Where("embedding IS NOT NULL AND length(embedding) > 0").Count(&n).Error
	return n, err
}

func (r *repo) CountByCategory() (map[string]int64, error) {
	var rows []struct {
		Category string
		N        int64
	}
	err := r.db.Model(&entities.KnowledgeChunk{}).
		Select("category, count(*) as n").Group("category").Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.Category] = row.N
	}
	return m, nil
}

func toResult(ch entities.KnowledgeChunk, score float64) types.RetrievalResult {
	return types.RetrievalResult{
		ID:         ch.ID,
		Content:    ch.Content,
		Category:   ch.Category,
		SourceFile: ch.SourceFile,
		Metadata:   ch.Metadata,
		Similarity: score,
	}
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
