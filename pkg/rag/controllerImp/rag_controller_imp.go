package controllerImp

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/vazovski37/argon-backend/pkg/corpus"
	"github.com/vazovski37/argon-backend/pkg/rag/service"
)

type RAGCtrl struct {
	s        service.RAGService
	corpus   corpus.Client
	allow    map[string]bool
	maxBytes int
}

func New(s service.RAGService, corpusClient corpus.Client, allowedDomains string, maxBytes int) *RAGCtrl {
	allow := map[string]bool{}
	for _, h := range strings.Split(allowedDomains, ",") {
		h = strings.TrimSpace(h)
		if h != "" {
			allow[strings.ToLower(h)] = true
		}
	}
	if maxBytes <= 0 {
		maxBytes = 1500000
	}
	return &RAGCtrl{s: s, corpus: corpusClient, allow: allow, maxBytes: maxBytes}
}

type ingestReq struct {
	Content      string         `json:"content"`
	Category     string         `json:"category"`
	Source       string         `json:"source"`
	Metadata     map[string]any `json:"metadata"`
	ChunkSize    int            `json:"chunk_size"`
	ChunkOverlap *int           `json:"chunk_overlap"`
}

func (h *RAGCtrl) IngestText(c echo.Context) error {
	var req ingestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "invalid json: " + err.Error()})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "content is required"})
	}
	if strings.TrimSpace(req.Category) == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "category is required"})
	}
	size := req.ChunkSize
	if size == 0 {
		size = 500
	}
	overlap := 50
	if req.ChunkOverlap != nil {
		overlap = *req.ChunkOverlap
	}
	if size <= 0 || overlap < 0 || overlap >= size {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "chunk_overlap must be non-negative and smaller than chunk_size"})
	}

	count, err := h.s.Ingest(req.Content, strings.TrimSpace(req.Category), strings.TrimSpace(req.Source), req.Metadata, size, overlap)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"chunks_created": count,
		"category":       strings.TrimSpace(req.Category),
		"source":         strings.TrimSpace(req.Source),
	})
}

type searchReq struct {
	Query     string   `json:"query"`
	K         int      `json:"k"`
	Category  string   `json:"category"`
	Threshold *float64 `json:"threshold"`
}

func (h *RAGCtrl) Search(c echo.Context) error {
	var req searchReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "invalid json: " + err.Error()})
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "query is required"})
	}
	k := req.K
	if k <= 0 {
		k = 5
	}
	threshold := 0.5
	if req.Threshold != nil {
		threshold = *req.Threshold
	}

	results, err := h.s.Retrieve(q, k, req.Category, threshold)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query":   q,
		"results": results,
		"total":   len(results),
	})
}

type contextReq struct {
	Query       string   `json:"query"`
	MaxChunks   int      `json:"max_chunks"`
	UserVisited []string `json:"user_visited"`
}

// Context answers from the external corpus when it can, and silently falls
// back to the local pipeline when it cannot. The source field tells the
// caller which tier answered.
func (h *RAGCtrl) Context(c echo.Context) error {
	var req contextReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "invalid json: " + err.Error()})
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "query is required"})
	}
	maxChunks := req.MaxChunks
	if maxChunks <= 0 {
		maxChunks = 5
	}

	if h.corpus != nil {
		ctx, err := h.corpus.BuildContext(q, maxChunks, req.UserVisited)
		if err == nil {
			return c.JSON(http.StatusOK, map[string]any{
				"context":      ctx,
				"user_visited": req.UserVisited,
				"source":       "primary",
			})
		}
		log.Printf("[rag] corpus retrieval failed, falling back to local: %v", err)
	}

	ctx, err := h.s.BuildContext(q, maxChunks, req.UserVisited)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"context":      ctx,
		"user_visited": req.UserVisited,
		"source":       "fallback",
	})
}

type corpusQueryReq struct {
	Query     string   `json:"query"`
	K         int      `json:"k"`
	Threshold *float64 `json:"threshold"`
}

// CorpusQuery asks the external corpus directly, with no local fallback, so
// operators can probe the primary tier on its own.
func (h *RAGCtrl) CorpusQuery(c echo.Context) error {
	var req corpusQueryReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "invalid json: " + err.Error()})
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": "query is required"})
	}
	k := req.K
	if k <= 0 {
		k = 5
	}
	threshold := 0.5
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if h.corpus == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"error": corpus.ErrNotConfigured.Error()})
	}

	results, err := h.corpus.Retrieve(q, k, threshold)
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"query":   q,
		"results": results,
		"total":   len(results),
	})
}

func (h *RAGCtrl) CorpusFiles(c echo.Context) error {
	if h.corpus == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"error": corpus.ErrNotConfigured.Error()})
	}
	files, err := h.corpus.ListFiles()
	if err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"files": files,
		"total": len(files),
	})
}

func (h *RAGCtrl) CorpusInfo(c echo.Context) error {
	if h.corpus == nil {
		return c.JSON(http.StatusOK, map[string]any{"configured": false})
	}
	return c.JSON(http.StatusOK, h.corpus.Info())
}

func (h *RAGCtrl) Stats(c echo.Context) error {
	stats, err := h.s.Stats()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *RAGCtrl) ListChunks(c echo.Context) error {
	page := intParam(c, "page", 1)
	perPage := intParam(c, "per_page", 20)
	category := c.QueryParam("category")

	chunks, total, err := h.s.ListChunks(page, perPage, category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	pages := total / int64(perPage)
	if total%int64(perPage) != 0 {
		pages++
	}
	return c.JSON(http.StatusOK, map[string]any{
		"chunks":   chunks,
		"page":     page,
		"per_page": perPage,
		"total":    total,
		"pages":    pages,
	})
}

func (h *RAGCtrl) DeleteChunk(c echo.Context) error {
	ok, err := h.s.DeleteChunk(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]any{"error": "chunk not found"})
	}
	return c.JSON(http.StatusOK, map[string]any{"message": "Chunk deleted"})
}

func (h *RAGCtrl) ClearCategory(c echo.Context) error {
	category := c.Param("category")
	count, err := h.s.DeleteByCategory(category)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "category cleared",
		"deleted": count,
	})
}

func (h *RAGCtrl) ClearSource(c echo.Context) error {
	source := c.Param("source")
	count, err := h.s.DeleteBySource(source)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]any{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"message": "source cleared",
		"deleted": count,
	})
}

func intParam(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
