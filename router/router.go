package router

import (
	"github.com/labstack/echo/v4"
)

type RAGController interface {
	IngestText(echo.Context) error
	IngestFile(echo.Context) error
	IngestURL(echo.Context) error
	ImportXLSX(echo.Context) error
	Search(echo.Context) error
	Context(echo.Context) error
	CorpusQuery(echo.Context) error
	CorpusFiles(echo.Context) error
	CorpusInfo(echo.Context) error
	Stats(echo.Context) error
	ListChunks(echo.Context) error
	DeleteChunk(echo.Context) error
	ClearCategory(echo.Context) error
	ClearSource(echo.Context) error
}

func New(
	e *echo.Echo,
	ragCtrl RAGController,
	healthCtrl interface{ Health(echo.Context) error },
	admin echo.MiddlewareFunc,
) *echo.Echo {
	e.GET("/health", healthCtrl.Health)

	rag := e.Group("/rag")
	rag.POST("/search", ragCtrl.Search)
	rag.POST("/context", ragCtrl.Context)
	rag.GET("/corpus/info", ragCtrl.CorpusInfo)
	rag.GET("/stats", ragCtrl.Stats)
	rag.GET("/chunks", ragCtrl.ListChunks)

	// admin: direct corpus probes, ingestion, deletion
	rag.POST("/corpus/query", ragCtrl.CorpusQuery, admin)
	rag.GET("/corpus/files", ragCtrl.CorpusFiles, admin)
	rag.POST("/ingest", ragCtrl.IngestText, admin)
	rag.POST("/ingest/file", ragCtrl.IngestFile, admin)
	rag.POST("/ingest/url", ragCtrl.IngestURL, admin)
	rag.POST("/import/xlsx", ragCtrl.ImportXLSX, admin)
	rag.DELETE("/chunks/:id", ragCtrl.DeleteChunk, admin)
	rag.DELETE("/clear/:category", ragCtrl.ClearCategory, admin)
	rag.DELETE("/source/:source", ragCtrl.ClearSource, admin)

	return e
}
