package main

import (
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/vazovski37/argon-backend/config"
	"github.com/vazovski37/argon-backend/database"
	"github.com/vazovski37/argon-backend/router"

	"github.com/vazovski37/argon-backend/pkg/corpus"
	"github.com/vazovski37/argon-backend/pkg/embedder"
	"github.com/vazovski37/argon-backend/pkg/middleware"

	healthCtrlImp "github.com/vazovski37/argon-backend/pkg/health/controllerImp"
	ragCtrlImp "github.com/vazovski37/argon-backend/pkg/rag/controllerImp"
	ragRepoImp "github.com/vazovski37/argon-backend/pkg/rag/repositoryImp"
	ragServiceImp "github.com/vazovski37/argon-backend/pkg/rag/serviceImp"
)

func main() {
	// 1) Config
	cfg := config.Load()

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Echo
	e := echo.New()
	e.Use(echoMiddleware.Recover())

	// 4) Embedding backend. An unconfigured client reports unavailable on
	// every call, which is exactly the lexical-fallback path.
	emb := embedder.New(cfg.EmbEndpoint, cfg.EmbAPIKey, cfg.EmbModel, cfg.EmbDim)

	// 5) External retrieval corpus, consulted before the local store
	corpusClient := corpus.New(cfg.CorpusEndpoint, cfg.CorpusAPIKey, cfg.CorpusName)

	// 6) RAG wiring
	ragRepo := ragRepoImp.New(db)
	ragSvc := ragServiceImp.New(ragRepo, emb)
	ragCtrl := ragCtrlImp.New(ragSvc, corpusClient, cfg.AllowedDomains, cfg.MaxPageBytes)

	// 7) Health
	hCtrl := healthCtrlImp.NewHealthCtrl(db)

	// 8) Router
	r := router.New(e, ragCtrl, hCtrl, middleware.AdminToken(cfg.AdminToken))

	// 9) Start
	log.Printf("listening on :%s", cfg.Port)
	if err := r.Start(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
