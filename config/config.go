package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port       string
	DBPath     string
	AdminToken string

	// Embedding backend (OpenAI-compatible /v1/embeddings)
	EmbEndpoint string
	EmbAPIKey   string
	EmbModel    string
	EmbDim      int

	// Externally hosted retrieval corpus, consulted before the local store
	CorpusEndpoint string
	CorpusAPIKey   string
	CorpusName     string

	// URL ingestion limits
	AllowedDomains string
	MaxPageBytes   int
}

func Load() AppConfig {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("[cfg] No .env file found or error loading: %v", err)
	}

	get := func(k, def string) string {
		if v := os.Getenv(k); v != "" {
			return v
		}
		return def
	}
	getInt := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	cfg := AppConfig{
		Port:           get("PORT", "8080"),
		DBPath:         get("DB_PATH", "argon.db"),
		AdminToken:     get("ADMIN_TOKEN", ""),
		EmbEndpoint:    get("EMB_ENDPOINT", ""),
		EmbAPIKey:      get("EMB_API_KEY", ""),
		EmbModel:       get("EMB_MODEL", "text-embedding-004"),
		EmbDim:         getInt("EMB_DIM", 768),
		CorpusEndpoint: get("CORPUS_ENDPOINT", ""),
		CorpusAPIKey:   get("CORPUS_API_KEY", ""),
		CorpusName:     get("CORPUS_NAME", ""),
		AllowedDomains: get("KB_ALLOWED_DOMAINS", ""),
		MaxPageBytes:   getInt("KB_MAX_BYTES_PER_PAGE", 1500000),
	}
	log.Printf("[cfg] port=%s db=%s emb_model=%s emb_dim=%d corpus=%q",
		cfg.Port, cfg.DBPath, cfg.EmbModel, cfg.EmbDim, cfg.CorpusName)
	return cfg
}
