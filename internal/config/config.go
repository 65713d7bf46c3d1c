package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all environmentally dependent settings for the MediGraph API.
type Config struct {
	ListenAddr string

	// Neo4j Graph DB
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string

	// Gemini / LLM
	GeminiAPIKey string
	GeminiModel  string

	// Embeddings (local Ollama backend)
	OllamaHost string
	EmbedModel string

	// Local metadata DB
	SQLitePath string

	// Ingestion & tuning
	IngestBatchSize int
	UploadDir       string

	// Optional Qdrant vector index
	QdrantEnabled    bool
	QdrantHost       string
	QdrantPort       int
	QdrantCollection string
}

// Validate ensures that all required configuration is present and valid.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("MEDIGRAPH_GEMINI_API_KEY is required")
	}
	if c.IngestBatchSize <= 0 {
		return fmt.Errorf("MEDIGRAPH_INGEST_BATCH_SIZE must be positive, got %d", c.IngestBatchSize)
	}
	return nil
}

// Load reads settings from environment variables with sensible defaults.
func Load() *Config {
	cfg := &Config{
		ListenAddr: getEnv("MEDIGRAPH_LISTEN_ADDR", ":8000"),

		Neo4jURI:      getEnv("MEDIGRAPH_NEO4J_URI", "neo4j://localhost:7687"),
		Neo4jUser:     getEnv("MEDIGRAPH_NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("MEDIGRAPH_NEO4J_PASSWORD", "neo4j"),

		GeminiAPIKey: getEnv("MEDIGRAPH_GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("MEDIGRAPH_GEMINI_MODEL", "gemini-1.5-flash"),

		OllamaHost: getEnv("MEDIGRAPH_OLLAMA_HOST", "http://localhost:11434"),
		EmbedModel: getEnv("MEDIGRAPH_EMBED_MODEL", "all-minilm"),

		SQLitePath: getEnv("MEDIGRAPH_SQLITE_PATH", "metadata.db"),

		IngestBatchSize: getEnvInt("MEDIGRAPH_INGEST_BATCH_SIZE", 500),
		UploadDir:       getEnv("MEDIGRAPH_UPLOAD_DIR", filepath.Join(os.TempDir(), "medigraph_uploads")),

		QdrantEnabled:    getEnvBool("MEDIGRAPH_QDRANT_ENABLED", false),
		QdrantHost:       getEnv("MEDIGRAPH_QDRANT_HOST", "localhost"),
		QdrantPort:       getEnvInt("MEDIGRAPH_QDRANT_PORT", 6334),
		QdrantCollection: getEnv("MEDIGRAPH_QDRANT_COLLECTION", "drugs"),
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("[Config] Validation failed: %v", err)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("[Config] Warning: Invalid int for %s: %v. Using fallback %d", key, err, fallback)
		return fallback
	}
	return value
}
