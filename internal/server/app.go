package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medigraph/medigraph-api/internal/config"
	"github.com/medigraph/medigraph-api/internal/database/bunstore"
	"github.com/medigraph/medigraph-api/internal/embedding"
	"github.com/medigraph/medigraph-api/internal/llm"
	neo4jpkg "github.com/medigraph/medigraph-api/internal/neo4j"
	qdrantpkg "github.com/medigraph/medigraph-api/internal/qdrant"
	"github.com/medigraph/medigraph-api/internal/usecase/ingest"
	"github.com/medigraph/medigraph-api/internal/usecase/query"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// App owns process-lifetime resources: the graph driver, the metadata DB and
// the HTTP listener.
type App struct {
	cfg        *config.Config
	httpServer *http.Server
}

// New creates the application around the loaded configuration.
func New(cfg *config.Config) *App {
	return &App{cfg: cfg}
}

// Run wires all dependencies, starts the HTTP server and blocks until a
// shutdown signal arrives. External resources are constructed once here and
// passed into the components that need them.
func (a *App) Run() error {
	ctx := context.Background()

	// ==========================================
	// Initialize Dependencies (Dependency Injection)
	// ==========================================

	neo4jClient, err := neo4jpkg.NewClient(ctx, a.cfg.Neo4jURI, a.cfg.Neo4jUser, a.cfg.Neo4jPassword)
	if err != nil {
		return err
	}
	defer func() { _ = neo4jClient.Close(ctx) }()

	geminiClient, err := llm.NewGeminiClient(ctx, a.cfg.GeminiAPIKey, a.cfg.GeminiModel)
	if err != nil {
		return err
	}
	defer func() { _ = geminiClient.Close() }()

	embedClient := llm.NewOllamaEmbedder(a.cfg.OllamaHost, a.cfg.EmbedModel)
	embedBatcher := embedding.NewBatcher(embedClient, a.cfg.IngestBatchSize)
	log.Printf("[System] Embedding via %s (batch size %d)", embedClient.Name(), a.cfg.IngestBatchSize)

	dbConn, err := sql.Open(sqliteshim.ShimName, a.cfg.SQLitePath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := dbConn.Close(); closeErr != nil {
			log.Printf("[Warning] Failed to close database: %v", closeErr)
		}
	}()

	feedbackStore, err := bunstore.NewBunStore(dbConn, sqlitedialect.New())
	if err != nil {
		return err
	}

	// Optional ANN index in front of the full-scan retriever
	var retriever query.Retriever
	var pipeline *ingest.Pipeline
	if a.cfg.QdrantEnabled {
		qdrantClient, err := qdrantpkg.NewClient(a.cfg.QdrantHost, a.cfg.QdrantPort, a.cfg.QdrantCollection)
		if err != nil {
			return err
		}
		defer func() { _ = qdrantClient.Close() }()

		retriever = query.NewIndexRetriever(qdrantClient)
		pipeline = ingest.NewPipeline(neo4jClient, embedBatcher, qdrantClient)
		log.Printf("[System] Retrieval backed by Qdrant collection %q", a.cfg.QdrantCollection)
	} else {
		retriever = query.NewScanRetriever(neo4jClient)
		pipeline = ingest.NewPipeline(neo4jClient, embedBatcher, nil)
		log.Printf("[System] Retrieval via full graph scan")
	}

	answerer := query.NewAnswerer(embedBatcher, retriever, neo4jClient, geminiClient)

	// ==========================================
	// Initialize and Start HTTP Server
	// ==========================================

	apiServer := NewServer(answerer, pipeline, feedbackStore, a.cfg.UploadDir)
	a.httpServer = &http.Server{
		Addr:    a.cfg.ListenAddr,
		Handler: apiServer.RegisterRoutes(),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		log.Printf("[System] 🌐 Starting REST API Server on %s", a.cfg.ListenAddr)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Error] HTTP server failed: %v", err)
		}
	}()

	<-stop
	log.Println("[System] 🛑 Shutdown signal received. Draining connections...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("[Error] HTTP shutdown error: %v", err)
	}

	log.Println("[System] ✅ Server stopped gracefully.")
	return nil
}
