package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/medigraph/medigraph-api/internal/domain/repository"
)

// ErrEmptyDataset is returned when the dataset yields zero rows; nothing is
// written in that case.
var ErrEmptyDataset = errors.New("no rows found in data file")

// Pipeline ingests a tabular drug dataset into the graph store: one batched
// embedding call then one transactional write phase. The vector index is
// optional; when present it mirrors drug vectors after the graph commit.
type Pipeline struct {
	graph    repository.GraphStore
	embedder repository.EmbeddingClient
	vector   repository.VectorIndex
}

// NewPipeline wires the ingestion pipeline. vector may be nil.
func NewPipeline(graph repository.GraphStore, embedder repository.EmbeddingClient, vector repository.VectorIndex) *Pipeline {
	return &Pipeline{
		graph:    graph,
		embedder: embedder,
		vector:   vector,
	}
}

// IngestFile reads the dataset at path and writes drug, condition and
// side-effect nodes plus their relationships. All row writes commit as one
// unit; a mid-batch failure aborts the whole ingestion. Returns the number of
// rows processed.
func (p *Pipeline) IngestFile(ctx context.Context, path string) (int, error) {
	rows, err := LoadRows(path)
	if err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, ErrEmptyDataset
	}

	texts := make([]string, len(rows))
	for i, row := range rows {
		texts[i] = row.Description()
	}

	embeddings, err := p.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embedding generation failed: %w", err)
	}
	if len(embeddings) != len(rows) {
		return 0, fmt.Errorf("embedding count mismatch: %d rows, %d vectors", len(rows), len(embeddings))
	}

	// Constraints may already exist; a failure here is a warning, not an abort.
	if err := p.graph.EnsureConstraints(ctx); err != nil {
		log.Printf("[Ingest] Warning: error creating constraints (may be fine if already set): %v", err)
	}

	drugRows := make([]repository.DrugRow, len(rows))
	for i, row := range rows {
		drugRows[i] = repository.DrugRow{
			Name:        row.Name,
			Condition:   row.Condition,
			Effects:     SplitEffects(row.Effects),
			Description: texts[i],
			Embedding:   embeddings[i],
		}
	}

	if err := p.graph.IngestRows(ctx, drugRows); err != nil {
		return 0, err
	}

	if p.vector != nil {
		if err := p.vector.UpsertDrugs(ctx, drugRows); err != nil {
			return 0, fmt.Errorf("graph committed but vector index mirror failed: %w", err)
		}
	}

	log.Printf("[Ingest] Ingested %d rows into the graph", len(rows))
	return len(rows), nil
}
