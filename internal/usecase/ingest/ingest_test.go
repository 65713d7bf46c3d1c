package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/medigraph/medigraph-api/internal/domain/repository"
)

type mockGraph struct {
	constraintsErr error
	ingestErr      error

	constraintCalls int
	ingested        [][]repository.DrugRow
}

func (m *mockGraph) EnsureConstraints(ctx context.Context) error {
	m.constraintCalls++
	return m.constraintsErr
}

func (m *mockGraph) IngestRows(ctx context.Context, rows []repository.DrugRow) error {
	if m.ingestErr != nil {
		return m.ingestErr
	}
	m.ingested = append(m.ingested, rows)
	return nil
}

func (m *mockGraph) ListDrugEmbeddings(ctx context.Context) ([]repository.DrugVector, error) {
	return nil, nil
}

func (m *mockGraph) SideEffectsOf(ctx context.Context, drugName string) ([]string, error) {
	return nil, nil
}

func (m *mockGraph) Close(ctx context.Context) error { return nil }

type mockEmbedder struct {
	err   error
	calls [][]string
}

func (m *mockEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, texts)
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (m *mockEmbedder) Name() string { return "mock_embedding" }

type mockVector struct {
	err      error
	upserted [][]repository.DrugRow
}

func (m *mockVector) UpsertDrugs(_ context.Context, rows []repository.DrugRow) error {
	if m.err != nil {
		return m.err
	}
	m.upserted = append(m.upserted, rows)
	return nil
}

func (m *mockVector) Search(_ context.Context, _ []float32, _ int) ([]repository.VectorHit, error) {
	return nil, nil
}

func (m *mockVector) Close() error { return nil }

func TestIngestFile_SingleRow(t *testing.T) {
	path := writeTempFile(t, "drugs.csv",
		"Medicine Name,Uses,Side_effects\n"+
			"Aspirin,headache,\"nausea, dizziness\"\n")

	graph := &mockGraph{}
	embedder := &mockEmbedder{}
	pipeline := NewPipeline(graph, embedder, nil)

	count, err := pipeline.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected row count 1, got %d", count)
	}

	if len(graph.ingested) != 1 || len(graph.ingested[0]) != 1 {
		t.Fatalf("expected one transactional write of one row, got %v", graph.ingested)
	}

	row := graph.ingested[0][0]
	if row.Name != "Aspirin" {
		t.Errorf("expected drug Aspirin, got %q", row.Name)
	}
	if row.Condition != "headache" {
		t.Errorf("expected condition headache, got %q", row.Condition)
	}
	if len(row.Effects) != 2 || row.Effects[0] != "nausea" || row.Effects[1] != "dizziness" {
		t.Errorf("expected two side effects, got %v", row.Effects)
	}
	if row.Description != "Aspirin | headache | nausea, dizziness" {
		t.Errorf("unexpected description: %q", row.Description)
	}
	if len(row.Embedding) != 3 {
		t.Errorf("expected embedding attached to the row, got %v", row.Embedding)
	}
}

func TestIngestFile_EmptyDatasetWritesNothing(t *testing.T) {
	path := writeTempFile(t, "empty.csv", "Medicine Name,Uses,Side_effects\n")

	graph := &mockGraph{}
	pipeline := NewPipeline(graph, &mockEmbedder{}, nil)

	_, err := pipeline.IngestFile(context.Background(), path)
	if !errors.Is(err, ErrEmptyDataset) {
		t.Fatalf("expected ErrEmptyDataset, got %v", err)
	}
	if len(graph.ingested) != 0 {
		t.Error("expected no graph writes for an empty dataset")
	}
	if graph.constraintCalls != 0 {
		t.Error("expected no constraint attempt before validation")
	}
}

func TestIngestFile_ConstraintFailureIsWarnOnly(t *testing.T) {
	path := writeTempFile(t, "drugs.csv",
		"Medicine Name,Uses,Side_effects\nAspirin,headache,nausea\n")

	graph := &mockGraph{constraintsErr: errors.New("already exists")}
	pipeline := NewPipeline(graph, &mockEmbedder{}, nil)

	count, err := pipeline.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("constraint failure must not abort ingestion, got %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 row, got %d", count)
	}
}

func TestIngestFile_EmbeddingFailureAbortsBeforeWrite(t *testing.T) {
	path := writeTempFile(t, "drugs.csv",
		"Medicine Name,Uses,Side_effects\nAspirin,headache,nausea\n")

	graph := &mockGraph{}
	pipeline := NewPipeline(graph, &mockEmbedder{err: errors.New("model unavailable")}, nil)

	_, err := pipeline.IngestFile(context.Background(), path)
	if err == nil {
		t.Fatal("expected error")
	}
	if len(graph.ingested) != 0 {
		t.Error("expected no graph writes after embedding failure")
	}
}

func TestIngestFile_GraphFailurePropagates(t *testing.T) {
	path := writeTempFile(t, "drugs.csv",
		"Medicine Name,Uses,Side_effects\nAspirin,headache,nausea\n")

	graph := &mockGraph{ingestErr: errors.New("bolt connection reset")}
	pipeline := NewPipeline(graph, &mockEmbedder{}, nil)

	if _, err := pipeline.IngestFile(context.Background(), path); err == nil {
		t.Fatal("expected error from graph write")
	}
}

func TestIngestFile_MirrorsVectorIndex(t *testing.T) {
	path := writeTempFile(t, "drugs.csv",
		"Medicine Name,Uses,Side_effects\nAspirin,headache,nausea\n")

	vector := &mockVector{}
	pipeline := NewPipeline(&mockGraph{}, &mockEmbedder{}, vector)

	if _, err := pipeline.IngestFile(context.Background(), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vector.upserted) != 1 {
		t.Fatalf("expected one vector upsert, got %d", len(vector.upserted))
	}
}

func TestIngestFile_VectorMirrorFailure(t *testing.T) {
	path := writeTempFile(t, "drugs.csv",
		"Medicine Name,Uses,Side_effects\nAspirin,headache,nausea\n")

	pipeline := NewPipeline(&mockGraph{}, &mockEmbedder{}, &mockVector{err: errors.New("unreachable")})

	if _, err := pipeline.IngestFile(context.Background(), path); err == nil {
		t.Fatal("expected error when the index mirror fails")
	}
}
