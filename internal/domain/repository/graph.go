package repository

import (
	"context"
)

// DrugVector is a stored drug node projection used by the retriever scan.
type DrugVector struct {
	Name        string
	Embedding   []float32
	Description string
}

// DrugRow is one normalized row of the ingested dataset.
type DrugRow struct {
	Name        string
	Condition   string
	Effects     []string
	Description string
	Embedding   []float32
}

// GraphStore defines the graph database operations the use cases depend on.
type GraphStore interface {
	EnsureConstraints(ctx context.Context) error
	IngestRows(ctx context.Context, rows []DrugRow) error
	ListDrugEmbeddings(ctx context.Context) ([]DrugVector, error)
	SideEffectsOf(ctx context.Context, drugName string) ([]string, error)
	Close(ctx context.Context) error
}
