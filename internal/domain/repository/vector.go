package repository

import (
	"context"
)

// VectorHit is a scored result from a vector index query.
type VectorHit struct {
	Name        string
	Score       float32
	Description string
}

// VectorIndex defines the optional approximate-nearest-neighbor index.
// It mirrors the retriever's search contract: top-K names ranked by score.
type VectorIndex interface {
	UpsertDrugs(ctx context.Context, rows []DrugRow) error
	Search(ctx context.Context, vector []float32, limit int) ([]VectorHit, error)
	Close() error
}
