package query

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"

	"github.com/medigraph/medigraph-api/internal/domain/repository"
)

// Hit is a transient retrieval result; it is never persisted.
type Hit struct {
	Name        string
	Score       float64
	Description string
}

// Retriever ranks stored drug nodes against a query vector.
type Retriever interface {
	Search(ctx context.Context, queryVector []float32, topK int) ([]Hit, error)
}

// ScanRetriever is the naive baseline: it pulls every stored drug embedding
// from the graph and computes cosine similarity in process. O(N*D) per query,
// acceptable only while the drug set stays small.
type ScanRetriever struct {
	graph repository.GraphStore
}

// NewScanRetriever creates the full-scan retriever over the graph store.
func NewScanRetriever(graph repository.GraphStore) *ScanRetriever {
	return &ScanRetriever{graph: graph}
}

// Search returns up to topK hits ordered by descending cosine score. Ties
// keep scan order.
func (r *ScanRetriever) Search(ctx context.Context, queryVector []float32, topK int) ([]Hit, error) {
	candidates, err := r.graph.ListDrugEmbeddings(ctx)
	if err != nil {
		return nil, fmt.Errorf("embedding scan failed: %w", err)
	}

	hits := make([]Hit, 0, len(candidates))
	for _, cand := range candidates {
		hits = append(hits, Hit{
			Name:        cand.Name,
			Score:       Cosine(queryVector, cand.Embedding),
			Description: cand.Description,
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if topK >= 0 && len(hits) > topK {
		hits = hits[:topK]
	}

	log.Printf("[Retriever] Full scan ranked %d candidates, returning %d", len(candidates), len(hits))
	return hits, nil
}

// IndexRetriever delegates ranking to an approximate-nearest-neighbor index.
// Behavior matches ScanRetriever at small scale since the index uses cosine
// distance.
type IndexRetriever struct {
	index repository.VectorIndex
}

// NewIndexRetriever creates a retriever backed by the vector index.
func NewIndexRetriever(index repository.VectorIndex) *IndexRetriever {
	return &IndexRetriever{index: index}
}

// Search queries the index for the topK closest drug vectors.
func (r *IndexRetriever) Search(ctx context.Context, queryVector []float32, topK int) ([]Hit, error) {
	results, err := r.index.Search(ctx, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("vector index search failed: %w", err)
	}

	hits := make([]Hit, 0, len(results))
	for _, res := range results {
		hits = append(hits, Hit{
			Name:        res.Name,
			Score:       float64(res.Score),
			Description: res.Description,
		})
	}

	log.Printf("[Retriever] Index search returned %d hits", len(hits))
	return hits, nil
}

// Cosine returns the normalized dot product of a and b. A zero-norm vector
// scores 0.0 against anything.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	for i := n; i < len(a); i++ {
		normA += float64(a[i]) * float64(a[i])
	}
	for i := n; i < len(b); i++ {
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
