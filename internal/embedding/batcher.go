package embedding

import (
	"context"
	"fmt"
	"log"

	"github.com/medigraph/medigraph-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// Batcher splits large embedding requests into bounded batches so a single
// oversized dataset cannot blow past the backend's request limits. Results
// are reassembled in input order.
type Batcher struct {
	client    repository.EmbeddingClient
	batchSize int
}

// NewBatcher creates a new embedding batcher around the given client.
func NewBatcher(client repository.EmbeddingClient, batchSize int) *Batcher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Batcher{
		client:    client,
		batchSize: batchSize,
	}
}

// Embed returns one vector per input text, order preserved. Batches are
// dispatched concurrently; any batch failure fails the whole call.
func (b *Batcher) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	totalItems := len(texts)
	numBatches := (totalItems + b.batchSize - 1) / b.batchSize

	if numBatches > 1 {
		log.Printf("[Embedding Batcher] Splitting %d texts into %d batches (max %d/batch)", totalItems, numBatches, b.batchSize)
	}

	results := make([][]float32, totalItems)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < numBatches; i++ {
		start := i * b.batchSize
		end := start + b.batchSize
		if end > totalItems {
			end = totalItems
		}

		batchIndex := i
		batchTexts := texts[start:end]
		startIdx := start

		g.Go(func() error {
			vectors, err := b.client.Embed(ctx, batchTexts)
			if err != nil {
				return fmt.Errorf("batch %d failed: %w", batchIndex, err)
			}
			if len(vectors) != len(batchTexts) {
				return fmt.Errorf("batch %d returned %d vectors for %d texts", batchIndex, len(vectors), len(batchTexts))
			}
			// Reassemble results based on original indexing
			for j, v := range vectors {
				results[startIdx+j] = v
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Name returns the descriptive name of the wrapped client.
func (b *Batcher) Name() string {
	return b.client.Name()
}
