package qdrant

import (
	"context"
	"fmt"
	"hash/fnv"
	"log"
	"sync"

	"github.com/medigraph/medigraph-api/internal/domain/repository"
	pb "github.com/qdrant/go-client/qdrant"
)

// Client implements repository.VectorIndex using the official Qdrant Go SDK.
// It is an optional drop-in for the full-scan retriever; ranking behavior is
// identical at small scale since the collection uses cosine distance.
type Client struct {
	client     *pb.Client
	collection string

	mu      sync.Mutex
	ensured bool
}

// NewClient creates a new Qdrant client. The collection is created lazily on
// the first upsert, once the embedding dimension is known.
func NewClient(host string, port int, collection string) (*Client, error) {
	client, err := pb.NewClient(&pb.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant at %s:%d: %w", host, port, err)
	}

	log.Printf("[Qdrant] Connected to %s:%d, collection=%s", host, port, collection)
	return &Client{
		client:     client,
		collection: collection,
	}, nil
}

// ensureCollection creates the collection if it does not already exist.
func (c *Client) ensureCollection(ctx context.Context, vectorSize uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ensured {
		return nil
	}

	exists, err := c.client.CollectionExists(ctx, c.collection)
	if err != nil {
		return err
	}
	if exists {
		c.ensured = true
		return nil
	}

	err = c.client.CreateCollection(ctx, &pb.CreateCollection{
		CollectionName: c.collection,
		VectorsConfig: pb.NewVectorsConfig(&pb.VectorParams{
			Size:     vectorSize,
			Distance: pb.Distance_Cosine,
		}),
	})
	if err != nil {
		return err
	}

	log.Printf("[Qdrant] Created collection %q (dim=%d)", c.collection, vectorSize)
	c.ensured = true
	return nil
}

// UpsertDrugs mirrors drug embeddings into the index. Point ids are derived
// from the drug name, so re-ingesting the same drug overwrites its point.
func (c *Client) UpsertDrugs(ctx context.Context, rows []repository.DrugRow) error {
	if len(rows) == 0 {
		return nil
	}

	if err := c.ensureCollection(ctx, uint64(len(rows[0].Embedding))); err != nil {
		return fmt.Errorf("failed to ensure collection %q: %w", c.collection, err)
	}

	var points []*pb.PointStruct
	for _, row := range rows {
		if len(row.Embedding) == 0 {
			continue
		}
		points = append(points, &pb.PointStruct{
			Id:      pb.NewIDNum(pointID(row.Name)),
			Vectors: pb.NewVectors(row.Embedding...),
			Payload: pb.NewValueMap(map[string]any{
				"name":        row.Name,
				"description": row.Description,
			}),
		})
	}

	_, err := c.client.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: c.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("qdrant upsert failed: %w", err)
	}

	log.Printf("[Qdrant] Upserted %d drug points", len(points))
	return nil
}

// Search returns the top-K drug names ranked by cosine score.
func (c *Client) Search(ctx context.Context, vector []float32, limit int) ([]repository.VectorHit, error) {
	resp, err := c.client.GetPointsClient().Search(ctx, &pb.SearchPoints{
		CollectionName: c.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant search failed: %w", err)
	}

	var hits []repository.VectorHit
	for _, point := range resp.GetResult() {
		payload := point.GetPayload()
		nameVal, ok := payload["name"]
		if !ok {
			continue
		}
		hit := repository.VectorHit{
			Name:  nameVal.GetStringValue(),
			Score: point.GetScore(),
		}
		if descVal, ok := payload["description"]; ok {
			hit.Description = descVal.GetStringValue()
		}
		hits = append(hits, hit)
	}

	return hits, nil
}

// Close closes the underlying Qdrant gRPC connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// pointID derives a stable numeric point id from a drug name.
func pointID(name string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return h.Sum64()
}
