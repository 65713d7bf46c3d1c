package neo4j

import (
	"context"
	"fmt"
	"log"

	"github.com/medigraph/medigraph-api/internal/domain/repository"
	"github.com/neo4j/neo4j-go-driver/v6/neo4j"
)

// Client implements repository.GraphStore using the official Neo4j Go driver.
type Client struct {
	driver neo4j.Driver
}

// NewClient creates a new Neo4j client and verifies connectivity.
func NewClient(ctx context.Context, uri, user, password string) (*Client, error) {
	driver, err := neo4j.NewDriver(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create Neo4j driver for %s: %w", uri, err)
	}

	// Verify connectivity
	if err := driver.VerifyConnectivity(ctx); err != nil {
		if closeErr := driver.Close(ctx); closeErr != nil {
			log.Printf("[Neo4j] Warning: failed to close driver after connectivity check: %v", closeErr)
		}
		return nil, fmt.Errorf("failed to verify Neo4j connectivity at %s: %w", uri, err)
	}

	log.Printf("[Neo4j] Connected to %s as %s", uri, user)
	return &Client{driver: driver}, nil
}

// EnsureConstraints idempotently declares uniqueness constraints on the node
// names used by the graph model. Constraints may already exist; the caller
// treats a failure here as a warning, not a fatal error.
func (c *Client) EnsureConstraints(ctx context.Context) error {
	constraints := []string{
		`CREATE CONSTRAINT IF NOT EXISTS FOR (d:Drug) REQUIRE (d.name) IS UNIQUE`,
		`CREATE CONSTRAINT IF NOT EXISTS FOR (s:SideEffect) REQUIRE (s.name) IS UNIQUE`,
		`CREATE CONSTRAINT IF NOT EXISTS FOR (c:Condition) REQUIRE (c.name) IS UNIQUE`,
	}

	for _, stmt := range constraints {
		_, err := neo4j.ExecuteQuery(ctx, c.driver, stmt,
			nil,
			neo4j.EagerResultTransformer,
			neo4j.ExecuteQueryWithDatabase(""),
		)
		if err != nil {
			return fmt.Errorf("constraint creation failed: %w", err)
		}
	}

	log.Printf("[Neo4j] Uniqueness constraints ensured for Drug, SideEffect, Condition")
	return nil
}

// IngestRows writes all rows inside a single explicit transaction. Any row
// failure rolls back the whole batch. Drug descriptions are first-write-wins,
// embeddings always overwritten; Condition and SideEffect nodes and their
// edges are MERGE-idempotent.
func (c *Client) IngestRows(ctx context.Context, rows []repository.DrugRow) error {
	if len(rows) == 0 {
		return nil
	}

	session := c.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer func() {
		if err := session.Close(ctx); err != nil {
			log.Printf("[Neo4j] Warning: failed to close session: %v", err)
		}
	}()

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		for _, row := range rows {
			if err := writeRow(ctx, tx, row); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("graph ingestion transaction failed: %w", err)
	}

	log.Printf("[Neo4j] Ingested %d rows", len(rows))
	return nil
}

func writeRow(ctx context.Context, tx neo4j.ManagedTransaction, row repository.DrugRow) error {
	drugQuery := `
		MERGE (d:Drug {name: $name})
		SET d.description = CASE
		        WHEN d.description IS NULL OR d.description = '' THEN $desc
		        ELSE d.description
		    END,
		    d.embedding = $embedding
	`
	if _, err := tx.Run(ctx, drugQuery, map[string]any{
		"name":      row.Name,
		"desc":      row.Description,
		"embedding": toFloat64Slice(row.Embedding),
	}); err != nil {
		return fmt.Errorf("drug upsert failed for %q: %w", row.Name, err)
	}

	if row.Condition != "" {
		condQuery := `
			MERGE (c:Condition {name: $cname})
			MERGE (d:Drug {name: $dname})
			MERGE (d)-[:TREATS]->(c)
		`
		if _, err := tx.Run(ctx, condQuery, map[string]any{
			"cname": row.Condition,
			"dname": row.Name,
		}); err != nil {
			return fmt.Errorf("treats upsert failed for %q -> %q: %w", row.Name, row.Condition, err)
		}
	}

	for _, effect := range row.Effects {
		effectQuery := `
			MERGE (s:SideEffect {name: $sname})
			MERGE (d:Drug {name: $dname})
			MERGE (d)-[:HAS_SIDE_EFFECT]->(s)
		`
		if _, err := tx.Run(ctx, effectQuery, map[string]any{
			"sname": effect,
			"dname": row.Name,
		}); err != nil {
			return fmt.Errorf("side effect upsert failed for %q -> %q: %w", row.Name, effect, err)
		}
	}

	return nil
}

// ListDrugEmbeddings performs a full scan of Drug nodes holding an embedding.
func (c *Client) ListDrugEmbeddings(ctx context.Context) ([]repository.DrugVector, error) {
	query := `
		MATCH (d:Drug)
		WHERE d.embedding IS NOT NULL
		RETURN d.name AS name, d.embedding AS embedding, d.description AS description
	`

	result, err := neo4j.ExecuteQuery(ctx, c.driver, query,
		nil,
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(""),
	)
	if err != nil {
		return nil, fmt.Errorf("embedding scan failed: %w", err)
	}

	var out []repository.DrugVector
	for _, record := range result.Records {
		name, _, _ := neo4j.GetRecordValue[string](record, "name")
		description, _, _ := neo4j.GetRecordValue[string](record, "description")
		embRaw, _, err := neo4j.GetRecordValue[[]any](record, "embedding")
		if err != nil {
			return nil, fmt.Errorf("embedding parse failed for %q: %w", name, err)
		}

		embedding, err := toFloat32Slice(embRaw)
		if err != nil {
			return nil, fmt.Errorf("embedding conversion failed for %q: %w", name, err)
		}

		out = append(out, repository.DrugVector{
			Name:        name,
			Embedding:   embedding,
			Description: description,
		})
	}

	return out, nil
}

// SideEffectsOf returns the names of all side effects linked to the drug.
func (c *Client) SideEffectsOf(ctx context.Context, drugName string) ([]string, error) {
	query := `
		MATCH (d:Drug {name: $name})-[:HAS_SIDE_EFFECT]->(s:SideEffect)
		RETURN s.name AS name
	`

	result, err := neo4j.ExecuteQuery(ctx, c.driver, query,
		map[string]any{"name": drugName},
		neo4j.EagerResultTransformer,
		neo4j.ExecuteQueryWithDatabase(""),
	)
	if err != nil {
		return nil, fmt.Errorf("side effect lookup failed for %q: %w", drugName, err)
	}

	var out []string
	for _, record := range result.Records {
		name, _, err := neo4j.GetRecordValue[string](record, "name")
		if err != nil {
			return nil, fmt.Errorf("side effect parse failed: %w", err)
		}
		out = append(out, name)
	}

	return out, nil
}

// Close closes the underlying Neo4j driver.
func (c *Client) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// toFloat64Slice widens a stored vector for the bolt wire format.
func toFloat64Slice(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, f := range v {
		out[i] = float64(f)
	}
	return out
}

// toFloat32Slice converts the driver's []any representation back to a vector.
func toFloat32Slice(v []any) ([]float32, error) {
	out := make([]float32, len(v))
	for i, elem := range v {
		switch n := elem.(type) {
		case float32:
			out[i] = n
		case float64:
			out[i] = float32(n)
		default:
			return nil, fmt.Errorf("element %d: unsupported type %T", i, elem)
		}
	}
	return out, nil
}
