package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
)

// OllamaEmbedder implements repository.EmbeddingClient by calling a local
// Ollama server. The model is loaded by the server on first use; a missing
// model surfaces as an error on the first Embed call, never retried here.
type OllamaEmbedder struct {
	host  string
	model string
}

// NewOllamaEmbedder initializes a new embedding client for a local Ollama instance.
func NewOllamaEmbedder(host string, model string) *OllamaEmbedder {
	if host == "" {
		host = "http://localhost:11434"
	}
	if model == "" {
		model = "all-minilm"
	}
	return &OllamaEmbedder{
		host:  host,
		model: model,
	}
}

type ollamaEmbeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaEmbeddingResponse struct {
	Embedding  []float32   `json:"embedding,omitempty"`
	Embeddings [][]float32 `json:"embeddings,omitempty"`
}

// Embed generates one embedding per input text, order preserved, using
// Ollama's embedding API.
func (c *OllamaEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	log.Printf("[Ollama] 🏠 Generating embeddings for %d texts using %s...", len(texts), c.model)

	apiURL := fmt.Sprintf("%s/api/embed", c.host)

	reqBody, err := json.Marshal(ollamaEmbeddingRequest{
		Model: c.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama embedding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama embedding request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama returned error status %d: %s", resp.StatusCode, string(body))
	}

	var ollamaResp ollamaEmbeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&ollamaResp); err != nil {
		return nil, fmt.Errorf("failed to decode ollama embedding response: %w", err)
	}

	var embeddings [][]float32
	switch {
	case len(ollamaResp.Embeddings) > 0:
		embeddings = ollamaResp.Embeddings
	case len(ollamaResp.Embedding) > 0:
		// Older servers return a single flat embedding
		embeddings = [][]float32{ollamaResp.Embedding}
	default:
		return nil, fmt.Errorf("no embeddings returned from ollama")
	}

	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(embeddings))
	}

	return embeddings, nil
}

// Name returns the descriptive name of the client.
func (c *OllamaEmbedder) Name() string {
	return fmt.Sprintf("Ollama (%s) [Local]", c.model)
}
