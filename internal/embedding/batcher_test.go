package embedding

import (
	"context"
	"errors"
	"testing"
)

type mockEmbeddingClient struct {
	err error
}

func (m *mockEmbeddingClient) Embed(_ context.Context, texts []string) ([][]float32, error) {
	if m.err != nil {
		return nil, m.err
	}

	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		embeddings[i] = []float32{1.0, 2.0, float32(len(text))}
	}
	return embeddings, nil
}

func (m *mockEmbeddingClient) Name() string {
	return "mock_embedding"
}

func TestBatcher_Empty(t *testing.T) {
	client := &mockEmbeddingClient{}
	batcher := NewBatcher(client, 2)

	res, err := batcher.Embed(context.Background(), []string{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(res) != 0 {
		t.Errorf("Expected 0 results, got %d", len(res))
	}
}

func TestBatcher_OrderPreserved(t *testing.T) {
	client := &mockEmbeddingClient{}
	batcher := NewBatcher(client, 2)

	texts := []string{"one", "two", "three", "four", "five"}
	res, err := batcher.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(res) != 5 {
		t.Fatalf("Expected 5 results, got %d", len(res))
	}

	// Verify order is preserved across batch boundaries
	if res[0][2] != float32(len("one")) {
		t.Errorf("Expected length of 'one', got %v", res[0][2])
	}
	if res[2][2] != float32(len("three")) {
		t.Errorf("Expected length of 'three', got %v", res[2][2])
	}
	if res[4][2] != float32(len("five")) {
		t.Errorf("Expected length of 'five', got %v", res[4][2])
	}
}

func TestBatcher_SingleBatch(t *testing.T) {
	client := &mockEmbeddingClient{}
	batcher := NewBatcher(client, 100)

	res, err := batcher.Embed(context.Background(), []string{"only"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(res) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(res))
	}
}

func TestBatcher_Error(t *testing.T) {
	client := &mockEmbeddingClient{err: errors.New("mock error")}
	batcher := NewBatcher(client, 2)

	_, err := batcher.Embed(context.Background(), []string{"one", "two"})
	if err == nil {
		t.Fatalf("Expected error, got nil")
	}
}

func TestBatcher_InvalidBatchSizeFallsBack(t *testing.T) {
	client := &mockEmbeddingClient{}
	batcher := NewBatcher(client, 0)

	res, err := batcher.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(res) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(res))
	}
}
