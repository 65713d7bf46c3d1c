package llm

import (
	"context"
	"testing"
)

func TestGeminiClient_EmptyKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-1.5-flash")
	if err == nil {
		t.Error("expected construction error for empty api key")
	}
}

func TestExtractText_NilResponse(t *testing.T) {
	text := extractText(nil)
	if text == "" {
		t.Error("expected best-effort string representation, got empty")
	}
}
