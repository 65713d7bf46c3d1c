package repository

import (
	"context"
)

// LLMClient defines the interface for generating an answer from a prompt.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Name() string
}
