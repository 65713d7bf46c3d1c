package llm

import (
	"context"
	"fmt"
	"log"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// systemInstruction constrains the model to the supplied context and tells it
// to express uncertainty rather than invent medical facts.
const systemInstruction = "You are a medical knowledge assistant. Use the provided context facts and only those facts " +
	"to generate a concise, referenced answer. If context is insufficient, say you are unsure and " +
	"recommend consulting a healthcare professional."

// GeminiClient implements repository.LLMClient against the hosted Gemini API.
type GeminiClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	modelName string
}

// NewGeminiClient builds the hosted chat-completion client. A missing API key
// is a configuration error surfaced here, at construction time.
func NewGeminiClient(ctx context.Context, apiKey, modelName string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key must not be empty")
	}
	if modelName == "" {
		modelName = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	// Deterministic sampling
	model.SetTemperature(0)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemInstruction)},
	}

	return &GeminiClient{
		client:    client,
		model:     model,
		modelName: modelName,
	}, nil
}

// Generate sends the prompt under the fixed system instruction and returns the
// generated text verbatim.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	log.Printf("[Gemini] ☁️ Sending request to %s...", c.modelName)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := extractText(resp)

	log.Printf("[Gemini] ☁️ Response received successfully.")
	return text, nil
}

// extractText pulls the first text part from the response. An unexpected
// response shape degrades to a best-effort string representation instead of
// an error.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		log.Printf("[Gemini] Warning: no candidates in response, returning raw representation")
		return fmt.Sprintf("%v", resp)
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			return string(text)
		}
	}

	log.Printf("[Gemini] Warning: unexpected response format, returning raw representation")
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts)
}

// Name returns the descriptive name of the client.
func (c *GeminiClient) Name() string {
	return fmt.Sprintf("Gemini %s (Cloud)", c.modelName)
}

// Close closes the underlying API client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
