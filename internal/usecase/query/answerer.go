package query

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/medigraph/medigraph-api/internal/domain/repository"
	"golang.org/x/sync/errgroup"
)

// DefaultTopK is the number of hits retrieved when the caller does not ask
// for a specific count.
const DefaultTopK = 5

// Answerer orchestrates the question-answering flow: embed the question,
// retrieve ranked hits, look up side effects, assemble bounded context and
// forward it to the hosted LLM.
type Answerer struct {
	embedder  repository.EmbeddingClient
	retriever Retriever
	graph     repository.GraphStore
	llm       repository.LLMClient
	maxChars  int
}

// NewAnswerer wires the answer flow with its dependencies.
func NewAnswerer(embedder repository.EmbeddingClient, retriever Retriever, graph repository.GraphStore, llm repository.LLMClient) *Answerer {
	return &Answerer{
		embedder:  embedder,
		retriever: retriever,
		graph:     graph,
		llm:       llm,
		maxChars:  DefaultMaxContextChars,
	}
}

// Answer returns the generated answer text plus one "Drug:{name}" source per
// retrieved hit, in ranking order.
func (a *Answerer) Answer(ctx context.Context, question string, topK int) (string, []string, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}

	vectors, err := a.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", nil, fmt.Errorf("question embedding failed: %w", err)
	}
	if len(vectors) == 0 {
		return "", nil, fmt.Errorf("embedder returned no vector for the question")
	}

	hits, err := a.retriever.Search(ctx, vectors[0], topK)
	if err != nil {
		return "", nil, err
	}

	sideEffects, err := a.lookupSideEffects(ctx, hits)
	if err != nil {
		return "", nil, err
	}

	sources := make([]string, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, "Drug:"+hit.Name)
	}

	lines := BuildContextLines(hits, sideEffects)
	log.Printf("[Answerer] Assembled %d context lines for question %q", len(lines), question)
	lines = TruncateContext(lines, a.maxChars)

	prompt := fmt.Sprintf("QUESTION: %s\n\nCONTEXT:\n%s", question, strings.Join(lines, "\n"))

	answer, err := a.llm.Generate(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("answer generation failed: %w", err)
	}

	return answer, sources, nil
}

// lookupSideEffects fetches side effects for every hit concurrently. The
// lookups are independent reads; results are keyed by drug name so ranking
// order is unaffected.
func (a *Answerer) lookupSideEffects(ctx context.Context, hits []Hit) (map[string][]string, error) {
	results := make([][]string, len(hits))

	g, ctx := errgroup.WithContext(ctx)
	for i, hit := range hits {
		g.Go(func() error {
			effects, err := a.graph.SideEffectsOf(ctx, hit.Name)
			if err != nil {
				return fmt.Errorf("side effect lookup failed for %q: %w", hit.Name, err)
			}
			results[i] = effects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]string, len(hits))
	for i, hit := range hits {
		out[hit.Name] = results[i]
	}
	return out, nil
}
