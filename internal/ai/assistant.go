package ai

import "context"

// Generator produces free text for a prompt. Calls are fallible and slow
// (network round trips); callers must degrade gracefully.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Embedder turns texts into fixed-length vectors, one per input, in input
// order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Fallback narratives substituted per call when the external capability
// fails. Ranking correctness never depends on narrative generation.
const (
	FallbackRecommendation = "Could not generate recommendation due to an external error."
	FallbackSkillGap       = "Could not analyze skill gaps due to an external error."
)
