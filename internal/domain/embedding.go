package domain

import "context"

// KeyPrefix namespaces all store keys and index names.
const KeyPrefix = "askdesk:"

// EmbeddingResult holds a vector and the token usage that produced it.
type EmbeddingResult struct {
	Embedding    []float32
	PromptTokens int
	TotalTokens  int
}

// Embedder vectorizes text. Deterministic for identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) (EmbeddingResult, error)
}

// HealthChecker is implemented by providers that can verify availability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// WebResult is one raw web search hit before normalization into Evidence.
type WebResult struct {
	Content string
	Title   string
	URL     string
	Score   float64
}
