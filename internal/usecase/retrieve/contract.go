package retrieve

import (
	"context"

	"github.com/campuskit/askdesk/internal/domain"
)

// EvidenceSearcher runs vector similarity search over the knowledge store.
type EvidenceSearcher interface {
	Search(ctx context.Context, vector []float32, topic string, k int) ([]domain.Evidence, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// WebSearcher runs web search for time-sensitive topics.
type WebSearcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, limit int) ([]domain.WebResult, error)
}
