package pipeline

import (
	"context"

	"github.com/campuskit/askdesk/internal/domain"
)

// Decomposer splits a question into per-topic sub-questions. Total by
// contract: failures degrade to an empty decomposition.
type Decomposer interface {
	Decompose(ctx context.Context, question string) domain.Decomposition
}

// Retriever gathers evidence. SimilaritySearch and RetrieveTopic swallow
// provider failures and return empty slices.
type Retriever interface {
	SimilaritySearch(ctx context.Context, query, topic string, limit int) []domain.Evidence
	RetrieveTopic(ctx context.Context, topic, subquery string) []domain.Evidence
}

// Validator filters evidence. Never adds items, only removes.
type Validator interface {
	Filter(ctx context.Context, set domain.EvidenceSet) domain.EvidenceSet
}

// Synthesizer produces answer text from validated evidence. Fallback is the
// deterministic non-model path and must not fail.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, set domain.EvidenceSet, history []domain.Turn) (string, error)
	Fallback(set domain.EvidenceSet) string
}
