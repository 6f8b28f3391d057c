// Package decompose classifies a question's domain membership and splits it
// into per-topic sub-questions using the language model.
package decompose

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/domain"
	"github.com/campuskit/askdesk/internal/logger"
	"github.com/campuskit/askdesk/internal/metrics"
)

const (
	temperature = 0.1
	maxTokens   = 500
)

// Service decomposes questions into topic-scoped sub-questions.
type Service struct {
	llm     Completer
	catalog domain.Catalog
}

// New creates a decomposition service over the given catalog.
func New(llm Completer, catalog domain.Catalog) *Service {
	return &Service{llm: llm, catalog: catalog}
}

// Decompose analyzes the question against the topic catalog. Total by
// contract: provider failures and unparseable output degrade to an empty
// result instead of an error, since the caller falls back identically for
// "out of domain" and "could not decide".
func (s *Service) Decompose(ctx context.Context, question string) domain.Decomposition {
	log := logger.FromContext(ctx)

	raw, err := s.llm.Complete(ctx, systemPrompt, buildPrompt(question, &s.catalog), temperature, maxTokens)
	if err != nil {
		log.Warn("query decomposition failed, falling back to general retrieval", zap.Error(err))
		metrics.DecompositionsTotal.WithLabelValues(string(domain.DecompositionFailed)).Inc()
		return domain.FailedDecomposition()
	}

	subqueries, ok := parseSubqueries(raw)
	if !ok {
		log.Warn("unparseable decomposition response", zap.String("response", domain.TruncateText(raw, 200)))
		metrics.DecompositionsTotal.WithLabelValues(string(domain.DecompositionFailed)).Inc()
		return domain.FailedDecomposition()
	}

	recognized := make(map[string]string, len(subqueries))
	for topic, subquery := range subqueries {
		if !s.catalog.Contains(topic) {
			log.Warn("dropping unrecognized topic from decomposition", zap.String("topic", topic))
			continue
		}
		if strings.TrimSpace(subquery) == "" {
			continue
		}
		recognized[topic] = subquery
	}

	result := domain.MatchedDecomposition(recognized)
	metrics.DecompositionsTotal.WithLabelValues(string(result.Outcome())).Inc()

	if result.IsEmpty() {
		log.Debug("question classified as out-of-domain or non-specific")
	} else {
		log.Debug("question decomposed", zap.Int("topics", len(recognized)))
	}

	return result
}

// parseSubqueries decodes the model output as a topic-to-subquery object.
// Any shape deviation reports failure; the caller maps it to the canonical
// empty result.
func parseSubqueries(raw string) (map[string]string, bool) {
	cleaned := stripCodeFences(raw)
	if cleaned == "" {
		return nil, false
	}

	var subqueries map[string]string
	if err := json.Unmarshal([]byte(cleaned), &subqueries); err != nil {
		return nil, false
	}
	return subqueries, true
}

// stripCodeFences removes a surrounding markdown code block, tolerating a
// language tag after the opening fence.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 && !strings.HasPrefix(s, "{") {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
