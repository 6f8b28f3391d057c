// Package validate filters retrieved evidence through two stateless gates:
// error detection first, then lightweight topical relevance.
package validate

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/domain"
	"github.com/campuskit/askdesk/internal/logger"
	"github.com/campuskit/askdesk/internal/metrics"
)

// minContentLength below which content is automatically irrelevant.
const minContentLength = 20

// Scores carries the relevance signals for one evidence item. Hit counts
// drive the gate; ratios and samples exist only for diagnostics.
type Scores struct {
	GlobalHits    int
	TopicHits     int
	GlobalRatio   float64
	TopicRatio    float64
	MatchedGlobal []string
	MatchedTopic  []string
}

// Service is the stateless evidence validator.
type Service struct{}

// New creates a validator.
func New() *Service {
	return &Service{}
}

// ContainsError reports whether the content carries a failure indicator.
// Empty content is itself an error.
func (s *Service) ContainsError(e *domain.Evidence) bool {
	content := strings.ToLower(e.Content())
	if content == "" {
		return true
	}
	for _, phrase := range errorIndicators {
		if strings.Contains(content, phrase) {
			return true
		}
	}
	return false
}

// Relevance computes keyword hit signals for one evidence item.
func (s *Service) Relevance(e *domain.Evidence) Scores {
	content := strings.ToLower(e.Content())
	if len(content) < minContentLength {
		return Scores{}
	}

	var scores Scores
	for _, kw := range campusKeywords {
		if strings.Contains(content, kw) {
			scores.MatchedGlobal = append(scores.MatchedGlobal, kw)
		}
	}
	scores.GlobalHits = len(scores.MatchedGlobal)
	if len(campusKeywords) > 0 {
		scores.GlobalRatio = float64(scores.GlobalHits) / float64(len(campusKeywords))
	}

	if vocab, ok := topicKeywords[e.Topic()]; ok {
		for _, kw := range vocab {
			if strings.Contains(content, kw) {
				scores.MatchedTopic = append(scores.MatchedTopic, kw)
			}
		}
		scores.TopicHits = len(scores.MatchedTopic)
		if len(vocab) > 0 {
			scores.TopicRatio = float64(scores.TopicHits) / float64(len(vocab))
		}
	}

	return scores
}

// IsRelevant applies the relevance gate: at least 2 global hits, or at
// least 1 topic-specific hit. Counts, not ratios, decide the outcome.
func (s *Service) IsRelevant(e *domain.Evidence) bool {
	scores := s.Relevance(e)
	return scores.GlobalHits >= 2 || scores.TopicHits >= 1
}

// Filter validates every item of every topic. Items failing either gate are
// dropped; topics whose surviving evidence is empty are dropped entirely.
// Never adds evidence, so re-running on filtered output is a no-op.
func (s *Service) Filter(ctx context.Context, set domain.EvidenceSet) domain.EvidenceSet {
	log := logger.FromContext(ctx)

	validated := make(domain.EvidenceSet, len(set))
	for topic, items := range set {
		surviving := make([]domain.Evidence, 0, len(items))
		for i := range items {
			item := &items[i]

			if s.ContainsError(item) {
				metrics.ValidationDroppedTotal.WithLabelValues("error").Inc()
				log.Debug("dropped error-bearing evidence", zap.String("topic", topic))
				continue
			}

			scores := s.Relevance(item)
			if scores.GlobalHits >= 2 || scores.TopicHits >= 1 {
				surviving = append(surviving, items[i])
				continue
			}

			metrics.ValidationDroppedTotal.WithLabelValues("relevance").Inc()
			log.Debug("dropped low-relevance evidence",
				zap.String("topic", topic),
				zap.Int("global_hits", scores.GlobalHits),
				zap.Int("topic_hits", scores.TopicHits),
				zap.Float64("global_ratio", scores.GlobalRatio),
				zap.Float64("topic_ratio", scores.TopicRatio))
		}

		validated.Add(topic, surviving)
	}

	log.Info("evidence validation complete",
		zap.Int("before", set.Total()),
		zap.Int("after", validated.Total()))

	return validated
}
