// Package retrieve gathers evidence for one topic: vector search over the
// curated store, optionally augmented by web search. All provider failures
// degrade to empty results so that one topic's failure never aborts a request.
package retrieve

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/domain"
	"github.com/campuskit/askdesk/internal/logger"
	"github.com/campuskit/askdesk/internal/metrics"
)

// Service performs per-topic evidence gathering.
type Service struct {
	store   EvidenceSearcher
	embed   Embedder
	web     WebSearcher
	catalog domain.Catalog
	topK    int
}

// New creates a retrieval service. topK bounds both database and web results
// per topic.
func New(store EvidenceSearcher, embed Embedder, web WebSearcher, catalog domain.Catalog, topK int) *Service {
	return &Service{store: store, embed: embed, web: web, catalog: catalog, topK: topK}
}

// SimilaritySearch runs vector search against the store. topic narrows the
// search; empty spans the whole store. Failures are swallowed and yield nil.
func (s *Service) SimilaritySearch(ctx context.Context, query, topic string, limit int) []domain.Evidence {
	log := logger.FromContext(ctx)

	embedding, err := s.embed.Embed(ctx, query)
	if err != nil {
		log.Warn("query embedding failed", zap.String("topic", topic), zap.Error(err))
		return nil
	}

	items, err := s.store.Search(ctx, embedding.Embedding, topic, limit)
	if err != nil {
		log.Warn("similarity search failed", zap.String("topic", topic), zap.Error(err))
		return nil
	}

	metrics.RetrievalResultsTotal.WithLabelValues(string(domain.SourceDatabase)).Add(float64(len(items)))
	return items
}

// WebSearch runs best-effort web augmentation for a topic. The query is
// rewritten with institutional and topic context before being sent. Missing
// credentials or provider failure yields nil.
func (s *Service) WebSearch(ctx context.Context, query, topic string) []domain.Evidence {
	log := logger.FromContext(ctx)

	if !s.web.Enabled() {
		log.Debug("web search disabled, skipping augmentation", zap.String("topic", topic))
		return nil
	}

	refined := fmt.Sprintf("%s college campus %s", query, strings.ReplaceAll(topic, "_", " "))

	results, err := s.web.Search(ctx, refined, s.topK)
	if err != nil {
		log.Warn("web search failed", zap.String("topic", topic), zap.Error(err))
		return nil
	}

	items := make([]domain.Evidence, 0, len(results))
	for _, r := range results {
		metadata := map[string]string{}
		if r.Title != "" {
			metadata["title"] = r.Title
		}
		if r.URL != "" {
			metadata["url"] = r.URL
		}
		items = append(items, domain.NewEvidence(r.Content, topic, r.Score, domain.SourceWeb, metadata))
	}

	metrics.RetrievalResultsTotal.WithLabelValues(string(domain.SourceWeb)).Add(float64(len(items)))
	return items
}

// RetrieveTopic gathers one topic's combined evidence: database results
// first, then web results for web-eligible topics. Order within each source
// is the provider's rank order; no re-ranking across sources.
func (s *Service) RetrieveTopic(ctx context.Context, topic, subquery string) []domain.Evidence {
	combined := s.SimilaritySearch(ctx, subquery, topic, s.topK)

	if s.catalog.WebEligible(topic) {
		combined = append(combined, s.WebSearch(ctx, subquery, topic)...)
	}

	return combined
}
