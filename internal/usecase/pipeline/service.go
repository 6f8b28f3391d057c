// Package pipeline is the top-level query orchestrator. It drives the stage
// sequence (decompose, retrieve, validate, synthesize), owns the concurrent
// fan-out over topics, and owns every recovery and fallback decision.
package pipeline

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/domain"
	"github.com/campuskit/askdesk/internal/logger"
	"github.com/campuskit/askdesk/internal/metrics"
)

// Terminal responses. Fixed informational strings, not errors.
const (
	// NoEvidenceMessage is returned when retrieval produces nothing.
	NoEvidenceMessage = "I apologize, but I couldn't find relevant information to answer your query. Please try rephrasing or ask about college administration topics."
	// UnreliableMessage is returned when nothing survives validation.
	UnreliableMessage = "I found some information, but it appears to contain errors or may not be reliable. Please rephrase or contact the administration directly."
	// InternalErrorMessage is reserved for unexpected failures escaping
	// the whole pipeline; the transport layer maps those to it.
	InternalErrorMessage = "I encountered an error while processing your request. Please try again or contact support."
)

// fallbackLimit caps unfiltered whole-store retrieval.
const fallbackLimit = 3

// Request is one question to answer.
type Request struct {
	Question        string
	UserID          string
	History         []domain.Turn
	IncludeEvidence bool
}

// Service coordinates the full answer pipeline.
type Service struct {
	decomposer   Decomposer
	retriever    Retriever
	validator    Validator
	synthesizer  Synthesizer
	topicTimeout time.Duration
}

// New creates the pipeline service. topicTimeout bounds each topic's
// retrieval during parallel fan-out.
func New(
	decomposer Decomposer, retriever Retriever, validator Validator, synthesizer Synthesizer,
	topicTimeout time.Duration,
) *Service {
	return &Service{
		decomposer:   decomposer,
		retriever:    retriever,
		validator:    validator,
		synthesizer:  synthesizer,
		topicTimeout: topicTimeout,
	}
}

// Answer runs the pipeline for one question. Provider failures degrade to
// fallbacks inside the stages; the only error returned here is an empty
// question.
func (s *Service) Answer(ctx context.Context, req *Request) (domain.Answer, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	question := strings.TrimSpace(req.Question)
	if question == "" {
		metrics.PipelineRequestsTotal.WithLabelValues("empty_question").Inc()
		return domain.Answer{}, domain.ErrEmptyQuestion
	}

	log.Info("processing question",
		zap.String("user_id", req.UserID),
		zap.Int("history_turns", len(req.History)))

	decomposition := s.decompose(ctx, question)

	set := s.retrieve(ctx, question, &decomposition)
	if len(set) == 0 {
		log.Warn("no evidence retrieved")
		metrics.PipelineRequestsTotal.WithLabelValues("no_evidence").Inc()
		return domain.NewAnswer(NoEvidenceMessage, nil), nil
	}

	validated := s.validate(ctx, set)
	if len(validated) == 0 {
		log.Warn("no evidence survived validation")
		metrics.PipelineRequestsTotal.WithLabelValues("unreliable").Inc()
		return domain.NewAnswer(UnreliableMessage, nil), nil
	}

	var snippets []string
	if req.IncludeEvidence {
		snippets = validated.Flatten()
	}

	text, outcome := s.synthesize(ctx, question, validated, req.History)
	metrics.PipelineRequestsTotal.WithLabelValues(outcome).Inc()

	log.Info("question answered",
		zap.String("outcome", outcome),
		zap.Duration("elapsed", time.Since(start)))

	return domain.NewAnswer(text, snippets), nil
}

func (s *Service) decompose(ctx context.Context, question string) domain.Decomposition {
	start := time.Now()
	d := s.decomposer.Decompose(ctx, question)
	metrics.PipelineStageDuration.WithLabelValues("decompose").Observe(time.Since(start).Seconds())
	return d
}

func (s *Service) retrieve(ctx context.Context, question string, d *domain.Decomposition) domain.EvidenceSet {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues("retrieve").Observe(time.Since(start).Seconds())
	}()

	if d.IsEmpty() {
		return s.fallbackRetrieve(ctx, question)
	}
	return s.parallelRetrieve(ctx, d.Subqueries())
}

// fallbackRetrieve runs one unfiltered whole-store search when no topic was
// identified. No web augmentation.
func (s *Service) fallbackRetrieve(ctx context.Context, question string) domain.EvidenceSet {
	logger.FromContext(ctx).Info("no topics identified, using fallback retrieval")

	set := domain.EvidenceSet{}
	set.Add(domain.GeneralTopic, s.retriever.SimilaritySearch(ctx, question, "", fallbackLimit))
	return set
}

type topicResult struct {
	topic string
	items []domain.Evidence
}

// parallelRetrieve fans out one worker per topic and aggregates through a
// channel into a set only this goroutine writes to. A slow or failing topic
// contributes nothing; it never blocks or aborts siblings.
func (s *Service) parallelRetrieve(ctx context.Context, subqueries map[string]string) domain.EvidenceSet {
	log := logger.FromContext(ctx)
	log.Info("parallel retrieval", zap.Int("topics", len(subqueries)))

	results := make(chan topicResult, len(subqueries))

	var wg sync.WaitGroup
	for topic, subquery := range subqueries {
		wg.Add(1)
		go func(topic, subquery string) {
			defer wg.Done()
			results <- topicResult{topic: topic, items: s.retrieveTopic(ctx, topic, subquery)}
		}(topic, subquery)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	set := domain.EvidenceSet{}
	for r := range results {
		set.Add(r.topic, r.items)
	}

	log.Info("parallel retrieval complete",
		zap.Int("topics_with_results", len(set)),
		zap.Int("items", set.Total()))

	return set
}

// retrieveTopic bounds one topic's retrieval with the per-topic timeout.
// The inner goroutine may outlive the deadline; providers tolerate
// abandoned calls.
func (s *Service) retrieveTopic(ctx context.Context, topic, subquery string) []domain.Evidence {
	topicCtx, cancel := context.WithTimeout(ctx, s.topicTimeout)
	defer cancel()

	done := make(chan []domain.Evidence, 1)
	go func() {
		done <- s.retriever.RetrieveTopic(topicCtx, topic, subquery)
	}()

	select {
	case items := <-done:
		return items
	case <-topicCtx.Done():
		metrics.RetrievalTimeoutsTotal.Inc()
		logger.FromContext(ctx).Warn("topic retrieval timed out", zap.String("topic", topic))
		return nil
	}
}

func (s *Service) validate(ctx context.Context, set domain.EvidenceSet) domain.EvidenceSet {
	start := time.Now()
	validated := s.validator.Filter(ctx, set)
	metrics.PipelineStageDuration.WithLabelValues("validate").Observe(time.Since(start).Seconds())
	return validated
}

// synthesize returns the answer text plus the request outcome label. A
// failed model call drops to the deterministic fallback instead of erroring.
func (s *Service) synthesize(
	ctx context.Context, question string, set domain.EvidenceSet, history []domain.Turn,
) (string, string) {
	start := time.Now()
	defer func() {
		metrics.PipelineStageDuration.WithLabelValues("synthesize").Observe(time.Since(start).Seconds())
	}()

	text, err := s.synthesizer.Synthesize(ctx, question, set, history)
	if err != nil {
		logger.FromContext(ctx).Warn("synthesis failed, using deterministic fallback", zap.Error(err))
		return s.synthesizer.Fallback(set), "fallback_synthesis"
	}
	return text, "answered"
}
