package chi

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/domain"
	healthuc "github.com/campuskit/askdesk/internal/usecase/health"
	pipelineuc "github.com/campuskit/askdesk/internal/usecase/pipeline"
)

type stubDecomposer struct {
	result domain.Decomposition
}

func (s *stubDecomposer) Decompose(_ context.Context, _ string) domain.Decomposition {
	return s.result
}

type stubRetriever struct {
	perTopic map[string][]domain.Evidence
	fallback []domain.Evidence
}

func (s *stubRetriever) SimilaritySearch(_ context.Context, _, _ string, _ int) []domain.Evidence {
	return s.fallback
}

func (s *stubRetriever) RetrieveTopic(_ context.Context, topic, _ string) []domain.Evidence {
	return s.perTopic[topic]
}

type stubValidator struct{}

func (s *stubValidator) Filter(_ context.Context, set domain.EvidenceSet) domain.EvidenceSet {
	return set
}

type stubSynthesizer struct {
	answer string
	err    error
}

func (s *stubSynthesizer) Synthesize(
	_ context.Context, _ string, _ domain.EvidenceSet, _ []domain.Turn,
) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.answer, nil
}

func (s *stubSynthesizer) Fallback(_ domain.EvidenceSet) string {
	return "Based on the available information:"
}

type stubPinger struct {
	err error
}

func (s *stubPinger) Ping(_ context.Context) error { return s.err }

func newTestServer(answer string) *Server {
	decomposer := &stubDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"scholarship": "scholarship application",
	})}
	retriever := &stubRetriever{perTopic: map[string][]domain.Evidence{
		"scholarship": {domain.NewEvidence(
			"Scholarship applications open in August for enrolled students.",
			"scholarship", 0.9, domain.SourceDatabase, nil,
		)},
	}}
	pipeline := pipelineuc.New(
		decomposer, retriever, &stubValidator{}, &stubSynthesizer{answer: answer}, 30*time.Second,
	)
	health := healthuc.New(&stubPinger{}, nil)
	return NewServer(pipeline, health, zap.NewNop())
}

var errStub = errors.New("stub failure")
