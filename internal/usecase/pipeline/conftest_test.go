package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/campuskit/askdesk/internal/domain"
)

type fakeDecomposer struct {
	result       domain.Decomposition
	lastQuestion string
	calls        int
}

func (f *fakeDecomposer) Decompose(_ context.Context, question string) domain.Decomposition {
	f.calls++
	f.lastQuestion = question
	return f.result
}

type fakeRetriever struct {
	mu sync.Mutex

	perTopic map[string][]domain.Evidence // RetrieveTopic results
	fallback []domain.Evidence            // SimilaritySearch results

	delay time.Duration // per-topic retrieval delay, for timeout tests

	similarityCalls []similarityCall
	topicCalls      []topicCall
}

type similarityCall struct {
	query string
	topic string
	limit int
}

type topicCall struct {
	topic    string
	subquery string
}

func (f *fakeRetriever) SimilaritySearch(_ context.Context, query, topic string, limit int) []domain.Evidence {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.similarityCalls = append(f.similarityCalls, similarityCall{query: query, topic: topic, limit: limit})
	return f.fallback
}

func (f *fakeRetriever) RetrieveTopic(ctx context.Context, topic, subquery string) []domain.Evidence {
	f.mu.Lock()
	f.topicCalls = append(f.topicCalls, topicCall{topic: topic, subquery: subquery})
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return f.perTopic[topic]
}

type fakeValidator struct {
	dropAll bool
	calls   int
}

func (f *fakeValidator) Filter(_ context.Context, set domain.EvidenceSet) domain.EvidenceSet {
	f.calls++
	if f.dropAll {
		return domain.EvidenceSet{}
	}
	return set
}

type fakeSynthesizer struct {
	answer    string
	err       error
	calls     int
	lastSet   domain.EvidenceSet
	lastTurns []domain.Turn
}

func (f *fakeSynthesizer) Synthesize(
	_ context.Context, _ string, set domain.EvidenceSet, history []domain.Turn,
) (string, error) {
	f.calls++
	f.lastSet = set
	f.lastTurns = history
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeSynthesizer) Fallback(set domain.EvidenceSet) string {
	return "Based on the available information:\n" + joinTopics(set)
}

func joinTopics(set domain.EvidenceSet) string {
	out := ""
	for _, topic := range set.Topics() {
		out += "**" + topic + ":**\n"
	}
	return out
}

var errProvider = errors.New("provider down")
