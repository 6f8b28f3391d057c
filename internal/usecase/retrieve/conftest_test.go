package retrieve

import (
	"context"

	"github.com/campuskit/askdesk/internal/domain"
)

type fakeStore struct {
	items     []domain.Evidence
	err       error
	lastTopic string
	lastK     int
	calls     int
}

func (f *fakeStore) Search(_ context.Context, _ []float32, topic string, k int) ([]domain.Evidence, error) {
	f.calls++
	f.lastTopic = topic
	f.lastK = k
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type fakeEmbedder struct {
	err      error
	lastText string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	f.lastText = text
	if f.err != nil {
		return domain.EmbeddingResult{}, f.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}, nil
}

type fakeWeb struct {
	enabled   bool
	results   []domain.WebResult
	err       error
	lastQuery string
	lastLimit int
	calls     int
}

func (f *fakeWeb) Enabled() bool { return f.enabled }

func (f *fakeWeb) Search(_ context.Context, query string, limit int) ([]domain.WebResult, error) {
	f.calls++
	f.lastQuery = query
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}
