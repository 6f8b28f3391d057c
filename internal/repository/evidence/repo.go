// Package evidence maps vector search hits from the knowledge store
// into domain evidence items.
package evidence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/db"
	"github.com/campuskit/askdesk/internal/domain"
)

// IndexName is the FT index over the curated knowledge base.
const IndexName = domain.KeyPrefix + "evidence:idx"

const (
	fieldContent = "content"
	fieldTopic   = "topic"

	// candidatePool widens the KNN neighbor set beyond the requested row
	// count so a topic pre-filter does not starve the result.
	candidatePool = 100
)

type searcher interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repository retrieves evidence snippets by vector similarity.
type Repository struct {
	store  searcher
	logger *zap.Logger
}

// NewRepository creates an evidence repository over the given store.
func NewRepository(store searcher, logger *zap.Logger) *Repository {
	return &Repository{store: store, logger: logger}
}

// Search runs a KNN query and returns the hits as evidence, preserving
// similarity rank order. topic narrows the search to one topic tag;
// empty searches the whole index.
func (r *Repository) Search(
	ctx context.Context, vector []float32, topic string, k int,
) ([]domain.Evidence, error) {
	result, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    IndexName,
		Vector:       vector,
		K:            candidatePool,
		Limit:        k,
		TopicFilter:  topic,
		ReturnFields: []string{fieldContent, fieldTopic, "title", "source_url"},
	})
	if err != nil {
		return nil, fmt.Errorf("evidence search: %w", err)
	}

	items := make([]domain.Evidence, 0, len(result.Entries))
	for _, entry := range result.Entries {
		content := entry.Fields[fieldContent]
		if content == "" {
			continue
		}

		entryTopic := entry.Fields[fieldTopic]
		if entryTopic == "" {
			entryTopic = topic
		}

		var metadata map[string]string
		for name, value := range entry.Fields {
			if name == fieldContent || name == fieldTopic || value == "" {
				continue
			}
			if metadata == nil {
				metadata = make(map[string]string)
			}
			metadata[name] = value
		}

		items = append(items, domain.NewEvidence(
			content, entryTopic, entry.Score, domain.SourceDatabase, metadata,
		))
	}

	return items, nil
}
