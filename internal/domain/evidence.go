package domain

import "sort"

// Source identifies where a piece of evidence came from.
type Source string

const (
	// SourceDatabase marks evidence from the curated vector store.
	SourceDatabase Source = "database"
	// SourceWeb marks evidence from web search augmentation.
	SourceWeb Source = "web"
)

// Evidence is one retrieved snippet of text. Immutable after creation.
type Evidence struct {
	content  string
	topic    string
	score    float64
	source   Source
	metadata map[string]string
}

// NewEvidence creates an evidence item. topic falls back to GeneralTopic
// when empty; metadata is passed through unchanged and may be nil.
func NewEvidence(content, topic string, score float64, source Source, metadata map[string]string) Evidence {
	if topic == "" {
		topic = GeneralTopic
	}
	return Evidence{content: content, topic: topic, score: score, source: source, metadata: metadata}
}

// Content returns the snippet text.
func (e *Evidence) Content() string { return e.content }

// Topic returns the topic id the item was retrieved for.
func (e *Evidence) Topic() string { return e.topic }

// Score returns the provider-defined relevance score (higher = more relevant).
func (e *Evidence) Score() float64 { return e.score }

// Source returns the evidence origin.
func (e *Evidence) Source() Source { return e.source }

// Metadata returns the opaque metadata bag.
func (e *Evidence) Metadata() map[string]string { return e.metadata }

// EvidenceSet maps topic id to evidence in retrieval rank order.
// Topics with no evidence are absent, never recorded as empty slices.
type EvidenceSet map[string][]Evidence

// Add records a topic's evidence. Empty slices are dropped so that
// map presence always means "at least one item".
func (s EvidenceSet) Add(topic string, items []Evidence) {
	if len(items) == 0 {
		return
	}
	s[topic] = items
}

// Topics returns the topic ids in lexical order, for deterministic iteration.
func (s EvidenceSet) Topics() []string {
	topics := make([]string, 0, len(s))
	for t := range s {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics
}

// Total returns the number of evidence items across all topics.
func (s EvidenceSet) Total() int {
	n := 0
	for _, items := range s {
		n += len(items)
	}
	return n
}

// Flatten returns all evidence contents in topic order, skipping empties.
func (s EvidenceSet) Flatten() []string {
	out := make([]string, 0, s.Total())
	for _, topic := range s.Topics() {
		for _, e := range s[topic] {
			if e.content != "" {
				out = append(out, e.content)
			}
		}
	}
	return out
}
