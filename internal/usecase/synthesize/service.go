// Package synthesize merges validated evidence and recent conversation into
// one answer via the language model, with a deterministic non-model fallback.
package synthesize

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/campuskit/askdesk/internal/domain"
	"github.com/campuskit/askdesk/internal/logger"
)

const (
	temperature = 0.3
	maxTokens   = 600
)

const (
	fallbackSnippetsPerTopic = 2
	fallbackSnippetChars     = 200
)

// Service produces final answer text from validated evidence.
type Service struct {
	llm Completer
}

// New creates a synthesis service.
func New(llm Completer) *Service {
	return &Service{llm: llm}
}

// Synthesize calls the language model once and returns its trimmed text.
func (s *Service) Synthesize(
	ctx context.Context, question string, set domain.EvidenceSet, history []domain.Turn,
) (string, error) {
	answer, err := s.llm.Complete(ctx, systemPrompt, buildPrompt(question, set, history), temperature, maxTokens)
	if err != nil {
		return "", fmt.Errorf("synthesize answer: %w", err)
	}

	logger.FromContext(ctx).Debug("answer synthesized", zap.Int("length", len(answer)))
	return answer, nil
}

// Fallback deterministically concatenates evidence with topic headings.
// Pure string formatting over in-memory data: cannot fail.
func (s *Service) Fallback(set domain.EvidenceSet) string {
	var b strings.Builder
	b.WriteString("Based on the available information:\n")

	for _, topic := range set.Topics() {
		fmt.Fprintf(&b, "\n**%s:**\n", headingFor(topic))
		items := set[topic]
		if len(items) > fallbackSnippetsPerTopic {
			items = items[:fallbackSnippetsPerTopic]
		}
		for i := range items {
			fmt.Fprintf(&b, "- %s...\n", domain.TruncateText(items[i].Content(), fallbackSnippetChars))
		}
	}

	return b.String()
}

// headingFor turns a topic id into a readable heading: underscores to
// spaces, words title-cased.
func headingFor(topic string) string {
	words := strings.Split(strings.ReplaceAll(topic, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
