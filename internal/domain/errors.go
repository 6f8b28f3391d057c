package domain

import "errors"

var (
	// ErrEmptyQuestion signals a blank or missing question.
	ErrEmptyQuestion = errors.New("question is required")
	// ErrUnknownTopic signals a topic id absent from the catalog.
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrLLMProviderError signals a language-model provider failure.
	ErrLLMProviderError = errors.New("llm provider error")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrWebSearchUnavailable signals a missing or failing web search provider.
	ErrWebSearchUnavailable = errors.New("web search unavailable")
)
