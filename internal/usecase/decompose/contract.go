package decompose

import "context"

// Completer submits a prompt to the language model.
type Completer interface {
	Complete(ctx context.Context, system, prompt string, temperature float32, maxTokens int) (string, error)
}
