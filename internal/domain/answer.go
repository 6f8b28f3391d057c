package domain

// Answer is the final pipeline output. Immutable once produced.
type Answer struct {
	text     string
	evidence []string
}

// NewAnswer creates an answer. evidence carries the flattened validated
// snippets when evaluation mode is on, nil otherwise.
func NewAnswer(text string, evidence []string) Answer {
	return Answer{text: text, evidence: evidence}
}

// Text returns the answer text.
func (a *Answer) Text() string { return a.text }

// Evidence returns the evidence snippets used to build the answer.
func (a *Answer) Evidence() []string { return a.evidence }
