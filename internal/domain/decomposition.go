package domain

// DecompositionOutcome classifies how a decomposition ended. Empty and Failed
// route to the same fallback behavior downstream; the distinction exists so
// provider outages stay observable.
type DecompositionOutcome string

const (
	// DecompositionMatched means at least one topic was identified.
	DecompositionMatched DecompositionOutcome = "matched"
	// DecompositionEmpty means the model classified the question as
	// out-of-domain or insufficiently specific.
	DecompositionEmpty DecompositionOutcome = "empty"
	// DecompositionFailed means the provider call failed or its output
	// could not be parsed.
	DecompositionFailed DecompositionOutcome = "failed"
)

// Decomposition is the result of splitting a question into per-topic
// sub-questions. Total by contract: there is no error case.
type Decomposition struct {
	subqueries map[string]string
	outcome    DecompositionOutcome
}

// MatchedDecomposition creates a decomposition with identified topics.
// An empty map degrades to EmptyDecomposition.
func MatchedDecomposition(subqueries map[string]string) Decomposition {
	if len(subqueries) == 0 {
		return EmptyDecomposition()
	}
	return Decomposition{subqueries: subqueries, outcome: DecompositionMatched}
}

// EmptyDecomposition creates the legitimate "no topics matched" result.
func EmptyDecomposition() Decomposition {
	return Decomposition{outcome: DecompositionEmpty}
}

// FailedDecomposition creates the degraded result for provider or parse
// failures. Behaves like EmptyDecomposition everywhere except metrics.
func FailedDecomposition() Decomposition {
	return Decomposition{outcome: DecompositionFailed}
}

// Subqueries returns the topic id to sub-question mapping. Nil unless Matched.
func (d *Decomposition) Subqueries() map[string]string { return d.subqueries }

// Outcome returns the decomposition classification.
func (d *Decomposition) Outcome() DecompositionOutcome { return d.outcome }

// IsEmpty reports whether no topics were identified, for any reason.
func (d *Decomposition) IsEmpty() bool { return len(d.subqueries) == 0 }
