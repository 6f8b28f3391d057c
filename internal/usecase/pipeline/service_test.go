package pipeline

import (
	"context"
	"errors"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/campuskit/askdesk/internal/domain"
	"github.com/campuskit/askdesk/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterPipelineMetrics()
	os.Exit(m.Run())
}

func dbEvidence(content, topic string) domain.Evidence {
	return domain.NewEvidence(content, topic, 0.8, domain.SourceDatabase, nil)
}

func newService(
	d *fakeDecomposer, r *fakeRetriever, v *fakeValidator, syn *fakeSynthesizer,
) *Service {
	return New(d, r, v, syn, 30*time.Second)
}

func TestAnswer_EmptyQuestion(t *testing.T) {
	svc := newService(&fakeDecomposer{}, &fakeRetriever{}, &fakeValidator{}, &fakeSynthesizer{})

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := svc.Answer(context.Background(), &Request{Question: q})
		if !errors.Is(err, domain.ErrEmptyQuestion) {
			t.Errorf("question %q: expected ErrEmptyQuestion, got %v", q, err)
		}
	}
}

func TestAnswer_ScholarshipEndToEnd(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"scholarship": "scholarship application process requirements eligibility",
	})}
	retriever := &fakeRetriever{perTopic: map[string][]domain.Evidence{
		"scholarship": {dbEvidence("MahaDBT scholarship applications open in August for enrolled students.", "scholarship")},
	}}
	synthesizer := &fakeSynthesizer{answer: "Apply on the MahaDBT portal once applications open in August."}
	svc := newService(decomposer, retriever, &fakeValidator{}, synthesizer)

	answer, err := svc.Answer(context.Background(), &Request{Question: "How do I apply for a scholarship?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text() != "Apply on the MahaDBT portal once applications open in August." {
		t.Errorf("unexpected answer: %q", answer.Text())
	}
	if len(retriever.topicCalls) != 1 || retriever.topicCalls[0].topic != "scholarship" {
		t.Errorf("unexpected retrieval calls: %+v", retriever.topicCalls)
	}
	if retriever.topicCalls[0].subquery != "scholarship application process requirements eligibility" {
		t.Errorf("worker must receive the optimized subquery, got %q", retriever.topicCalls[0].subquery)
	}
	if len(retriever.similarityCalls) != 0 {
		t.Error("fallback retrieval must not run when topics matched")
	}
	if synthesizer.calls != 1 {
		t.Errorf("expected one synthesis call, got %d", synthesizer.calls)
	}
}

func TestAnswer_OutOfDomainUsesFallbackRetrieval(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.EmptyDecomposition()}
	retriever := &fakeRetriever{fallback: []domain.Evidence{
		dbEvidence("General campus information for students and staff.", ""),
	}}
	synthesizer := &fakeSynthesizer{answer: "Here is some general information."}
	svc := newService(decomposer, retriever, &fakeValidator{}, synthesizer)

	answer, err := svc.Answer(context.Background(), &Request{Question: "What's the weather today?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if len(retriever.similarityCalls) != 1 {
		t.Fatalf("expected exactly one fallback search, got %d", len(retriever.similarityCalls))
	}
	call := retriever.similarityCalls[0]
	if call.topic != "" {
		t.Errorf("fallback search must not filter by topic, got %q", call.topic)
	}
	if call.limit != 3 {
		t.Errorf("fallback limit must be 3, got %d", call.limit)
	}
	if len(retriever.topicCalls) != 0 {
		t.Error("parallel retrieval must not run for empty decomposition")
	}
	if synthesizer.lastSet == nil {
		t.Fatal("synthesizer not called")
	}
	if _, ok := synthesizer.lastSet[domain.GeneralTopic]; !ok {
		t.Errorf("fallback evidence must be keyed %q, got %v", domain.GeneralTopic, synthesizer.lastSet.Topics())
	}
	if answer.Text() == "" {
		t.Error("expected non-empty answer")
	}
}

func TestAnswer_FailedDecompositionBehavesLikeEmpty(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.FailedDecomposition()}
	retriever := &fakeRetriever{fallback: []domain.Evidence{
		dbEvidence("General campus information for students and staff.", ""),
	}}
	svc := newService(decomposer, retriever, &fakeValidator{}, &fakeSynthesizer{answer: "ok"})

	if _, err := svc.Answer(context.Background(), &Request{Question: "gibberish"}); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if len(retriever.similarityCalls) != 1 {
		t.Error("failed decomposition must route to fallback retrieval")
	}
}

func TestAnswer_ParallelFanOut(t *testing.T) {
	subqueries := map[string]string{
		"scholarship":  "scholarship eligibility after year down",
		"exam_center":  "year down rules backlogs",
		"fees_payment": "fee refund after year down",
	}
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(subqueries)}
	retriever := &fakeRetriever{perTopic: map[string][]domain.Evidence{
		"scholarship": {dbEvidence("Scholarship continues if re-enrollment is confirmed by the college.", "scholarship")},
		"exam_center": {dbEvidence("Year down students must re-register for failed courses at the exam center.", "exam_center")},
		// fees_payment intentionally returns nothing.
	}}
	synthesizer := &fakeSynthesizer{answer: "combined answer"}
	svc := newService(decomposer, retriever, &fakeValidator{}, synthesizer)

	if _, err := svc.Answer(context.Background(), &Request{Question: "year down, what happens?"}); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if len(retriever.topicCalls) != len(subqueries) {
		t.Fatalf("expected %d retrieval tasks, got %d", len(subqueries), len(retriever.topicCalls))
	}

	// EvidenceSet keys are a subset of the subquery topics; the empty
	// topic is absent rather than recorded as [].
	got := synthesizer.lastSet.Topics()
	want := []string{"exam_center", "scholarship"}
	sort.Strings(got)
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("unexpected evidence topics: %v", got)
	}
}

func TestAnswer_NoEvidenceTerminal(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"library": "library timings",
	})}
	retriever := &fakeRetriever{} // every topic yields nothing
	validator := &fakeValidator{}
	synthesizer := &fakeSynthesizer{answer: "should not be used"}
	svc := newService(decomposer, retriever, validator, synthesizer)

	answer, err := svc.Answer(context.Background(), &Request{Question: "when is the library open?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text() != NoEvidenceMessage {
		t.Errorf("expected terminal no-evidence message, got %q", answer.Text())
	}
	if validator.calls != 0 {
		t.Error("validation must not run with no evidence")
	}
	if synthesizer.calls != 0 {
		t.Error("synthesizer must not run with no evidence")
	}
}

func TestAnswer_AllTopicsTimeOut(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"scholarship": "scholarship status",
		"exam_center": "revaluation result",
	})}
	retriever := &fakeRetriever{
		delay: 200 * time.Millisecond,
		perTopic: map[string][]domain.Evidence{
			"scholarship": {dbEvidence("never delivered in time", "scholarship")},
		},
	}
	synthesizer := &fakeSynthesizer{answer: "should not be used"}
	svc := New(decomposer, retriever, &fakeValidator{}, synthesizer, 20*time.Millisecond)

	answer, err := svc.Answer(context.Background(), &Request{Question: "any update?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text() != NoEvidenceMessage {
		t.Errorf("expected terminal no-evidence message after timeouts, got %q", answer.Text())
	}
	if synthesizer.calls != 0 {
		t.Error("synthesizer must never run when all topics time out")
	}
}

func TestAnswer_SlowTopicDoesNotAbortSiblings(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"scholarship": "scholarship status",
	})}
	retriever := &fakeRetriever{perTopic: map[string][]domain.Evidence{
		"scholarship": {dbEvidence("Scholarship disbursement for approved students starts in March.", "scholarship")},
	}}
	synthesizer := &fakeSynthesizer{answer: "disbursement starts in March"}
	svc := New(decomposer, retriever, &fakeValidator{}, synthesizer, 30*time.Second)

	answer, err := svc.Answer(context.Background(), &Request{Question: "when is disbursement?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer.Text() != "disbursement starts in March" {
		t.Errorf("unexpected answer: %q", answer.Text())
	}
}

func TestAnswer_UnreliableTerminal(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"library": "library fines",
	})}
	retriever := &fakeRetriever{perTopic: map[string][]domain.Evidence{
		"library": {dbEvidence("Service unavailable, please try again", "library")},
	}}
	validator := &fakeValidator{dropAll: true}
	synthesizer := &fakeSynthesizer{answer: "should not be used"}
	svc := newService(decomposer, retriever, validator, synthesizer)

	answer, err := svc.Answer(context.Background(), &Request{Question: "library fine rules?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if answer.Text() != UnreliableMessage {
		t.Errorf("expected terminal unreliable message, got %q", answer.Text())
	}
	if synthesizer.calls != 0 {
		t.Error("synthesizer must not run when validation drops everything")
	}
}

func TestAnswer_SynthesisFailureFallsBack(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"scholarship": "scholarship documents",
		"documents":   "bonafide certificate",
	})}
	retriever := &fakeRetriever{perTopic: map[string][]domain.Evidence{
		"scholarship": {dbEvidence("Income certificate and caste certificate are required for freeship.", "scholarship")},
		"documents":   {dbEvidence("Bonafide certificates are issued by the student section in two days.", "documents")},
	}}
	synthesizer := &fakeSynthesizer{err: errProvider}
	svc := newService(decomposer, retriever, &fakeValidator{}, synthesizer)

	answer, err := svc.Answer(context.Background(), &Request{Question: "what documents do I need?"})
	if err != nil {
		t.Fatalf("pipeline must not surface synthesis failure: %v", err)
	}

	if !strings.HasPrefix(answer.Text(), "Based on the available information:") {
		t.Errorf("expected deterministic fallback, got %q", answer.Text())
	}
	// A heading per surviving topic.
	for _, topic := range []string{"scholarship", "documents"} {
		if !strings.Contains(answer.Text(), topic) {
			t.Errorf("fallback missing heading for %q", topic)
		}
	}
}

func TestAnswer_EvaluationModeReturnsSnippets(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"library": "library timings",
	})}
	retriever := &fakeRetriever{perTopic: map[string][]domain.Evidence{
		"library": {
			dbEvidence("The central library is open 8am to 8pm on weekdays.", "library"),
			dbEvidence("Reading hall access requires a student identity card.", "library"),
		},
	}}
	synthesizer := &fakeSynthesizer{answer: "Open 8 to 8 on weekdays."}
	svc := newService(decomposer, retriever, &fakeValidator{}, synthesizer)

	answer, err := svc.Answer(context.Background(), &Request{
		Question:        "when is the library open?",
		IncludeEvidence: true,
	})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}

	if len(answer.Evidence()) != 2 {
		t.Fatalf("expected 2 evidence snippets, got %d", len(answer.Evidence()))
	}
	if answer.Evidence()[0] != "The central library is open 8am to 8pm on weekdays." {
		t.Errorf("unexpected snippet: %q", answer.Evidence()[0])
	}

	// Without the flag, snippets stay off the wire.
	answer, err = svc.Answer(context.Background(), &Request{Question: "when is the library open?"})
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if answer.Evidence() != nil {
		t.Errorf("expected no evidence snippets by default, got %v", answer.Evidence())
	}
}

func TestAnswer_HistoryReachesSynthesizer(t *testing.T) {
	decomposer := &fakeDecomposer{result: domain.MatchedDecomposition(map[string]string{
		"scholarship": "scholarship renewal",
	})}
	retriever := &fakeRetriever{perTopic: map[string][]domain.Evidence{
		"scholarship": {dbEvidence("Renewal needs last year's marksheet uploaded to the portal.", "scholarship")},
	}}
	synthesizer := &fakeSynthesizer{answer: "Upload last year's marksheet."}
	svc := newService(decomposer, retriever, &fakeValidator{}, synthesizer)

	history := []domain.Turn{
		domain.NewTurn(domain.RoleUser, "I applied for a scholarship last year."),
		domain.NewTurn(domain.RoleAssistant, "Good, renewals open each academic year."),
	}

	if _, err := svc.Answer(context.Background(), &Request{Question: "how do I renew it?", History: history}); err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if len(synthesizer.lastTurns) != 2 {
		t.Errorf("expected history to reach synthesizer, got %d turns", len(synthesizer.lastTurns))
	}
}
