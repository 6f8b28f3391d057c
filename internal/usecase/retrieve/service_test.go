package retrieve

import (
	"context"
	"errors"
	"os"
	"testing"

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

func TestSimilaritySearch(t *testing.T) {
	store := &fakeStore{items: []domain.Evidence{dbEvidence("Scholarship deadline is June 30.", "scholarship")}}
	embed := &fakeEmbedder{}
	svc := New(store, embed, &fakeWeb{}, domain.DefaultCatalog(), 3)

	items := svc.SimilaritySearch(context.Background(), "scholarship deadline", "scholarship", 3)

	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if embed.lastText != "scholarship deadline" {
		t.Errorf("unexpected embedded text: %q", embed.lastText)
	}
	if store.lastTopic != "scholarship" || store.lastK != 3 {
		t.Errorf("unexpected search args: topic=%q k=%d", store.lastTopic, store.lastK)
	}
}

func TestSimilaritySearch_SwallowsErrors(t *testing.T) {
	t.Run("embed error", func(t *testing.T) {
		svc := New(&fakeStore{}, &fakeEmbedder{err: errors.New("auth")}, &fakeWeb{}, domain.DefaultCatalog(), 3)
		if items := svc.SimilaritySearch(context.Background(), "q", "library", 3); items != nil {
			t.Errorf("expected nil on embed failure, got %v", items)
		}
	})

	t.Run("store error", func(t *testing.T) {
		svc := New(&fakeStore{err: errors.New("connection refused")}, &fakeEmbedder{}, &fakeWeb{}, domain.DefaultCatalog(), 3)
		if items := svc.SimilaritySearch(context.Background(), "q", "library", 3); items != nil {
			t.Errorf("expected nil on store failure, got %v", items)
		}
	})
}

func TestWebSearch(t *testing.T) {
	web := &fakeWeb{
		enabled: true,
		results: []domain.WebResult{
			{Content: "Scholarship portal reopens in July.", Title: "News", URL: "https://example.edu/n", Score: 0.7},
		},
	}
	svc := New(&fakeStore{}, &fakeEmbedder{}, web, domain.DefaultCatalog(), 3)

	items := svc.WebSearch(context.Background(), "scholarship status", "exam_center")

	if web.lastQuery != "scholarship status college campus exam center" {
		t.Errorf("unexpected refined query: %q", web.lastQuery)
	}
	if web.lastLimit != 3 {
		t.Errorf("unexpected limit: %d", web.lastLimit)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Source() != domain.SourceWeb {
		t.Errorf("expected web source, got %s", items[0].Source())
	}
	if items[0].Topic() != "exam_center" {
		t.Errorf("expected topic stamp, got %s", items[0].Topic())
	}
	if items[0].Metadata()["url"] != "https://example.edu/n" {
		t.Errorf("expected url metadata, got %v", items[0].Metadata())
	}
}

func TestWebSearch_DisabledAndFailing(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		web := &fakeWeb{enabled: false}
		svc := New(&fakeStore{}, &fakeEmbedder{}, web, domain.DefaultCatalog(), 3)
		if items := svc.WebSearch(context.Background(), "q", "scholarship"); items != nil {
			t.Errorf("expected nil when disabled, got %v", items)
		}
		if web.calls != 0 {
			t.Error("disabled client must not be called")
		}
	})

	t.Run("provider error", func(t *testing.T) {
		web := &fakeWeb{enabled: true, err: errors.New("bad gateway")}
		svc := New(&fakeStore{}, &fakeEmbedder{}, web, domain.DefaultCatalog(), 3)
		if items := svc.WebSearch(context.Background(), "q", "scholarship"); items != nil {
			t.Errorf("expected nil on provider failure, got %v", items)
		}
	})
}

func TestRetrieveTopic_CombinesOrdered(t *testing.T) {
	store := &fakeStore{items: []domain.Evidence{
		dbEvidence("Apply on the MahaDBT portal before the deadline.", "scholarship"),
		dbEvidence("Income certificate is mandatory for freeship.", "scholarship"),
	}}
	web := &fakeWeb{
		enabled: true,
		results: []domain.WebResult{{Content: "Portal reopened this week.", Score: 0.6}},
	}
	svc := New(store, &fakeEmbedder{}, web, domain.DefaultCatalog(), 3)

	items := svc.RetrieveTopic(context.Background(), "scholarship", "scholarship application")

	if len(items) != 3 {
		t.Fatalf("expected 3 combined items, got %d", len(items))
	}
	// Database items precede web items.
	if items[0].Source() != domain.SourceDatabase || items[1].Source() != domain.SourceDatabase {
		t.Error("expected database items first")
	}
	if items[2].Source() != domain.SourceWeb {
		t.Error("expected web item last")
	}
}

func TestRetrieveTopic_WebOnlyForEligibleTopics(t *testing.T) {
	store := &fakeStore{items: []domain.Evidence{dbEvidence("Reading hall open till 10pm.", "library")}}
	web := &fakeWeb{enabled: true, results: []domain.WebResult{{Content: "irrelevant"}}}
	svc := New(store, &fakeEmbedder{}, web, domain.DefaultCatalog(), 3)

	items := svc.RetrieveTopic(context.Background(), "library", "library timings")

	if web.calls != 0 {
		t.Error("web search must not run for non-eligible topics")
	}
	if len(items) != 1 {
		t.Fatalf("expected database items only, got %d", len(items))
	}
}

func TestRetrieveTopic_BothSourcesEmpty(t *testing.T) {
	svc := New(&fakeStore{}, &fakeEmbedder{}, &fakeWeb{enabled: true}, domain.DefaultCatalog(), 3)

	items := svc.RetrieveTopic(context.Background(), "scholarship", "anything")
	if len(items) != 0 {
		t.Errorf("expected no items, got %d", len(items))
	}
}
