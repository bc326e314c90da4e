package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSerpAPISearchMapsResultsToArticles(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("engine") != "google_news" {
			t.Errorf("unexpected engine: %q", query.Get("engine"))
		}
		if query.Get("api_key") != "test-key" {
			t.Errorf("missing api_key")
		}
		if query.Get("q") != "cyclone" {
			t.Errorf("unexpected q: %q", query.Get("q"))
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"news_results": [
				{"title": "Storm nears coast", "link": "https%3A%2F%2Fpublisher.test%2Fstorm", "snippet": "Evacuations have begun."},
				{"title": "Duplicate", "link": "https://publisher.test/storm", "snippet": "same link"},
				{"title": "No link", "snippet": "dropped"},
				{"title": "Second", "link": "https://publisher.test/second", "snippet": "More coverage."}
			]
		}`))
	}))
	t.Cleanup(server.Close)

	strategy, err := NewSerpAPIStrategy("test-key", SerpAPIOptions{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("build strategy: %v", err)
	}

	articles, err := strategy.Search(context.Background(), "cyclone")
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(articles))
	}
	if articles[0].URL != "https://publisher.test/storm" {
		t.Fatalf("expected percent-decoded link, got %q", articles[0].URL)
	}
	if articles[0].Summary != "Evacuations have begun." {
		t.Fatalf("expected snippet to stand in for summary, got %q", articles[0].Summary)
	}
	if articles[0].Snippet != "Evacuations have begun." {
		t.Fatalf("unexpected snippet: %q", articles[0].Snippet)
	}
	if articles[0].RawContent != "" {
		t.Fatalf("search API articles must not carry raw content")
	}
	if articles[1].URL != "https://publisher.test/second" {
		t.Fatalf("unexpected second article URL: %q", articles[1].URL)
	}
}

func TestSerpAPIRequiresKey(t *testing.T) {
	t.Parallel()

	if _, err := NewSerpAPIStrategy("  ", SerpAPIOptions{}); err == nil {
		t.Fatalf("expected error for missing API key")
	}
}

func TestSerpAPIDiscoverYieldsCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"news_results": [{"title": "One", "link": "https://publisher.test/one", "snippet": "s"}]}`))
	}))
	t.Cleanup(server.Close)

	strategy, err := NewSerpAPIStrategy("test-key", SerpAPIOptions{BaseURL: server.URL})
	if err != nil {
		t.Fatalf("build strategy: %v", err)
	}

	candidates, err := strategy.Discover(context.Background(), "anything")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(candidates) != 1 || candidates[0].Source != SourceSerpAPI {
		t.Fatalf("unexpected candidates: %+v", candidates)
	}
}
