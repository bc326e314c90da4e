package discovery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

const searchFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:feedburner="http://rssnamespace.org/feedburner/ext/1.0">
<channel>
<title>Search results</title>
<item>
  <title>Origlink wins</title>
  <link>https://aggregator.test/redirect/a</link>
  <feedburner:origLink>https://publisher.test/a</feedburner:origLink>
</item>
<item>
  <title>GUID wins</title>
  <link>https://aggregator.test/redirect/b</link>
  <guid isPermaLink="false">https://publisher.test/b</guid>
</item>
<item>
  <title>Source wins over link</title>
  <link>https://aggregator.test/redirect/c</link>
  <guid isPermaLink="false">tag:not-a-url</guid>
  <source url="https://publisher.test/c">Publisher C</source>
</item>
<item>
  <title>Plain link</title>
  <link>https://publisher.test/d</link>
</item>
<item>
  <title>Duplicate of d</title>
  <link>https://publisher.test/d</link>
</item>
<item>
  <title>No usable link at all</title>
</item>
</channel>
</rss>`

func newFeedTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("q") == "" {
			t.Errorf("missing q parameter")
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFeedStrategyLinkPrecedence(t *testing.T) {
	t.Parallel()

	server := newFeedTestServer(t, searchFeedXML)
	strategy := NewFeedStrategy(FeedOptions{BaseURL: server.URL})

	candidates, err := strategy.Discover(context.Background(), "cyclone")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}

	want := []string{
		"https://publisher.test/a",
		"https://publisher.test/b",
		"https://publisher.test/c",
		"https://publisher.test/d",
	}
	got := candidateURLs(candidates)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected candidate order\nwant: %v\ngot:  %v", want, got)
	}

	for _, candidate := range candidates {
		if candidate.Source != SourceFeed {
			t.Fatalf("expected feed provenance, got %q", candidate.Source)
		}
	}
}

func TestFeedStrategyOrderingIsIdempotent(t *testing.T) {
	t.Parallel()

	server := newFeedTestServer(t, searchFeedXML)
	strategy := NewFeedStrategy(FeedOptions{BaseURL: server.URL})

	first, err := strategy.Discover(context.Background(), "cyclone")
	if err != nil {
		t.Fatalf("first discover: %v", err)
	}
	second, err := strategy.Discover(context.Background(), "cyclone")
	if err != nil {
		t.Fatalf("second discover: %v", err)
	}

	if !reflect.DeepEqual(candidateURLs(first), candidateURLs(second)) {
		t.Fatalf("discovery order changed between calls\nfirst:  %v\nsecond: %v",
			candidateURLs(first), candidateURLs(second))
	}
}

func TestFeedStrategyEmptyFeedIsNotAnError(t *testing.T) {
	t.Parallel()

	empty := `<?xml version="1.0"?><rss version="2.0"><channel><title>empty</title></channel></rss>`
	server := newFeedTestServer(t, empty)
	strategy := NewFeedStrategy(FeedOptions{BaseURL: server.URL})

	candidates, err := strategy.Discover(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(candidates) != 0 {
		t.Fatalf("expected no candidates, got %v", candidateURLs(candidates))
	}
}

func TestFeedStrategyHTTPErrorIsReported(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	t.Cleanup(server.Close)

	strategy := NewFeedStrategy(FeedOptions{BaseURL: server.URL})
	if _, err := strategy.Discover(context.Background(), "cyclone"); err == nil {
		t.Fatalf("expected error for HTTP 503")
	}
}

func candidateURLs(candidates []CandidateURL) []string {
	urls := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		urls = append(urls, candidate.URL)
	}
	return urls
}
