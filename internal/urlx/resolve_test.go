package urlx

import "testing"

func TestResolveExtractsEmbeddedURL(t *testing.T) {
	t.Parallel()

	got := Resolve("https://news.google.com/rss/articles/abc?url=https%3A%2F%2Fexample.com%2Fa")
	if got != "https://example.com/a" {
		t.Fatalf("unexpected resolved URL: got %q want %q", got, "https://example.com/a")
	}
}

func TestResolvePassesThroughPlainURL(t *testing.T) {
	t.Parallel()

	input := "https://example.com/a"
	if got := Resolve(input); got != input {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestResolveIgnoresOtherQueryParams(t *testing.T) {
	t.Parallel()

	input := "https://example.com/a?ref=homepage&utm_source=feed"
	if got := Resolve(input); got != input {
		t.Fatalf("expected input unchanged, got %q", got)
	}
}

func TestResolveNeverFails(t *testing.T) {
	t.Parallel()

	input := "::not a url::"
	if got := Resolve(input); got != input {
		t.Fatalf("expected malformed input returned unchanged, got %q", got)
	}
}
