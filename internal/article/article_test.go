package article

import (
	"strings"
	"testing"
)

func TestClip(t *testing.T) {
	t.Parallel()

	if got := Clip("  hello world  ", 0); got != "hello world" {
		t.Fatalf("expected trim only with zero cap, got %q", got)
	}
	if got := Clip("abcdefghij", 4); got != "abcd" {
		t.Fatalf("unexpected clipped text: %q", got)
	}
	if got := Clip("short", 10); got != "short" {
		t.Fatalf("expected text under cap unchanged, got %q", got)
	}

	// Rune-safe: multi-byte characters are not split.
	clipped := Clip(strings.Repeat("ü", 10), 3)
	if clipped != "üüü" {
		t.Fatalf("unexpected multi-byte clip: %q", clipped)
	}
}

func TestScoringDocument(t *testing.T) {
	t.Parallel()

	a := Article{Title: "Cyclone nears coast", Summary: "Evacuations underway."}
	if got := a.ScoringDocument(); got != "Cyclone nears coast Evacuations underway." {
		t.Fatalf("unexpected scoring document: %q", got)
	}

	missing := Article{Title: "Only title"}
	if got := missing.ScoringDocument(); got != "Only title" {
		t.Fatalf("expected missing summary treated as empty, got %q", got)
	}

	empty := Article{}
	if got := empty.ScoringDocument(); got != "" {
		t.Fatalf("expected empty document, got %q", got)
	}
}
