// Package discovery finds candidate article URLs for a keyword. Two
// interchangeable strategies search the news aggregator: a structured
// feed search and an HTML search-results scrape used only when the feed
// comes back empty. A third, SerpAPI, replaces both in deployments that
// have an API key; it returns article records directly and needs no
// extraction step.
package discovery

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// Provenance values recorded on candidates.
const (
	SourceFeed    = "feed"
	SourceHTML    = "html"
	SourceSerpAPI = "serpapi"
)

// CandidateURL is one discovered URL plus the strategy that produced it.
// Candidates live only for the duration of a discovery call.
type CandidateURL struct {
	URL    string
	Source string
}

// Strategy produces an ordered, deduplicated list of candidate URLs for
// one keyword. An empty result is a valid terminal outcome, not an error.
type Strategy interface {
	Discover(ctx context.Context, keyword string) ([]CandidateURL, error)
}

// Discoverer composes the feed strategy with the HTML fallback: the
// fallback runs only when the feed yields zero candidates; the two result
// sets are never merged.
type Discoverer struct {
	feed   Strategy
	html   Strategy
	logger zerolog.Logger
}

func NewDiscoverer(feed, html Strategy, logger zerolog.Logger) *Discoverer {
	return &Discoverer{
		feed:   feed,
		html:   html,
		logger: logger,
	}
}

// Discover returns candidate URLs for keyword in source-ranked order.
// Strategy failures degrade to an empty result; callers translate an
// empty batch into a "try different keywords" outcome.
func (d *Discoverer) Discover(ctx context.Context, keyword string) ([]CandidateURL, error) {
	candidates, err := d.feed.Discover(ctx, keyword)
	if err != nil {
		d.logger.Warn().Err(err).Str("keyword", keyword).Msg("feed discovery failed, trying HTML fallback")
		candidates = nil
	}
	if len(candidates) > 0 {
		return candidates, nil
	}

	d.logger.Debug().Str("keyword", keyword).Msg("feed discovery empty, using HTML search fallback")

	candidates, err = d.html.Discover(ctx, keyword)
	if err != nil {
		d.logger.Warn().Err(err).Str("keyword", keyword).Msg("HTML discovery failed")
		return nil, nil
	}
	return candidates, nil
}

// dedupe drops repeated URLs while preserving first-seen order.
func dedupe(candidates []CandidateURL) []CandidateURL {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]CandidateURL, 0, len(candidates))
	for _, candidate := range candidates {
		trimmed := strings.TrimSpace(candidate.URL)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		candidate.URL = trimmed
		out = append(out, candidate)
	}
	return out
}
