package scraper

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ideaforge/newsminer/internal/article"
	"github.com/ideaforge/newsminer/internal/discovery"
)

// Discoverer produces candidate URLs for a keyword.
type Discoverer interface {
	Discover(ctx context.Context, keyword string) ([]discovery.CandidateURL, error)
}

// Scraper composes discovery with batched extraction.
type Scraper struct {
	discoverer Discoverer
	fetcher    *Fetcher
	limit      int
	logger     zerolog.Logger
}

func NewScraper(discoverer Discoverer, fetcher *Fetcher, limit int, logger zerolog.Logger) *Scraper {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	return &Scraper{
		discoverer: discoverer,
		fetcher:    fetcher,
		limit:      limit,
		logger:     logger,
	}
}

// SearchAndScrape discovers candidate URLs for keyword and extracts the
// top ones. An empty result means "no candidates for this keyword" and
// callers should try different keywords, not treat it as a failure.
func (s *Scraper) SearchAndScrape(ctx context.Context, keyword string) ([]article.Article, error) {
	candidates, err := s.discoverer.Discover(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		s.logger.Info().Str("keyword", keyword).Msg("no candidate URLs found")
		return nil, nil
	}

	urls := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		urls = append(urls, candidate.URL)
	}

	return s.fetcher.FetchBatch(ctx, urls, s.limit), nil
}
