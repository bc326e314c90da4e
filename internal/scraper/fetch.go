package scraper

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/ideaforge/newsminer/internal/article"
)

// DefaultFetchLimit caps how many candidate URLs one batch attempts, to
// bound outbound request volume and the latency tail.
const DefaultFetchLimit = 5

// ArticleExtractor extracts one URL into an article record.
type ArticleExtractor interface {
	Extract(ctx context.Context, url string) (article.Article, error)
}

// KnownChecker reports whether a URL already exists in the persisted
// store. A nil checker disables the pre-check.
type KnownChecker interface {
	IsKnown(ctx context.Context, url string) (bool, error)
}

// Fetcher runs content extraction over a bounded batch of candidate URLs
// concurrently. One failing URL never aborts or drops the rest of the
// batch, so the number of successful articles can legitimately be zero.
type Fetcher struct {
	extractor ArticleExtractor
	known     KnownChecker
	logger    zerolog.Logger
}

func NewFetcher(extractor ArticleExtractor, known KnownChecker, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		extractor: extractor,
		known:     known,
		logger:    logger,
	}
}

// FetchBatch attempts the first limit URLs in discovery order. URLs the
// store already knows are skipped before extraction — a skip, not a
// failure. The remaining URLs are extracted in parallel, one goroutine
// per URL with a per-slot result, so the output is the successes in
// input order regardless of completion order.
func (f *Fetcher) FetchBatch(ctx context.Context, urls []string, limit int) []article.Article {
	if limit <= 0 {
		limit = DefaultFetchLimit
	}
	if len(urls) > limit {
		urls = urls[:limit]
	}

	pending := make([]string, 0, len(urls))
	for _, candidate := range urls {
		if f.known != nil {
			seen, err := f.known.IsKnown(ctx, candidate)
			if err != nil {
				// Fail open: a broken lookup costs at most one
				// duplicate extraction, which the store's unique
				// constraint absorbs at insert time.
				f.logger.Warn().Err(err).Str("url", candidate).Msg("dedup lookup failed, extracting anyway")
			} else if seen {
				f.logger.Debug().Str("url", candidate).Msg("skipping already stored URL")
				continue
			}
		}
		pending = append(pending, candidate)
	}

	results := make([]*article.Article, len(pending))

	var wg sync.WaitGroup
	for i, candidate := range pending {
		wg.Add(1)
		go func(slot int, pageURL string) {
			defer wg.Done()

			extracted, err := f.extractor.Extract(ctx, pageURL)
			if err != nil {
				f.logger.Warn().Err(err).Str("url", pageURL).Msg("article extraction failed")
				return
			}
			results[slot] = &extracted
		}(i, candidate)
	}
	wg.Wait()

	articles := make([]article.Article, 0, len(pending))
	for _, result := range results {
		if result != nil {
			articles = append(articles, *result)
		}
	}
	return articles
}
