// Package pipeline composes the acquisition stages into the full
// keyword-to-ideas flow: expand seed keywords, discover and extract
// articles per keyword, rank them against the keyword, persist the
// survivors, and synthesize ideas from the stored batch.
package pipeline

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ideaforge/newsminer/internal/article"
	"github.com/ideaforge/newsminer/internal/config"
	"github.com/ideaforge/newsminer/internal/ideas"
	"github.com/ideaforge/newsminer/internal/rank"
	"github.com/ideaforge/newsminer/internal/scraper"
)

// NoArticlesMessage is the explicit user-facing outcome when neither
// discovery nor extraction produced anything for any keyword.
const NoArticlesMessage = "No articles found, try different keywords."

// KeywordExpander expands seed keywords into a fixed-size related set.
type KeywordExpander interface {
	ExpandKeywords(ctx context.Context, seeds []string) ([]string, error)
}

// ArticleSearcher returns ready-made article records for a keyword
// (the SerpAPI strategy, which needs no extraction step).
type ArticleSearcher interface {
	Search(ctx context.Context, keyword string) ([]article.Article, error)
}

// Pipeline wires the stages together. The searcher is non-nil only in
// SerpAPI deployments, where it replaces discover-then-extract entirely.
type Pipeline struct {
	expander  KeywordExpander
	scrape    *scraper.Scraper
	searcher  ArticleSearcher
	ranker    *rank.Ranker
	generator *ideas.Generator

	rankPolicy    string
	topK          int
	minSimilarity float64

	logger zerolog.Logger
}

type Options struct {
	Expander  KeywordExpander
	Scraper   *scraper.Scraper
	Searcher  ArticleSearcher
	Ranker    *rank.Ranker
	Generator *ideas.Generator

	RankPolicy    string
	TopK          int
	MinSimilarity float64
}

func New(opts Options, logger zerolog.Logger) *Pipeline {
	topK := opts.TopK
	if topK <= 0 {
		topK = scraper.DefaultFetchLimit
	}
	policy := strings.TrimSpace(opts.RankPolicy)
	if policy == "" {
		policy = config.RankTopK
	}
	minSimilarity := opts.MinSimilarity
	if minSimilarity == 0 {
		minSimilarity = rank.DefaultMinSimilarity
	}

	return &Pipeline{
		expander:      opts.Expander,
		scrape:        opts.Scraper,
		searcher:      opts.Searcher,
		ranker:        opts.Ranker,
		generator:     opts.Generator,
		rankPolicy:    policy,
		topK:          topK,
		minSimilarity: minSimilarity,
		logger:        logger,
	}
}

// Expand returns the fixed-size expanded keyword set for the seeds.
func (p *Pipeline) Expand(ctx context.Context, seeds []string) ([]string, error) {
	return p.expander.ExpandKeywords(ctx, seeds)
}

// ScrapeKeyword acquires and ranks articles for one keyword. With the
// SerpAPI searcher configured the API's inline summaries are used
// directly; otherwise feed/HTML discovery feeds the extraction batch.
// The result can legitimately be empty.
func (p *Pipeline) ScrapeKeyword(ctx context.Context, keyword string) ([]article.Article, error) {
	var (
		batch []article.Article
		err   error
	)
	if p.searcher != nil {
		batch, err = p.searcher.Search(ctx, keyword)
		if err != nil {
			p.logger.Warn().Err(err).Str("keyword", keyword).Msg("search API failed")
			return nil, nil
		}
	} else {
		batch, err = p.scrape.SearchAndScrape(ctx, keyword)
		if err != nil {
			return nil, err
		}
	}
	if len(batch) == 0 {
		return nil, nil
	}

	if p.ranker == nil {
		return batch, nil
	}
	if p.rankPolicy == config.RankThreshold {
		return p.ranker.RankThreshold(ctx, keyword, batch, p.topK, p.minSimilarity), nil
	}
	return p.ranker.Rank(ctx, keyword, batch, p.topK), nil
}

// ScrapeAll runs ScrapeKeyword sequentially over keywords and
// concatenates the batches. Keyword pipelines share no state, so the
// caller could run them concurrently; sequential keeps outbound request
// pressure predictable.
func (p *Pipeline) ScrapeAll(ctx context.Context, keywords []string) ([]article.Article, error) {
	var all []article.Article
	for _, keyword := range keywords {
		batch, err := p.ScrapeKeyword(ctx, keyword)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
	}
	return all, nil
}

// Persist stores articles, counting duplicates as already-saved rather
// than failures. Returns how many were accepted (new or duplicate).
func (p *Pipeline) Persist(ctx context.Context, articles []article.Article) int {
	saved := 0
	for _, a := range articles {
		if err := p.generator.SaveArticle(ctx, a); err != nil {
			p.logger.Warn().Err(err).Str("url", a.URL).Msg("failed to persist article")
			continue
		}
		saved++
	}
	return saved
}

// Ideas synthesizes idea suggestions from the stored article batch.
func (p *Pipeline) Ideas(ctx context.Context) ([]string, error) {
	return p.generator.Generate(ctx)
}

// Result is the outcome of a full pipeline run.
type Result struct {
	SeedKeywords     []string `json:"seed_keywords"`
	ExpandedKeywords []string `json:"expanded_keywords"`
	SavedArticles    int      `json:"saved_articles"`
	Ideas            []string `json:"ideas"`
	Message          string   `json:"message,omitempty"`
}

// Run executes the full flow: expand, scrape each expanded keyword,
// persist, generate ideas.
func (p *Pipeline) Run(ctx context.Context, seeds []string) (Result, error) {
	expanded, err := p.Expand(ctx, seeds)
	if err != nil {
		return Result{}, err
	}

	articles, err := p.ScrapeAll(ctx, expanded)
	if err != nil {
		return Result{}, err
	}

	saved := p.Persist(ctx, articles)

	generated, err := p.Ideas(ctx)
	if err != nil {
		return Result{}, err
	}

	result := Result{
		SeedKeywords:     seeds,
		ExpandedKeywords: expanded,
		SavedArticles:    saved,
		Ideas:            generated,
	}
	if len(articles) == 0 {
		result.Message = NoArticlesMessage
	}
	return result, nil
}
