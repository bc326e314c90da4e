package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ideaforge/newsminer/internal/config"
	"github.com/ideaforge/newsminer/internal/dedup"
	"github.com/ideaforge/newsminer/internal/discovery"
	"github.com/ideaforge/newsminer/internal/gemini"
	"github.com/ideaforge/newsminer/internal/ideas"
	"github.com/ideaforge/newsminer/internal/pipeline"
	"github.com/ideaforge/newsminer/internal/rank"
	"github.com/ideaforge/newsminer/internal/scraper"
	"github.com/ideaforge/newsminer/internal/store"
)

// components holds everything a command needs, plus a cleanup hook.
type components struct {
	pipeline *pipeline.Pipeline
	store    store.ArticleStore
	close    func()
}

func buildComponents(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*components, error) {
	articleStore, closeStore, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	geminiClient, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		closeStore()
		return nil, fmt.Errorf("build gemini client: %w", err)
	}

	extractor := scraper.NewExtractor(scraper.ExtractorOptions{
		Timeout:        cfg.FetchTimeout,
		DetectLanguage: cfg.DetectLanguage,
	})
	fetcher := scraper.NewFetcher(extractor, dedup.NewGate(articleStore), logger)

	feed := discovery.NewFeedStrategy(discovery.FeedOptions{
		Region:   cfg.SearchRegion,
		Language: cfg.SearchLanguage,
		Timeout:  cfg.SearchTimeout,
	})
	html := discovery.NewHTMLStrategy(discovery.HTMLOptions{
		Region:   cfg.SearchRegion,
		Language: cfg.SearchLanguage,
		Timeout:  cfg.SearchTimeout,
	})
	discoverer := discovery.NewDiscoverer(feed, html, logger)
	scrape := scraper.NewScraper(discoverer, fetcher, cfg.FetchLimit, logger)

	var searcher pipeline.ArticleSearcher
	if strings.EqualFold(cfg.DiscoveryStrategy, config.StrategySerpAPI) {
		serp, err := discovery.NewSerpAPIStrategy(cfg.SerpAPIKey, discovery.SerpAPIOptions{
			Engine:   cfg.SerpAPIEngine,
			Region:   cfg.SearchRegion,
			Language: cfg.SearchLanguage,
			Timeout:  cfg.SearchTimeout,
		})
		if err != nil {
			geminiClient.Close()
			closeStore()
			return nil, fmt.Errorf("build search API strategy: %w", err)
		}
		searcher = serp
	}

	ranker := rank.NewRanker(rank.NewEmbeddingClient(rank.EmbeddingOptions{
		Endpoint: cfg.EmbeddingEndpoint,
		Model:    cfg.EmbeddingModel,
		Timeout:  cfg.EmbeddingTimeout,
	}), logger)

	generator := ideas.NewGenerator(articleStore, geminiClient, cfg.RecentArticles, logger)

	p := pipeline.New(pipeline.Options{
		Expander:      geminiClient,
		Scraper:       scrape,
		Searcher:      searcher,
		Ranker:        ranker,
		Generator:     generator,
		RankPolicy:    cfg.RankPolicy,
		TopK:          cfg.RankTopK,
		MinSimilarity: cfg.MinSimilarity,
	}, logger)

	return &components{
		pipeline: p,
		store:    articleStore,
		close: func() {
			geminiClient.Close()
			closeStore()
		},
	}, nil
}

func buildStore(ctx context.Context, cfg *config.Config) (store.ArticleStore, func(), error) {
	switch strings.ToLower(strings.TrimSpace(cfg.StoreBackend)) {
	case config.StorePostgres:
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres store: %w", err)
		}
		return pg, func() { _ = pg.Close() }, nil
	default:
		supabase, err := store.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, store.SupabaseOptions{})
		if err != nil {
			return nil, nil, fmt.Errorf("build supabase store: %w", err)
		}
		return supabase, func() {}, nil
	}
}
