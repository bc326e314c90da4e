// Package ideas turns recently stored articles into fresh article ideas
// via the generative model.
package ideas

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ideaforge/newsminer/internal/article"
	"github.com/ideaforge/newsminer/internal/store"
)

const (
	// DefaultRecentLimit bounds how many stored articles feed one
	// prompt; loading the whole table would blow up prompt size.
	DefaultRecentLimit = 20

	// contextSummaryChars caps each article's summary inside the
	// prompt context.
	contextSummaryChars = 400

	maxIdeas = 10
)

// NoArticlesMessage is the user-facing response when the store is empty.
const NoArticlesMessage = "No articles found. Please scrape first."

// Prompter is the slice of the generative client the generator needs.
type Prompter interface {
	RawPrompt(ctx context.Context, prompt string) (string, error)
}

type Generator struct {
	store       store.ArticleStore
	llm         Prompter
	recentLimit int
	logger      zerolog.Logger
}

func NewGenerator(articleStore store.ArticleStore, llm Prompter, recentLimit int, logger zerolog.Logger) *Generator {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	return &Generator{
		store:       articleStore,
		llm:         llm,
		recentLimit: recentLimit,
		logger:      logger,
	}
}

// SaveArticle persists one article. A duplicate URL is "already have
// it", not a failure: the insert-time conflict is the second line of
// dedup defense behind the fetch orchestrator's pre-check.
func (g *Generator) SaveArticle(ctx context.Context, a article.Article) error {
	_, err := g.store.Insert(ctx, a)
	if errors.Is(err, store.ErrDuplicate) {
		g.logger.Debug().Str("url", a.URL).Msg("article already stored")
		return nil
	}
	if err != nil {
		return fmt.Errorf("save article: %w", err)
	}
	return nil
}

// Generate builds idea suggestions from the most recent stored articles.
// An empty store yields the explicit no-input message rather than an
// error or a blank response.
func (g *Generator) Generate(ctx context.Context) ([]string, error) {
	articles, err := g.store.Recent(ctx, g.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("load recent articles: %w", err)
	}
	if len(articles) == 0 {
		return []string{NoArticlesMessage}, nil
	}

	prompt := buildPrompt(articles)

	ideasText, err := g.llm.RawPrompt(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate ideas: %w", err)
	}

	ideas := parseIdeas(ideasText)
	if len(ideas) > maxIdeas {
		ideas = ideas[:maxIdeas]
	}
	return ideas, nil
}

func buildPrompt(articles []article.Article) string {
	parts := make([]string, 0, len(articles))
	for _, a := range articles {
		parts = append(parts, fmt.Sprintf(
			"Title: %s\nSummary: %s",
			strings.TrimSpace(a.Title),
			article.Clip(a.Summary, contextSummaryChars),
		))
	}

	return "Use the following news article summaries to generate 5 fresh, " +
		"unique, trending news article ideas.\n" +
		"Keep ideas short, clear, and interesting.\n\n" +
		strings.Join(parts, "\n\n")
}

// parseIdeas splits the model output into one idea per line, stripping
// bullet glyphs.
func parseIdeas(text string) []string {
	lines := strings.Split(text, "\n")
	ideas := make([]string, 0, len(lines))
	for _, line := range lines {
		idea := strings.TrimSpace(strings.Trim(strings.TrimSpace(line), "•-● "))
		if idea != "" {
			ideas = append(ideas, idea)
		}
	}
	return ideas
}
