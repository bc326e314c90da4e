// Package store persists articles keyed by canonical URL. Two backends
// implement the same interface: a Supabase PostgREST client and a direct
// Postgres connection through GORM. Both enforce URL uniqueness and
// report a second insert of the same URL as ErrDuplicate so callers can
// treat it as "already have it".
package store

import (
	"context"
	"errors"

	"github.com/ideaforge/newsminer/internal/article"
)

// Persistence caps, tighter than the extraction caps to keep stored rows
// and downstream prompts small.
const (
	StoredTitleChars   = 500
	StoredSummaryChars = 2000
	StoredSnippetChars = 300
	StoredRawChars     = 20000
)

var (
	// ErrDuplicate reports that a row with the same URL already exists.
	// Callers must treat it as a benign duplicate signal, not a failure.
	ErrDuplicate = errors.New("article already exists")

	// ErrNotFound reports that no row matched the lookup.
	ErrNotFound = errors.New("article not found")
)

// ArticleStore is the persisted article store contract.
type ArticleStore interface {
	// Insert writes one article and returns the stored representation.
	// Inserting a URL that already exists returns ErrDuplicate.
	Insert(ctx context.Context, a article.Article) (article.Article, error)

	// ByURL fetches the article with exactly this canonical URL.
	ByURL(ctx context.Context, url string) (article.Article, error)

	// All fetches every stored article.
	All(ctx context.Context) ([]article.Article, error)

	// Recent fetches the n most recently stored articles, newest first.
	Recent(ctx context.Context, n int) ([]article.Article, error)
}

// clipForStorage applies the persistence caps before a row is written.
func clipForStorage(a article.Article) article.Article {
	a.Title = article.Clip(a.Title, StoredTitleChars)
	a.Summary = article.Clip(a.Summary, StoredSummaryChars)
	a.Snippet = article.Clip(a.Snippet, StoredSnippetChars)
	a.RawContent = article.Clip(a.RawContent, StoredRawChars)
	return a
}
