// Package dedup answers "have we already stored this URL" before
// extraction work is spent on it.
package dedup

import (
	"context"
	"errors"

	"github.com/ideaforge/newsminer/internal/store"
)

// Gate checks candidate URLs against the persisted store's url column.
// It is a pre-check optimization: the store's unique constraint remains
// the authority, so callers still treat an insert-time ErrDuplicate as
// "already have it".
type Gate struct {
	store store.ArticleStore
}

func NewGate(s store.ArticleStore) *Gate {
	return &Gate{store: s}
}

// IsKnown reports whether url already exists in the store. A lookup
// error is returned to the caller, which decides whether to fail open.
func (g *Gate) IsKnown(ctx context.Context, url string) (bool, error) {
	if g == nil || g.store == nil {
		return false, nil
	}

	_, err := g.store.ByURL(ctx, url)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}
