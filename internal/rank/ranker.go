package rank

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/ideaforge/newsminer/internal/article"
)

// DefaultMinSimilarity is the similarity bar for the thresholded policy.
const DefaultMinSimilarity = 0.36

// Ranker scores articles against a keyword by cosine similarity of their
// embeddings and returns the top-K. Ranking is a quality enhancement,
// not a correctness requirement: when the embedding side fails, the
// ranker degrades to the first K articles unranked instead of failing
// the request.
type Ranker struct {
	embedder Embedder
	logger   zerolog.Logger
}

func NewRanker(embedder Embedder, logger zerolog.Logger) *Ranker {
	return &Ranker{
		embedder: embedder,
		logger:   logger,
	}
}

// rankedArticle pairs an article with its cosine score in [-1, 1]. It
// never leaves this package; callers receive bare articles.
type rankedArticle struct {
	article article.Article
	score   float64
}

// Rank returns the min(topK, len(articles)) most relevant articles in
// descending similarity order, regardless of absolute score.
func (r *Ranker) Rank(ctx context.Context, keyword string, articles []article.Article, topK int) []article.Article {
	return r.rank(ctx, keyword, articles, topK, math.Inf(-1))
}

// RankThreshold returns at most topK articles whose similarity meets
// minScore. Unlike Rank it can come back empty even when articles were
// supplied; the two policies must not be conflated.
func (r *Ranker) RankThreshold(ctx context.Context, keyword string, articles []article.Article, topK int, minScore float64) []article.Article {
	return r.rank(ctx, keyword, articles, topK, minScore)
}

func (r *Ranker) rank(ctx context.Context, keyword string, articles []article.Article, topK int, minScore float64) []article.Article {
	if len(articles) == 0 || topK <= 0 {
		return nil
	}

	ranked, err := r.score(ctx, keyword, articles)
	if err != nil {
		// Degraded mode: unranked passthrough of the first topK.
		// Logged rather than flagged to the caller, since callers
		// hold no lever to pull beyond retrying the whole request.
		r.logger.Warn().Err(err).Str("keyword", keyword).Msg("embedding failed, returning unranked articles")
		if len(articles) > topK {
			articles = articles[:topK]
		}
		return articles
	}

	// Stable: equal scores keep input order, so identical inputs yield
	// identical output.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	out := make([]article.Article, 0, topK)
	for _, candidate := range ranked {
		if len(out) == topK {
			break
		}
		if candidate.score < minScore {
			continue
		}
		out = append(out, candidate.article)
	}
	return out
}

// score embeds the keyword and every scoring document in one batch with
// the same model, then computes cosine similarity per article.
func (r *Ranker) score(ctx context.Context, keyword string, articles []article.Article) ([]rankedArticle, error) {
	texts := make([]string, 0, len(articles)+1)
	texts = append(texts, keyword)
	for _, a := range articles {
		texts = append(texts, a.ScoringDocument())
	}

	vectors, err := r.embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	keywordVec := vectors[0]
	ranked := make([]rankedArticle, 0, len(articles))
	for i, a := range articles {
		ranked = append(ranked, rankedArticle{
			article: a,
			score:   cosineSimilarity(keywordVec, vectors[i+1]),
		})
	}
	return ranked, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// in [-1, 1]. Mismatched dimensions or a zero vector score 0.
func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
