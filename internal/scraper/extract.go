// Package scraper retrieves article pages and turns them into structured
// article records: a readability pass isolates the main content, and a
// fan-out orchestrator runs extraction over a bounded batch of candidate
// URLs while tolerating individual failures.
package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "codeberg.org/readeck/go-readability/v2"

	"github.com/ideaforge/newsminer/internal/article"
	"github.com/ideaforge/newsminer/internal/langdetect"
	"github.com/ideaforge/newsminer/internal/urlx"
)

const (
	DefaultFetchTimeout  = 20 * time.Second
	DefaultBodyByteLimit = 2 * 1024 * 1024

	defaultUserAgent = "Mozilla/5.0"

	// Title used when the readability pass finds no document title.
	untitledArticle = "Untitled Article"

	snippetSentences = 2
)

// ExtractorOptions controls HTTP behavior and field caps for extraction.
// Zero values fall back to the package defaults, so tests can override
// individual limits without restating the rest.
type ExtractorOptions struct {
	Timeout        time.Duration
	BodyByteLimit  int64
	UserAgent      string
	HTTPClient     *http.Client
	TitleChars     int
	SummaryChars   int
	SnippetChars   int
	DetectLanguage bool
}

// Extractor fetches a single URL and produces an article record.
type Extractor struct {
	opts ExtractorOptions
}

func NewExtractor(opts ExtractorOptions) *Extractor {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultFetchTimeout
	}
	if opts.BodyByteLimit <= 0 {
		opts.BodyByteLimit = DefaultBodyByteLimit
	}
	if strings.TrimSpace(opts.UserAgent) == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.TitleChars <= 0 {
		opts.TitleChars = article.MaxTitleChars
	}
	if opts.SummaryChars <= 0 {
		opts.SummaryChars = article.MaxSummaryChars
	}
	if opts.SnippetChars <= 0 {
		opts.SnippetChars = article.MaxSnippetChars
	}
	return &Extractor{opts: opts}
}

// Extract resolves rawURL to its canonical address, retrieves the page,
// and isolates the primary article content. Network errors, non-2xx
// responses, and pages without an identifiable main-content region all
// come back as errors; the batch orchestrator recovers from them per URL.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (article.Article, error) {
	canonical := urlx.Resolve(rawURL)

	fetchCtx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, canonical, nil)
	if err != nil {
		return article.Article{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", e.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := e.opts.HTTPClient.Do(req)
	if err != nil {
		return article.Article{}, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return article.Article{}, fmt.Errorf("fetch status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.opts.BodyByteLimit))
	if err != nil {
		return article.Article{}, fmt.Errorf("read body: %w", err)
	}

	pageURL, err := url.Parse(canonical)
	if err != nil {
		return article.Article{}, fmt.Errorf("parse page url: %w", err)
	}

	doc, err := readability.FromReader(bytes.NewReader(body), pageURL)
	if err != nil {
		return article.Article{}, fmt.Errorf("readability parse: %w", err)
	}

	var rendered bytes.Buffer
	if err := doc.RenderText(&rendered); err != nil {
		return article.Article{}, fmt.Errorf("render readability text: %w", err)
	}

	text := flattenText(rendered.String())
	if text == "" {
		text = flattenText(doc.Excerpt())
	}
	if text == "" {
		return article.Article{}, fmt.Errorf("readability extracted empty content")
	}

	title := strings.TrimSpace(doc.Title())
	if title == "" {
		title = untitledArticle
	}

	result := article.Article{
		URL:        canonical,
		Title:      article.Clip(title, e.opts.TitleChars),
		Summary:    article.Clip(text, e.opts.SummaryChars),
		Snippet:    article.Clip(deriveSnippet(text), e.opts.SnippetChars),
		RawContent: string(body),
	}
	if e.opts.DetectLanguage {
		result.Language = langdetect.DetectISO6391(text)
	}
	return result, nil
}

// flattenText collapses all whitespace runs into single spaces.
func flattenText(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// deriveSnippet takes the first two sentence-delimited segments of text.
// Splitting on ". " is a best-effort heuristic, not real sentence
// segmentation: abbreviations and missing final periods fool it, which
// is acceptable for a preview string.
func deriveSnippet(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	segments := strings.SplitN(trimmed, ". ", snippetSentences+1)
	if len(segments) > snippetSentences {
		segments = segments[:snippetSentences]
	}

	snippet := strings.TrimSpace(strings.Join(segments, ". "))
	snippet = strings.TrimSuffix(snippet, ".")
	return snippet + "."
}
