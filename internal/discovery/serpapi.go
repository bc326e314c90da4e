package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ideaforge/newsminer/internal/article"
	"github.com/ideaforge/newsminer/internal/urlx"
)

const (
	DefaultSerpAPIBaseURL = "https://serpapi.com/search.json"
	DefaultSerpAPIEngine  = "google_news"
)

// SerpAPIStrategy queries a third-party search API. Unlike the feed and
// HTML strategies it returns article records directly: the API supplies
// title and snippet inline, so no extraction step runs and the snippet
// stands in for the summary.
type SerpAPIStrategy struct {
	baseURL    string
	apiKey     string
	engine     string
	region     string
	language   string
	httpClient *http.Client
}

type SerpAPIOptions struct {
	BaseURL    string
	Engine     string
	Region     string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewSerpAPIStrategy(apiKey string, opts SerpAPIOptions) (*SerpAPIStrategy, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("SerpAPI key is required")
	}

	base := strings.TrimSpace(opts.BaseURL)
	if base == "" {
		base = DefaultSerpAPIBaseURL
	}
	engine := strings.TrimSpace(opts.Engine)
	if engine == "" {
		engine = DefaultSerpAPIEngine
	}
	region := strings.TrimSpace(opts.Region)
	if region == "" {
		region = "IN"
	}
	language := strings.TrimSpace(opts.Language)
	if language == "" {
		language = "en"
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &SerpAPIStrategy{
		baseURL:    base,
		apiKey:     apiKey,
		engine:     engine,
		region:     region,
		language:   language,
		httpClient: client,
	}, nil
}

type serpAPIResponse struct {
	NewsResults []serpAPIResult `json:"news_results"`
}

type serpAPIResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Search maps each API result straight into an article record.
func (s *SerpAPIStrategy) Search(ctx context.Context, keyword string) ([]article.Article, error) {
	params := url.Values{}
	params.Set("engine", s.engine)
	params.Set("q", keyword)
	params.Set("gl", s.region)
	params.Set("hl", s.language)
	params.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search API request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search API status %d", resp.StatusCode)
	}

	var parsed serpAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search API response: %w", err)
	}

	seen := make(map[string]struct{}, len(parsed.NewsResults))
	articles := make([]article.Article, 0, len(parsed.NewsResults))
	for _, result := range parsed.NewsResults {
		link := resultLink(result.Link)
		if link == "" {
			continue
		}
		if _, exists := seen[link]; exists {
			continue
		}
		seen[link] = struct{}{}

		articles = append(articles, article.Article{
			URL:     link,
			Title:   article.Clip(result.Title, article.MaxTitleChars),
			Summary: article.Clip(result.Snippet, article.MaxSummaryChars),
			Snippet: article.Clip(result.Snippet, article.MaxSnippetChars),
		})
	}
	return articles, nil
}

// Discover satisfies Strategy for callers that only need the URLs.
func (s *SerpAPIStrategy) Discover(ctx context.Context, keyword string) ([]CandidateURL, error) {
	articles, err := s.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}

	candidates := make([]CandidateURL, 0, len(articles))
	for _, a := range articles {
		candidates = append(candidates, CandidateURL{URL: a.URL, Source: SourceSerpAPI})
	}
	return candidates, nil
}

// resultLink percent-decodes an API result link and unwraps any embedded
// redirect target.
func resultLink(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if decoded, err := url.QueryUnescape(trimmed); err == nil && decoded != "" {
		trimmed = decoded
	}
	return urlx.Resolve(trimmed)
}
