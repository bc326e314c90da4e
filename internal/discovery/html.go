package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Anchor selectors tried against the search results page, most specific
// and most stable first. The class-based ones track the aggregator's
// current markup and are expected to rot; the structural ones in front
// are the safety net.
var htmlResultSelectors = []string{
	"article h3 a",
	"h3 a",
	"a.WwrzSb",
	"a.ipQwMb",
	"a.VDXfz",
}

// HTMLStrategy scrapes the aggregator's HTML search results page. It is
// the fallback when the feed search returns nothing.
type HTMLStrategy struct {
	baseURL    string
	region     string
	language   string
	httpClient *http.Client
}

type HTMLOptions struct {
	BaseURL    string
	Region     string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewHTMLStrategy(opts HTMLOptions) *HTMLStrategy {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		base = DefaultFeedBaseURL
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

	return &HTMLStrategy{
		baseURL:    base,
		region:     region,
		language:   language,
		httpClient: client,
	}
}

func (s *HTMLStrategy) Discover(ctx context.Context, keyword string) ([]CandidateURL, error) {
	searchURL := fmt.Sprintf(
		"%s/search?q=%s&hl=%s-%s&gl=%s&ceid=%s:%s",
		s.baseURL, url.QueryEscape(keyword),
		s.language, s.region, s.region, s.region, s.language,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch search page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTML search status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse search page: %w", err)
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}

	var candidates []CandidateURL
	for _, selector := range htmlResultSelectors {
		doc.Find(selector).Each(func(_ int, anchor *goquery.Selection) {
			href, exists := anchor.Attr("href")
			if !exists {
				return
			}
			if absolute := absoluteLink(base, href); absolute != "" {
				candidates = append(candidates, CandidateURL{URL: absolute, Source: SourceHTML})
			}
		})
	}
	return dedupe(candidates), nil
}

// absoluteLink resolves a result anchor against the site's base origin.
// The aggregator emits relative "./articles/..." hrefs.
func absoluteLink(base *url.URL, href string) string {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" {
		return ""
	}
	trimmed = strings.TrimPrefix(trimmed, "./")

	ref, err := url.Parse(trimmed)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
