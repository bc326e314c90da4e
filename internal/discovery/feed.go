package discovery

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed/rss"
)

const (
	DefaultFeedBaseURL = "https://news.google.com"
	DefaultFeedTimeout = 20 * time.Second

	browserUserAgent = "Mozilla/5.0"
)

// FeedStrategy queries the aggregator's RSS search endpoint. It is the
// fastest and most reliable source: feed entries usually carry the real
// publisher link rather than a tracking redirect.
type FeedStrategy struct {
	baseURL    string
	region     string
	language   string
	httpClient *http.Client
	parser     *rss.Parser
}

type FeedOptions struct {
	BaseURL    string
	Region     string
	Language   string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewFeedStrategy(opts FeedOptions) *FeedStrategy {
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

	return &FeedStrategy{
		baseURL:    base,
		region:     region,
		language:   language,
		httpClient: client,
		parser:     &rss.Parser{},
	}
}

func (s *FeedStrategy) Discover(ctx context.Context, keyword string) ([]CandidateURL, error) {
	searchURL := fmt.Sprintf(
		"%s/rss/search?q=%s&hl=%s-%s&gl=%s&ceid=%s:%s",
		s.baseURL, url.QueryEscape(keyword),
		s.language, s.region, s.region, s.region, s.language,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	req.Header.Set("User-Agent", browserUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("feed search status %d", resp.StatusCode)
	}

	feed, err := s.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	candidates := make([]CandidateURL, 0, len(feed.Items))
	for _, item := range feed.Items {
		if link := bestEntryLink(item); link != "" {
			candidates = append(candidates, CandidateURL{URL: link, Source: SourceFeed})
		}
	}
	return dedupe(candidates), nil
}

// bestEntryLink picks the most authoritative link a feed entry offers.
// Precedence: the feedburner original-link extension, a GUID that is
// itself a URL, the upstream source link, the entry link, and finally
// anything in the generic links collection.
func bestEntryLink(item *rss.Item) string {
	if item == nil {
		return ""
	}

	if ext, ok := item.Extensions["feedburner"]["origLink"]; ok && len(ext) > 0 {
		if link := strings.TrimSpace(ext[0].Value); link != "" {
			return link
		}
	}

	if item.GUID != nil {
		if guid := strings.TrimSpace(item.GUID.Value); strings.HasPrefix(guid, "http") {
			return guid
		}
	}

	if item.Source != nil {
		if link := strings.TrimSpace(item.Source.URL); link != "" {
			return link
		}
	}

	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}

	for _, link := range item.Links {
		if trimmed := strings.TrimSpace(link); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
