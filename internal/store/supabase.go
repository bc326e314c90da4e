package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ideaforge/newsminer/internal/article"
)

const (
	defaultSupabaseTimeout = 30 * time.Second

	articlesTable = "articles"
)

// Supabase talks to the managed article store through the PostgREST
// interface. The store itself owns the unique index on url; a conflicting
// insert comes back as HTTP 409 and is mapped to ErrDuplicate.
type Supabase struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type SupabaseOptions struct {
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewSupabase(projectURL, apiKey string, opts SupabaseOptions) (*Supabase, error) {
	base := strings.TrimRight(strings.TrimSpace(projectURL), "/")
	if base == "" {
		return nil, fmt.Errorf("supabase project URL is required")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("supabase API key is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultSupabaseTimeout
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &Supabase{
		baseURL:    base + "/rest/v1",
		apiKey:     apiKey,
		httpClient: client,
	}, nil
}

type supabaseRow struct {
	URL        string `json:"url"`
	Title      string `json:"title,omitempty"`
	Summary    string `json:"summary,omitempty"`
	Snippet    string `json:"snippet,omitempty"`
	RawContent string `json:"raw_content,omitempty"`
	Language   string `json:"language,omitempty"`
}

func (s *Supabase) Insert(ctx context.Context, a article.Article) (article.Article, error) {
	clipped := clipForStorage(a)

	body, err := json.Marshal(supabaseRow{
		URL:        clipped.URL,
		Title:      clipped.Title,
		Summary:    clipped.Summary,
		Snippet:    clipped.Snippet,
		RawContent: clipped.RawContent,
		Language:   clipped.Language,
	})
	if err != nil {
		return article.Article{}, fmt.Errorf("marshal article row: %w", err)
	}

	resp, err := s.do(ctx, http.MethodPost, articlesTable, bytes.NewReader(body))
	if err != nil {
		return article.Article{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return article.Article{}, fmt.Errorf("insert url=%s: %w", clipped.URL, ErrDuplicate)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return article.Article{}, fmt.Errorf("insert article: status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return article.Article{}, fmt.Errorf("decode insert response: %w", err)
	}
	if len(rows) == 0 {
		// Supabase occasionally returns an empty representation body.
		return clipped, nil
	}
	return rows[0], nil
}

func (s *Supabase) ByURL(ctx context.Context, articleURL string) (article.Article, error) {
	query := fmt.Sprintf("%s?url=eq.%s&select=*", articlesTable, url.QueryEscape(articleURL))

	resp, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return article.Article{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return article.Article{}, fmt.Errorf("fetch article by url: status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}

	rows, err := decodeRows(resp.Body)
	if err != nil {
		return article.Article{}, fmt.Errorf("decode article row: %w", err)
	}
	if len(rows) == 0 {
		return article.Article{}, fmt.Errorf("url=%s: %w", articleURL, ErrNotFound)
	}
	return rows[0], nil
}

func (s *Supabase) All(ctx context.Context) ([]article.Article, error) {
	resp, err := s.do(ctx, http.MethodGet, articlesTable+"?select=*", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch all articles: status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	return decodeRows(resp.Body)
}

func (s *Supabase) Recent(ctx context.Context, n int) ([]article.Article, error) {
	if n <= 0 {
		return nil, nil
	}

	query := fmt.Sprintf("%s?select=*&order=created_at.desc&limit=%d", articlesTable, n)

	resp, err := s.do(ctx, http.MethodGet, query, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch recent articles: status %d: %s", resp.StatusCode, readErrorBody(resp.Body))
	}
	return decodeRows(resp.Body)
}

func (s *Supabase) do(ctx context.Context, method, pathAndQuery string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+"/"+pathAndQuery, body)
	if err != nil {
		return nil, fmt.Errorf("build store request: %w", err)
	}

	req.Header.Set("apikey", s.apiKey)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	return resp, nil
}

func decodeRows(body io.Reader) ([]article.Article, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read store response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var rows []supabaseRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode store response: %w", err)
	}

	articles := make([]article.Article, 0, len(rows))
	for _, row := range rows {
		articles = append(articles, article.Article{
			URL:        row.URL,
			Title:      row.Title,
			Summary:    row.Summary,
			Snippet:    row.Snippet,
			RawContent: row.RawContent,
			Language:   row.Language,
		})
	}
	return articles, nil
}

func readErrorBody(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 512))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}
