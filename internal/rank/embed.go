// Package rank orders articles by semantic similarity to a keyword. The
// keyword and every article's scoring document are embedded into the
// same vector space through an external embedding service; cosine
// similarity between the two sides produces the ranking.
package rank

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

const (
	DefaultEmbeddingEndpoint = "http://127.0.0.1:8844/embed"
	DefaultEmbeddingModel    = "all-MiniLM-L6-v2"
	DefaultEmbeddingTimeout  = 45 * time.Second
)

// Embedder turns a batch of texts into fixed-dimension vectors. The same
// embedder must serve the keyword and the document sides of one ranking
// call, or the scores are meaningless.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// EmbeddingClient calls an HTTP embedding service. It speaks both common
// wire shapes: a plain {"texts": [...]} endpoint and the OpenAI-style
// /v1/embeddings {"input": [...]} form, chosen by endpoint path.
type EmbeddingClient struct {
	endpoint   string
	model      string
	timeout    time.Duration
	httpClient *http.Client
}

type EmbeddingOptions struct {
	Endpoint   string
	Model      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewEmbeddingClient(opts EmbeddingOptions) *EmbeddingClient {
	endpoint := normalizeEndpoint(opts.Endpoint)

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = DefaultEmbeddingModel
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultEmbeddingTimeout
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	return &EmbeddingClient{
		endpoint:   endpoint,
		model:      model,
		timeout:    timeout,
		httpClient: client,
	}
}

type embedRequest struct {
	Texts []string `json:"texts,omitempty"`
	Model string   `json:"model,omitempty"`
	Input []string `json:"input,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Data       []struct {
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
}

func (c *EmbeddingClient) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	payload := embedRequest{Texts: texts}
	if parsed, err := url.Parse(c.endpoint); err == nil && strings.HasSuffix(parsed.Path, "/v1/embeddings") {
		payload = embedRequest{Model: c.model, Input: texts}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding request: %w", err)
	}

	requestCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(requestCtx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build embedding request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read embedding response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("embedding service status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed embedResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}

	vectors := parsed.Embeddings
	if len(vectors) == 0 && len(parsed.Data) > 0 {
		sort.Slice(parsed.Data, func(i, j int) bool {
			return parsed.Data[i].Index < parsed.Data[j].Index
		})
		vectors = make([][]float64, 0, len(parsed.Data))
		for _, row := range parsed.Data {
			vectors = append(vectors, row.Embedding)
		}
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embedding response missing vectors")
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding response count mismatch: requested=%d returned=%d", len(texts), len(vectors))
	}

	return vectors, nil
}

func normalizeEndpoint(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultEmbeddingEndpoint
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if parsed.Path == "" || parsed.Path == "/" {
		parsed.Path = "/embed"
	}
	return parsed.String()
}
