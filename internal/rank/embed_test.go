package rank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestEmbedPlainTextsShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := req["texts"]; !ok {
			t.Errorf("expected texts field, got %v", req)
		}
		if _, ok := req["input"]; ok {
			t.Errorf("plain endpoint must not receive input field")
		}

		_, _ = w.Write([]byte(`{"embeddings": [[1, 0], [0, 1]]}`))
	}))
	t.Cleanup(server.Close)

	client := NewEmbeddingClient(EmbeddingOptions{Endpoint: server.URL + "/embed"})
	vectors, err := client.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	want := [][]float64{{1, 0}, {0, 1}}
	if !reflect.DeepEqual(vectors, want) {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestEmbedOpenAIShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if _, ok := req["input"]; !ok {
			t.Errorf("expected input field, got %v", req)
		}
		if model, ok := req["model"].(string); !ok || model == "" {
			t.Errorf("expected model field, got %v", req["model"])
		}

		// Out-of-order rows; the client must sort by index.
		_, _ = w.Write([]byte(`{"data": [
			{"index": 1, "embedding": [0, 1]},
			{"index": 0, "embedding": [1, 0]}
		]}`))
	}))
	t.Cleanup(server.Close)

	client := NewEmbeddingClient(EmbeddingOptions{Endpoint: server.URL + "/v1/embeddings"})
	vectors, err := client.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	want := [][]float64{{1, 0}, {0, 1}}
	if !reflect.DeepEqual(vectors, want) {
		t.Fatalf("unexpected vectors: %v", vectors)
	}
}

func TestEmbedCountMismatchIsAnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings": [[1, 0]]}`))
	}))
	t.Cleanup(server.Close)

	client := NewEmbeddingClient(EmbeddingOptions{Endpoint: server.URL + "/embed"})
	if _, err := client.Embed(context.Background(), []string{"a", "b"}); err == nil {
		t.Fatalf("expected count mismatch error")
	}
}

func TestEmbedServiceErrorIsReported(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client := NewEmbeddingClient(EmbeddingOptions{Endpoint: server.URL + "/embed"})
	if _, err := client.Embed(context.Background(), []string{"a"}); err == nil {
		t.Fatalf("expected error for HTTP 500")
	}
}

func TestEmbedEmptyBatchSkipsRequest(t *testing.T) {
	t.Parallel()

	client := NewEmbeddingClient(EmbeddingOptions{Endpoint: "http://127.0.0.1:1/embed"})
	vectors, err := client.Embed(context.Background(), nil)
	if err != nil {
		t.Fatalf("empty batch must not call the service: %v", err)
	}
	if vectors != nil {
		t.Fatalf("expected nil vectors, got %v", vectors)
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"", DefaultEmbeddingEndpoint},
		{"http://embed.internal:8844", "http://embed.internal:8844/embed"},
		{"http://embed.internal:8844/", "http://embed.internal:8844/embed"},
		{"http://embed.internal:8844/custom", "http://embed.internal:8844/custom"},
		{"http://openai.internal/v1/embeddings", "http://openai.internal/v1/embeddings"},
	}

	for _, tc := range cases {
		if got := normalizeEndpoint(tc.in); got != tc.want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
