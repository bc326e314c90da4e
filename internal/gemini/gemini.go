// Package gemini wraps the generative model used for keyword expansion
// and idea synthesis.
package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	DefaultModel = "gemini-2.5-flash"

	// ExpandedKeywordCount is the exact number of keywords expansion
	// returns, padding or truncating whatever the model produces.
	ExpandedKeywordCount = 10
)

type Client struct {
	client *genai.Client
	model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func (c *Client) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// ExpandKeywords asks the model to expand the seed keywords into exactly
// ExpandedKeywordCount SEO keywords. The model is not trusted to count:
// short lists are padded by repeating the last keyword and long lists
// are truncated, so the result length is always exact.
func (c *Client) ExpandKeywords(ctx context.Context, seeds []string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Expand the following into exactly %d SEO-optimized keywords.\n"+
			"Return ONLY the list, separated by commas. No numbering.\n\n"+
			"User keywords: %s",
		ExpandedKeywordCount, strings.Join(seeds, ", "),
	)

	text, err := c.RawPrompt(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("expand keywords: %w", err)
	}

	expanded := parseKeywordList(text)
	if len(expanded) == 0 {
		return nil, fmt.Errorf("expand keywords: model returned no usable keywords")
	}
	return padKeywords(expanded, ExpandedKeywordCount), nil
}

// RawPrompt sends a single prompt and returns the first candidate's text.
func (c *Client) RawPrompt(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

// parseKeywordList normalizes the separators the model is known to use
// (newlines, bullets, hyphens, pipes) into commas and splits.
func parseKeywordList(text string) []string {
	replacer := strings.NewReplacer("\n", ",", "•", ",", "-", ",", "|", ",")
	normalized := replacer.Replace(text)

	parts := strings.Split(normalized, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if keyword := strings.TrimSpace(part); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

// padKeywords forces the list to exactly count entries: truncate when
// over, repeat the last entry when under.
func padKeywords(keywords []string, count int) []string {
	if len(keywords) >= count {
		return keywords[:count]
	}

	padded := make([]string, 0, count)
	padded = append(padded, keywords...)
	for len(padded) < count {
		padded = append(padded, padded[len(padded)-1])
	}
	return padded
}
