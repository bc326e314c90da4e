package article

import "strings"

// Field caps applied at extraction time. They bound downstream prompt and
// storage cost; the store applies its own tighter caps before persisting.
const (
	MaxTitleChars   = 500
	MaxSummaryChars = 5000
	MaxSnippetChars = 500
)

// Article is a single retrieved news article. URL is the canonical,
// redirect-resolved address and serves as the unique identity key in the
// persisted store. Articles are never mutated after creation.
type Article struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	Summary    string `json:"summary"`
	Snippet    string `json:"snippet"`
	RawContent string `json:"raw_content,omitempty"`
	Language   string `json:"language,omitempty"`
}

// Clip trims leading/trailing whitespace and clips text to maxChars runes.
func Clip(raw string, maxChars int) string {
	trimmed := strings.TrimSpace(raw)
	if maxChars <= 0 {
		return trimmed
	}

	runes := []rune(trimmed)
	if len(runes) <= maxChars {
		return trimmed
	}
	return strings.TrimSpace(string(runes[:maxChars]))
}

// ScoringDocument is the text the relevance ranker embeds for an article:
// title and summary joined with a space, missing fields treated as empty.
func (a Article) ScoringDocument() string {
	return strings.TrimSpace(strings.TrimSpace(a.Title) + " " + strings.TrimSpace(a.Summary))
}
