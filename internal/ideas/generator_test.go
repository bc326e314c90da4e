package ideas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ideaforge/newsminer/internal/article"
	"github.com/ideaforge/newsminer/internal/store"
)

type fakeStore struct {
	articles  []article.Article
	insertErr error
	recentErr error
	inserted  []article.Article
}

func (f *fakeStore) Insert(_ context.Context, a article.Article) (article.Article, error) {
	if f.insertErr != nil {
		return article.Article{}, f.insertErr
	}
	f.inserted = append(f.inserted, a)
	return a, nil
}

func (f *fakeStore) ByURL(_ context.Context, url string) (article.Article, error) {
	for _, a := range f.articles {
		if a.URL == url {
			return a, nil
		}
	}
	return article.Article{}, store.ErrNotFound
}

func (f *fakeStore) All(_ context.Context) ([]article.Article, error) {
	return f.articles, nil
}

func (f *fakeStore) Recent(_ context.Context, n int) ([]article.Article, error) {
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.articles) > n {
		return f.articles[:n], nil
	}
	return f.articles, nil
}

type fakePrompter struct {
	response string
	err      error
	prompts  []string
}

func (f *fakePrompter) RawPrompt(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestGenerateEmptyStoreReturnsMessage(t *testing.T) {
	t.Parallel()

	prompter := &fakePrompter{}
	generator := NewGenerator(&fakeStore{}, prompter, 0, zerolog.Nop())

	ideas, err := generator.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(ideas) != 1 || ideas[0] != NoArticlesMessage {
		t.Fatalf("unexpected ideas: %v", ideas)
	}
	if len(prompter.prompts) != 0 {
		t.Fatalf("model must not be called for an empty store")
	}
}

func TestGenerateBuildsPromptFromRecentArticles(t *testing.T) {
	t.Parallel()

	articleStore := &fakeStore{articles: []article.Article{
		{Title: "Cyclone update", Summary: "Landfall expected Thursday."},
		{Title: "Relief effort", Summary: "Shelters readied across districts."},
	}}
	prompter := &fakePrompter{response: "• Idea one\n- Idea two\n\nIdea three"}
	generator := NewGenerator(articleStore, prompter, 20, zerolog.Nop())

	ideas, err := generator.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(prompter.prompts) != 1 {
		t.Fatalf("expected one prompt, got %d", len(prompter.prompts))
	}
	prompt := prompter.prompts[0]
	if !strings.Contains(prompt, "Title: Cyclone update") {
		t.Fatalf("prompt missing article title:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Summary: Landfall expected Thursday.") {
		t.Fatalf("prompt missing article summary:\n%s", prompt)
	}

	want := []string{"Idea one", "Idea two", "Idea three"}
	if strings.Join(ideas, "|") != strings.Join(want, "|") {
		t.Fatalf("unexpected ideas: %v", ideas)
	}
}

func TestGenerateCapsArticleCountAndSummaryLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("word ", 200)
	articles := make([]article.Article, 30)
	for i := range articles {
		articles[i] = article.Article{Title: fmt.Sprintf("t%02d", i), Summary: long}
	}

	prompter := &fakePrompter{response: "Idea"}
	generator := NewGenerator(&fakeStore{articles: articles}, prompter, 5, zerolog.Nop())

	if _, err := generator.Generate(context.Background()); err != nil {
		t.Fatalf("generate: %v", err)
	}

	prompt := prompter.prompts[0]
	if strings.Contains(prompt, "t05") {
		t.Fatalf("prompt must hold only the recent-limit articles")
	}
	if strings.Count(prompt, "word") > 5*(contextSummaryChars/5+1) {
		t.Fatalf("summaries not clipped in prompt")
	}
}

func TestGenerateCapsIdeaCount(t *testing.T) {
	t.Parallel()

	lines := make([]string, 15)
	for i := range lines {
		lines[i] = fmt.Sprintf("Idea %d", i)
	}
	prompter := &fakePrompter{response: strings.Join(lines, "\n")}
	generator := NewGenerator(&fakeStore{articles: []article.Article{{Title: "t"}}}, prompter, 20, zerolog.Nop())

	ideas, err := generator.Generate(context.Background())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(ideas) != maxIdeas {
		t.Fatalf("expected %d ideas, got %d", maxIdeas, len(ideas))
	}
}

func TestGenerateModelErrorIsReported(t *testing.T) {
	t.Parallel()

	prompter := &fakePrompter{err: errors.New("quota exceeded")}
	generator := NewGenerator(&fakeStore{articles: []article.Article{{Title: "t"}}}, prompter, 20, zerolog.Nop())

	if _, err := generator.Generate(context.Background()); err == nil {
		t.Fatalf("expected model error to propagate")
	}
}

func TestSaveArticleToleratesDuplicate(t *testing.T) {
	t.Parallel()

	articleStore := &fakeStore{insertErr: fmt.Errorf("insert: %w", store.ErrDuplicate)}
	generator := NewGenerator(articleStore, &fakePrompter{}, 20, zerolog.Nop())

	if err := generator.SaveArticle(context.Background(), article.Article{URL: "u"}); err != nil {
		t.Fatalf("duplicate insert must not be an error: %v", err)
	}
}

func TestSaveArticleReportsRealFailures(t *testing.T) {
	t.Parallel()

	articleStore := &fakeStore{insertErr: errors.New("connection refused")}
	generator := NewGenerator(articleStore, &fakePrompter{}, 20, zerolog.Nop())

	if err := generator.SaveArticle(context.Background(), article.Article{URL: "u"}); err == nil {
		t.Fatalf("expected store failure to propagate")
	}
}

func TestParseIdeasStripsBullets(t *testing.T) {
	t.Parallel()

	got := parseIdeas("• First idea\n- Second idea\n● Third idea\n\n  ")
	want := []string{"First idea", "Second idea", "Third idea"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("parseIdeas = %v, want %v", got, want)
	}
}
