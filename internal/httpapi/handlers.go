package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ideaforge/newsminer/internal/article"
	"github.com/ideaforge/newsminer/internal/httpapi/schema"
	"github.com/ideaforge/newsminer/internal/pipeline"
)

const maxRequestBodyBytes = 64 * 1024

// articleOut is the external article representation. Raw content stays
// server-side.
type articleOut struct {
	URL      string `json:"url"`
	Title    string `json:"title,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
	Language string `json:"language,omitempty"`
}

type scrapeResponse struct {
	Articles []articleOut `json:"articles"`
	Message  string       `json:"message,omitempty"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleExpand(c echo.Context) error {
	request, err := s.bindKeywords(c)
	if err != nil {
		return err
	}

	expanded, err := s.pipeline.Expand(c.Request().Context(), request.Keywords)
	if err != nil {
		s.logger.Error().Err(err).Msg("keyword expansion failed")
		return echo.NewHTTPError(http.StatusBadGateway, "keyword expansion failed")
	}

	return c.JSON(http.StatusOK, map[string][]string{"expanded_keywords": expanded})
}

func (s *Server) handleScrape(c echo.Context) error {
	request, err := s.bindKeywords(c)
	if err != nil {
		return err
	}

	articles, err := s.pipeline.ScrapeAll(c.Request().Context(), request.Keywords)
	if err != nil {
		s.logger.Error().Err(err).Msg("scrape failed")
		return echo.NewHTTPError(http.StatusBadGateway, "scrape failed")
	}

	response := scrapeResponse{Articles: toArticleOuts(articles)}
	if len(articles) == 0 {
		response.Message = pipeline.NoArticlesMessage
	}
	return c.JSON(http.StatusOK, response)
}

func (s *Server) handleArticles(c echo.Context) error {
	articles, err := s.articles.All(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to load stored articles")
		return echo.NewHTTPError(http.StatusBadGateway, "failed to load stored articles")
	}
	return c.JSON(http.StatusOK, toArticleOuts(articles))
}

func (s *Server) handleIdeas(c echo.Context) error {
	generated, err := s.pipeline.Ideas(c.Request().Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("idea generation failed")
		return echo.NewHTTPError(http.StatusBadGateway, "idea generation failed")
	}
	return c.JSON(http.StatusOK, generated)
}

func (s *Server) handleScrapeAndGenerate(c echo.Context) error {
	request, err := s.bindKeywords(c)
	if err != nil {
		return err
	}

	result, err := s.pipeline.Run(c.Request().Context(), request.Keywords)
	if err != nil {
		s.logger.Error().Err(err).Msg("pipeline run failed")
		return echo.NewHTTPError(http.StatusBadGateway, "pipeline run failed")
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) bindKeywords(c echo.Context) (*schema.KeywordsRequest, error) {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxRequestBodyBytes))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
	}

	request, err := schema.ValidateKeywordsPayload(json.RawMessage(body))
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return request, nil
}

func toArticleOuts(articles []article.Article) []articleOut {
	out := make([]articleOut, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleOut{
			URL:      a.URL,
			Title:    a.Title,
			Summary:  a.Summary,
			Snippet:  a.Snippet,
			Language: a.Language,
		})
	}
	return out
}
