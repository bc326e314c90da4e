package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Discovery strategy selectors. Feed discovery falls back to HTML search
// when the feed returns nothing; SerpAPI replaces both and supplies
// article summaries inline.
const (
	StrategyFeed    = "feed"
	StrategySerpAPI = "serpapi"
)

// Store backend selectors.
const (
	StoreSupabase = "supabase"
	StorePostgres = "postgres"
)

// Ranking policy selectors.
const (
	RankTopK      = "topk"
	RankThreshold = "threshold"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DiscoveryStrategy string        `envconfig:"DISCOVERY_STRATEGY" default:"feed"`
	SearchRegion      string        `envconfig:"SEARCH_REGION" default:"IN"`
	SearchLanguage    string        `envconfig:"SEARCH_LANGUAGE" default:"en"`
	SearchTimeout     time.Duration `envconfig:"SEARCH_TIMEOUT" default:"20s"`

	SerpAPIKey    string `envconfig:"SERPAPI_KEY" default:""`
	SerpAPIEngine string `envconfig:"SERPAPI_ENGINE" default:"google_news"`

	FetchLimit   int           `envconfig:"FETCH_LIMIT" default:"5"`
	FetchTimeout time.Duration `envconfig:"FETCH_TIMEOUT" default:"20s"`

	EmbeddingEndpoint string        `envconfig:"EMBEDDING_ENDPOINT" default:"http://127.0.0.1:8844/embed"`
	EmbeddingModel    string        `envconfig:"EMBEDDING_MODEL" default:"all-MiniLM-L6-v2"`
	EmbeddingTimeout  time.Duration `envconfig:"EMBEDDING_TIMEOUT" default:"45s"`

	RankPolicy    string  `envconfig:"RANK_POLICY" default:"topk"`
	RankTopK      int     `envconfig:"RANK_TOP_K" default:"5"`
	MinSimilarity float64 `envconfig:"MIN_SIMILARITY" default:"0.36"`

	GeminiAPIKey string `envconfig:"GEMINI_API_KEY" default:""`
	GeminiModel  string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`

	StoreBackend string `envconfig:"STORE_BACKEND" default:"supabase"`
	SupabaseURL  string `envconfig:"SUPABASE_URL" default:""`
	SupabaseKey  string `envconfig:"SUPABASE_KEY" default:""`
	DatabaseURL  string `envconfig:"DATABASE_URL" default:""`

	RecentArticles int  `envconfig:"RECENT_ARTICLES" default:"20"`
	DetectLanguage bool `envconfig:"DETECT_LANGUAGE" default:"false"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DiscoveryStrategy)) {
	case StrategyFeed:
	case StrategySerpAPI:
		if strings.TrimSpace(c.SerpAPIKey) == "" {
			return fmt.Errorf("SERPAPI_KEY is required when DISCOVERY_STRATEGY=serpapi")
		}
	default:
		return fmt.Errorf("DISCOVERY_STRATEGY must be %q or %q", StrategyFeed, StrategySerpAPI)
	}

	if strings.TrimSpace(c.GeminiAPIKey) == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}

	switch strings.ToLower(strings.TrimSpace(c.StoreBackend)) {
	case StoreSupabase:
		if strings.TrimSpace(c.SupabaseURL) == "" || strings.TrimSpace(c.SupabaseKey) == "" {
			return fmt.Errorf("SUPABASE_URL and SUPABASE_KEY are required when STORE_BACKEND=supabase")
		}
	case StorePostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND=postgres")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q", StoreSupabase, StorePostgres)
	}

	switch strings.ToLower(strings.TrimSpace(c.RankPolicy)) {
	case RankTopK, RankThreshold:
	default:
		return fmt.Errorf("RANK_POLICY must be %q or %q", RankTopK, RankThreshold)
	}

	if c.FetchLimit < 1 {
		return fmt.Errorf("FETCH_LIMIT must be >= 1")
	}
	if c.RankTopK < 1 {
		return fmt.Errorf("RANK_TOP_K must be >= 1")
	}
	if c.MinSimilarity < -1 || c.MinSimilarity > 1 {
		return fmt.Errorf("MIN_SIMILARITY must be within [-1, 1]")
	}
	if c.RecentArticles < 1 {
		return fmt.Errorf("RECENT_ARTICLES must be >= 1")
	}
	return nil
}
