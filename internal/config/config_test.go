package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		Environment:       "local",
		LogLevel:          "info",
		DiscoveryStrategy: StrategyFeed,
		GeminiAPIKey:      "gem-key",
		StoreBackend:      StoreSupabase,
		SupabaseURL:       "https://proj.supabase.co",
		SupabaseKey:       "anon-key",
		RankPolicy:        RankTopK,
		FetchLimit:        5,
		RankTopK:          5,
		MinSimilarity:     0.36,
		RecentArticles:    20,
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	t.Parallel()

	if err := validConfig().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateRequiresGeminiKey(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.GeminiAPIKey = "  "
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected GEMINI_API_KEY error, got %v", err)
	}
}

func TestValidateSerpAPIStrategyNeedsKey(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DiscoveryStrategy = StrategySerpAPI
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "SERPAPI_KEY") {
		t.Fatalf("expected SERPAPI_KEY error, got %v", err)
	}

	cfg.SerpAPIKey = "serp-key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("serpapi config with key rejected: %v", err)
	}
}

func TestValidateRejectsUnknownStrategy(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.DiscoveryStrategy = "bing"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown strategy")
	}
}

func TestValidateStoreBackends(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.SupabaseKey = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "SUPABASE") {
		t.Fatalf("expected supabase credential error, got %v", err)
	}

	cfg = validConfig()
	cfg.StoreBackend = StorePostgres
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Fatalf("expected DATABASE_URL error, got %v", err)
	}

	cfg.DatabaseURL = "postgres://localhost:5432/newsminer"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("postgres config rejected: %v", err)
	}

	cfg = validConfig()
	cfg.StoreBackend = "sqlite"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown store backend")
	}
}

func TestValidateBounds(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.FetchLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for FETCH_LIMIT < 1")
	}

	cfg = validConfig()
	cfg.RankTopK = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for RANK_TOP_K < 1")
	}

	cfg = validConfig()
	cfg.MinSimilarity = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for MIN_SIMILARITY outside [-1, 1]")
	}

	cfg = validConfig()
	cfg.RankPolicy = "best"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown rank policy")
	}
}
