package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"SEARCH_QUERY", "MAX_PAGES", "BASE_URL", "LOCALE", "HEADLESS",
		"PAGE_WAIT_MIN_MS", "PAGE_WAIT_MAX_MS", "PROJECT_URL", "API_KEY", "TABLE_NAME", "POSTGRES_ENABLED"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	if cfg.SearchQuery != "jupe zara" {
		t.Errorf("SearchQuery = %q, want %q", cfg.SearchQuery, "jupe zara")
	}
	if cfg.MaxPages != 2 {
		t.Errorf("MaxPages = %d, want 2", cfg.MaxPages)
	}
	if cfg.TableName != "vinted_raw" {
		t.Errorf("TableName = %q, want vinted_raw", cfg.TableName)
	}
	if cfg.Locale != "fr" {
		t.Errorf("Locale = %q, want fr", cfg.Locale)
	}
	if cfg.RESTEnabled() {
		t.Error("RESTEnabled() = true without PROJECT_URL/API_KEY")
	}
	if cfg.PostgresEnabled {
		t.Error("PostgresEnabled should default to false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SEARCH_QUERY", "robe mango")
	t.Setenv("MAX_PAGES", "0")
	t.Setenv("BASE_URL", "https://www.vinted.co.uk/")
	t.Setenv("HEADLESS", "true")
	t.Setenv("PAGE_WAIT_MIN_MS", "4000")
	t.Setenv("PAGE_WAIT_MAX_MS", "1000")
	t.Setenv("PROJECT_URL", "https://abc.supabase.co/")
	t.Setenv("API_KEY", "secret")

	cfg := Load()
	if cfg.MaxPages != 1 {
		t.Errorf("MaxPages = %d, want clamp to 1", cfg.MaxPages)
	}
	if !cfg.Headless {
		t.Error("Headless = false, want true")
	}
	if cfg.PageWaitMaxMs != 4000 {
		t.Errorf("PageWaitMaxMs = %d, want 4000", cfg.PageWaitMaxMs)
	}
	if cfg.ProjectURL != "https://abc.supabase.co" {
		t.Errorf("ProjectURL = %q, trailing slash not trimmed", cfg.ProjectURL)
	}
	if !cfg.RESTEnabled() {
		t.Error("RESTEnabled() = false, want true")
	}

	want := "https://www.vinted.co.uk/catalog?search_text=robe+mango&page=3&order=newest_first"
	if got := cfg.CatalogURL(3); got != want {
		t.Errorf("CatalogURL(3) = %q, want %q", got, want)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "vinted", PostgresSSLMode: "require",
	}
	want := "host=db port=5433 user=u password=p dbname=vinted sslmode=require"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}
