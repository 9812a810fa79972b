package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SearchQuery string
	MaxPages    int
	BaseURL     string
	Locale      string

	Headless      bool
	ChromeBin     string
	PageWaitMinMs int
	PageWaitMaxMs int
	MaxRetries    int

	ProjectURL string
	APIKey     string
	TableName  string

	PostgresEnabled  bool
	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	CSVOutputPath string
	Debug         bool
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		SearchQuery: getEnv("SEARCH_QUERY", "jupe zara"),
		MaxPages:    getEnvInt("MAX_PAGES", 2),
		BaseURL:     strings.TrimRight(getEnv("BASE_URL", "https://www.vinted.fr"), "/"),
		Locale:      getEnv("LOCALE", "fr"),

		Headless:      getEnvBool("HEADLESS", false),
		ChromeBin:     getEnv("CHROME_BIN", ""),
		PageWaitMinMs: getEnvInt("PAGE_WAIT_MIN_MS", 3000),
		PageWaitMaxMs: getEnvInt("PAGE_WAIT_MAX_MS", 5000),
		MaxRetries:    getEnvInt("MAX_RETRIES", 3),

		ProjectURL: strings.TrimRight(getEnv("PROJECT_URL", ""), "/"),
		APIKey:     getEnv("API_KEY", ""),
		TableName:  getEnv("TABLE_NAME", "vinted_raw"),

		PostgresEnabled:  getEnvBool("POSTGRES_ENABLED", false),
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "vinted_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/listings.csv"),
		Debug:         getEnvBool("DEBUG", false),
	}

	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	if cfg.PageWaitMaxMs < cfg.PageWaitMinMs {
		cfg.PageWaitMaxMs = cfg.PageWaitMinMs
	}
	return cfg
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// CatalogURL returns the newest-first catalog search URL for a 1-based page.
func (c *Config) CatalogURL(page int) string {
	return c.BaseURL + "/catalog?search_text=" + url.QueryEscape(c.SearchQuery) +
		"&page=" + strconv.Itoa(page) + "&order=newest_first"
}

// RESTEnabled reports whether the REST upsert sink is configured.
func (c *Config) RESTEnabled() bool {
	return c.ProjectURL != "" && c.APIKey != ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}
