package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	SearchQuery string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxResults     int
	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	MinRating   float64
	MinReviews  int
	PriceLevels []string
	MinPrice    float64
	MaxPrice    float64

	ExtractEmails     bool
	BlacklistDomains  []string
	BlacklistPatterns []string

	DefaultCountry string
	CSVOutputPath  string
	ChromeBin      string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		SearchQuery: getEnv("SEARCH_QUERY", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "scraper"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "scraper123"),
		PostgresDB:       getEnv("POSTGRES_DB", "leads_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxResults:     getEnvInt("MAX_RESULTS", 20),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 5),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		MinRating:   getEnvFloat("MIN_RATING", 0),
		MinReviews:  getEnvInt("MIN_REVIEWS", 0),
		PriceLevels: getEnvList("PRICE_LEVELS"),
		MinPrice:    getEnvFloat("MIN_PRICE", 0),
		MaxPrice:    getEnvFloat("MAX_PRICE", 0),

		ExtractEmails:     getEnvBool("EXTRACT_EMAILS", false),
		BlacklistDomains:  getEnvList("EMAIL_BLACKLIST_DOMAINS"),
		BlacklistPatterns: getEnvList("EMAIL_BLACKLIST_PATTERNS"),

		DefaultCountry: getEnv("DEFAULT_COUNTRY", "United States"),
		CSVOutputPath:  getEnv("CSV_OUTPUT_PATH", "./output/raw_leads.csv"),
		ChromeBin:      getEnv("CHROME_BIN", ""),
	}
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

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f
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

// getEnvList parses a comma-separated env var into a trimmed slice.
// An unset or empty var yields nil.
func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
