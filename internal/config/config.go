// Package config loads dashboard settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/dvloznov/spending-dashboard/internal/notionsource"
	"github.com/dvloznov/spending-dashboard/internal/source"
)

// Data sources.
const (
	SourceNotion   = "notion"
	SourceBigQuery = "bigquery"
)

type Config struct {
	// HTTP Server
	Port string

	// Source selection
	DataSource           string
	TransactionsDatabase string

	// Notion
	NotionIntegrationSecret string
	NotionPageURL           string

	// BigQuery
	BigQueryProject       string
	BigQueryDataset       string
	GoogleCredentialsFile string

	// Report export
	ReportBucket string

	// Upstream fetch
	UpstreamTimeout      time.Duration
	UpstreamRetries      int
	UpstreamRetryBackoff time.Duration

	// Calendar and collation
	Timezone   string
	SortLocale string

	// Logging
	LogLevel  string
	LogFormat string
}

// Load reads .env (when present) and then the environment.
func Load() *Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	return &Config{
		Port: getEnv("PORT", "8080"),

		DataSource:           strings.ToLower(getEnv("DATA_SOURCE", SourceNotion)),
		TransactionsDatabase: getEnv("TRANSACTIONS_DATABASE", "Transactions"),

		NotionIntegrationSecret: getEnv("NOTION_INTEGRATION_SECRET", ""),
		NotionPageURL:           getEnv("NOTION_PAGE_URL", ""),

		BigQueryProject:       getEnv("BIGQUERY_PROJECT", ""),
		BigQueryDataset:       getEnv("BIGQUERY_DATASET", "finance"),
		GoogleCredentialsFile: getEnv("GOOGLE_CREDENTIALS_FILE", ""),

		ReportBucket: getEnv("REPORT_BUCKET", ""),

		UpstreamTimeout:      getEnvDuration("UPSTREAM_TIMEOUT", 20*time.Second),
		UpstreamRetries:      getEnvInt("UPSTREAM_RETRIES", 3),
		UpstreamRetryBackoff: getEnvDuration("UPSTREAM_RETRY_BACKOFF", 500*time.Millisecond),

		Timezone:   getEnv("TIMEZONE", "UTC"),
		SortLocale: getEnv("SORT_LOCALE", "en"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if strings.TrimSpace(c.TransactionsDatabase) == "" {
		errors = append(errors, "TRANSACTIONS_DATABASE cannot be empty")
	}

	switch c.DataSource {
	case SourceNotion:
		if c.NotionIntegrationSecret == "" {
			errors = append(errors, "NOTION_INTEGRATION_SECRET is required when using the notion data source")
		}
		if c.NotionPageURL == "" {
			errors = append(errors, "NOTION_PAGE_URL is required when using the notion data source")
		} else if _, err := notionsource.ExtractPageID(c.NotionPageURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid NOTION_PAGE_URL '%s': no page id found", c.NotionPageURL))
		}
	case SourceBigQuery:
		if c.BigQueryProject == "" {
			errors = append(errors, "BIGQUERY_PROJECT is required when using the bigquery data source")
		}
		if c.BigQueryDataset == "" {
			errors = append(errors, "BIGQUERY_DATASET cannot be empty when using the bigquery data source")
		}
		if c.GoogleCredentialsFile != "" {
			if _, err := os.Stat(c.GoogleCredentialsFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google credentials file does not exist: %s", c.GoogleCredentialsFile))
			}
		}
	default:
		errors = append(errors, fmt.Sprintf("invalid data source '%s': must be one of %v", c.DataSource, []string{SourceNotion, SourceBigQuery}))
	}

	if c.UpstreamTimeout < 0 {
		errors = append(errors, fmt.Sprintf("invalid upstream timeout %v: must not be negative", c.UpstreamTimeout))
	}
	if c.UpstreamRetries < 0 || c.UpstreamRetries > 10 {
		errors = append(errors, fmt.Sprintf("invalid upstream retries %d: must be between 0 and 10", c.UpstreamRetries))
	}
	if c.UpstreamRetryBackoff < 0 {
		errors = append(errors, fmt.Sprintf("invalid upstream retry backoff %v: must not be negative", c.UpstreamRetryBackoff))
	}

	if _, err := c.Location(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}
	if _, err := c.Language(); err != nil {
		errors = append(errors, fmt.Sprintf("invalid sort locale '%s': %v", c.SortLocale, err))
	}

	if !slices.Contains([]string{"console", "json"}, strings.ToLower(c.LogFormat)) {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be console or json", c.LogFormat))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// Location returns the calendar used to bucket transactions into months.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// Language returns the collation language for description sorting.
func (c *Config) Language() (language.Tag, error) {
	return language.Parse(c.SortLocale)
}

// RetryPolicy returns the upstream retry settings.
func (c *Config) RetryPolicy() source.RetryPolicy {
	return source.RetryPolicy{
		Attempts: c.UpstreamRetries,
		Backoff:  c.UpstreamRetryBackoff,
		Timeout:  c.UpstreamTimeout,
	}
}

// UpstreamHint names the settings to check when the data source fails.
func (c *Config) UpstreamHint() string {
	if c.DataSource == SourceBigQuery {
		return "Please check your BIGQUERY_PROJECT, BIGQUERY_DATASET and GOOGLE_CREDENTIALS_FILE settings."
	}
	return "Please check your NOTION_INTEGRATION_SECRET and NOTION_PAGE_URL environment variables."
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
