package config

import (
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func validNotion() Config {
	return Config{
		Port:                    "8080",
		DataSource:              SourceNotion,
		TransactionsDatabase:    "Transactions",
		NotionIntegrationSecret: "secret_abc",
		NotionPageURL:           "https://www.notion.so/Finances-0123456789abcdef0123456789abcdef",
		UpstreamTimeout:         20 * time.Second,
		UpstreamRetries:         3,
		UpstreamRetryBackoff:    500 * time.Millisecond,
		Timezone:                "UTC",
		SortLocale:              "en",
		LogLevel:                "info",
		LogFormat:               "console",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		wantErr     bool
		errorString string
	}{
		{
			name:    "valid notion config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name: "valid bigquery config",
			mutate: func(c *Config) {
				c.DataSource = SourceBigQuery
				c.NotionIntegrationSecret = ""
				c.NotionPageURL = ""
				c.BigQueryProject = "my-project"
				c.BigQueryDataset = "finance"
			},
			wantErr: false,
		},
		{
			name:        "invalid port - non-numeric",
			mutate:      func(c *Config) { c.Port = "abc" },
			wantErr:     true,
			errorString: "invalid port 'abc': must be a number",
		},
		{
			name:        "invalid port - out of range",
			mutate:      func(c *Config) { c.Port = "70000" },
			wantErr:     true,
			errorString: "invalid port 70000: must be between 1 and 65535",
		},
		{
			name:        "missing notion secret",
			mutate:      func(c *Config) { c.NotionIntegrationSecret = "" },
			wantErr:     true,
			errorString: "NOTION_INTEGRATION_SECRET is required",
		},
		{
			name:        "page url without id",
			mutate:      func(c *Config) { c.NotionPageURL = "https://www.notion.so/Finances" },
			wantErr:     true,
			errorString: "invalid NOTION_PAGE_URL",
		},
		{
			name:        "bigquery without project",
			mutate:      func(c *Config) { c.DataSource = SourceBigQuery },
			wantErr:     true,
			errorString: "BIGQUERY_PROJECT is required",
		},
		{
			name: "missing credentials file",
			mutate: func(c *Config) {
				c.DataSource = SourceBigQuery
				c.BigQueryProject = "p"
				c.BigQueryDataset = "finance"
				c.GoogleCredentialsFile = filepath.Join(t.TempDir(), "missing.json")
			},
			wantErr:     true,
			errorString: "Google credentials file does not exist",
		},
		{
			name:        "unknown data source",
			mutate:      func(c *Config) { c.DataSource = "sheets" },
			wantErr:     true,
			errorString: "invalid data source 'sheets'",
		},
		{
			name:        "bad timezone",
			mutate:      func(c *Config) { c.Timezone = "Mars/Olympus" },
			wantErr:     true,
			errorString: "invalid timezone 'Mars/Olympus'",
		},
		{
			name:        "bad locale",
			mutate:      func(c *Config) { c.SortLocale = "!!" },
			wantErr:     true,
			errorString: "invalid sort locale",
		},
		{
			name:        "too many retries",
			mutate:      func(c *Config) { c.UpstreamRetries = 11 },
			wantErr:     true,
			errorString: "invalid upstream retries 11",
		},
		{
			name:        "bad log format",
			mutate:      func(c *Config) { c.LogFormat = "xml" },
			wantErr:     true,
			errorString: "invalid log format 'xml'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validNotion()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorString)
		})
	}
}

func TestConfig_ValidateCollectsAllErrors(t *testing.T) {
	cfg := validNotion()
	cfg.Port = "abc"
	cfg.NotionIntegrationSecret = ""
	cfg.Timezone = "Nowhere/Land"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "NOTION_INTEGRATION_SECRET")
	assert.Contains(t, err.Error(), "invalid timezone")
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"PORT", "DATA_SOURCE", "TRANSACTIONS_DATABASE", "BIGQUERY_DATASET",
		"UPSTREAM_TIMEOUT", "UPSTREAM_RETRIES", "UPSTREAM_RETRY_BACKOFF",
		"TIMEZONE", "SORT_LOCALE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceNotion, cfg.DataSource)
	assert.Equal(t, "Transactions", cfg.TransactionsDatabase)
	assert.Equal(t, "finance", cfg.BigQueryDataset)
	assert.Equal(t, 20*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 3, cfg.UpstreamRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.UpstreamRetryBackoff)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "en", cfg.SortLocale)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_SOURCE", "BigQuery")
	t.Setenv("UPSTREAM_TIMEOUT", "5s")
	t.Setenv("UPSTREAM_RETRIES", "not-a-number")
	t.Setenv("TIMEZONE", "Europe/London")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, SourceBigQuery, cfg.DataSource)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 3, cfg.UpstreamRetries)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/London", loc.String())
}

func TestConfig_Helpers(t *testing.T) {
	cfg := validNotion()

	tag, err := cfg.Language()
	require.NoError(t, err)
	assert.Equal(t, language.English, tag)

	policy := cfg.RetryPolicy()
	assert.Equal(t, 3, policy.Attempts)
	assert.Equal(t, 500*time.Millisecond, policy.Backoff)
	assert.Equal(t, 20*time.Second, policy.Timeout)

	assert.Contains(t, cfg.UpstreamHint(), "NOTION_PAGE_URL")
	cfg.DataSource = SourceBigQuery
	assert.Contains(t, cfg.UpstreamHint(), "BIGQUERY_PROJECT")
}
