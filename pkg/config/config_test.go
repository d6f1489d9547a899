package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	c := DefaultConfig()
	c.CallbackURL = "https://example.com/subscribe"
	c.SearchIndex.AppID = "APPID"
	c.SearchIndex.APIKey = "key"
	c.SearchIndex.IndexName = "games"
	return c
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()

	assert.Equal(t, "subscribers.json", c.RegistryKey)
	assert.Equal(t, "state.json", c.SnapshotKey)
	assert.Equal(t, "file", c.Storage.Type)
	assert.Equal(t, 587, c.SMTP.Port)
	assert.Equal(t, Duration(10*time.Second), c.SearchIndex.Timeout)
	assert.Zero(t, c.PriceCacheTTL)
}

func TestLoadConfig_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "config.yaml",
			content: `
callback_url: https://example.com/subscribe
storage:
  type: s3
  bucket: prices
search_index:
  app_id: APPID
  index_name: games
  timeout: 3s
smtp:
  username: alerts@example.com
schedule:
  cron: "0 */6 * * *"
price_cache_ttl: 5m
`,
		},
		{
			name: "toml",
			file: "config.toml",
			content: `
callback_url = "https://example.com/subscribe"
price_cache_ttl = "5m"

[storage]
type = "s3"
bucket = "prices"

[search_index]
app_id = "APPID"
index_name = "games"
timeout = "3s"

[smtp]
username = "alerts@example.com"

[schedule]
cron = "0 */6 * * *"
`,
		},
		{
			name: "json",
			file: "config.json",
			content: `{
  "callback_url": "https://example.com/subscribe",
  "storage": {"type": "s3", "bucket": "prices"},
  "search_index": {"app_id": "APPID", "index_name": "games", "timeout": "3s"},
  "smtp": {"username": "alerts@example.com"},
  "schedule": {"cron": "0 */6 * * *"},
  "price_cache_ttl": "5m"
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := LoadConfig(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "s3", c.Storage.Type)
			assert.Equal(t, "prices", c.Storage.Bucket)
			assert.Equal(t, "us-east-1", c.Storage.Region, "defaults are kept")
			assert.Equal(t, Duration(3*time.Second), c.SearchIndex.Timeout)
			assert.Equal(t, Duration(5*time.Minute), c.PriceCacheTTL)
			assert.Equal(t, "alerts@example.com", c.SMTP.Sender())
			assert.Equal(t, "smtp.gmail.com", c.SMTP.Host)
			assert.Equal(t, "0 */6 * * *", c.Schedule.Cron)
			assert.NoError(t, c.Validate())
		})
	}
}

func TestLoadConfig_RejectsUnknownFields(t *testing.T) {
	for name, content := range map[string]string{
		"config.yaml": "unknown_field: 1\n",
		"config.toml": "unknown_field = 1\n",
		"config.json": `{"unknown_field": 1}`,
	} {
		_, err := LoadConfig(writeFile(t, name, content))
		assert.Error(t, err, name)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("STORECHECKER_SMTP_PASSWORD", "app-password")
	t.Setenv("STORECHECKER_SMTP_PORT", "2525")
	t.Setenv("STORECHECKER_STORAGE_BUCKET", "from-env")
	t.Setenv("STORECHECKER_PRICE_CACHE_TTL", "30s")
	t.Setenv("STORECHECKER_SCHEDULE_RUN_ON_START", "true")

	c := validConfig()
	require.NoError(t, ApplyEnvOverrides(c, viper.New()))

	assert.Equal(t, "app-password", c.SMTP.Password)
	assert.Equal(t, 2525, c.SMTP.Port)
	assert.Equal(t, "from-env", c.Storage.Bucket)
	assert.Equal(t, Duration(30*time.Second), c.PriceCacheTTL)
	assert.True(t, c.Schedule.RunOnStart)
	assert.Equal(t, "subscribers.json", c.RegistryKey, "unset variables leave values alone")
}

func TestApplyEnvOverrides_InvalidValue(t *testing.T) {
	t.Setenv("STORECHECKER_SMTP_PORT", "not-a-port")

	err := ApplyEnvOverrides(validConfig(), viper.New())
	assert.ErrorContains(t, err, "smtp.port")

	t.Setenv("STORECHECKER_SMTP_PORT", "587")
	t.Setenv("STORECHECKER_SCHEDULE_RUN_ON_START", "sometimes")
	err = ApplyEnvOverrides(validConfig(), viper.New())
	assert.ErrorContains(t, err, "schedule.run_on_start")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "callback key instead of url", mutate: func(c *Config) { c.CallbackURL = ""; c.CallbackURLKey = "callback_url.txt" }},
		{name: "no callback", mutate: func(c *Config) { c.CallbackURL = "" }, wantErr: "callback_url"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Storage.Type = "s3" }, wantErr: "storage.bucket"},
		{name: "unknown storage", mutate: func(c *Config) { c.Storage.Type = "ftp" }, wantErr: "unknown storage type"},
		{name: "same keys", mutate: func(c *Config) { c.SnapshotKey = c.RegistryKey }, wantErr: "must differ"},
		{name: "no index", mutate: func(c *Config) { c.SearchIndex.IndexName = "" }, wantErr: "index_name"},
		{name: "bad cron", mutate: func(c *Config) { c.Schedule.Cron = "every day" }, wantErr: "schedule.cron"},
		{name: "bad timezone", mutate: func(c *Config) { c.Schedule.Timezone = "Mars/Base" }, wantErr: "schedule.timezone"},
		{name: "bad smtp port", mutate: func(c *Config) { c.SMTP.Port = 0 }, wantErr: "smtp.port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestSearchIndexConfig_IndexURL(t *testing.T) {
	c := SearchIndexConfig{AppID: "ABC", IndexName: "games"}
	assert.Equal(t, "https://ABC-dsn.algolia.net/1/indexes/games", c.IndexURL())

	c.BaseURL = "http://localhost:9999/"
	assert.Equal(t, "http://localhost:9999/1/indexes/games", c.IndexURL())
}
