package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/storechecker/storechecker/pkg/schedule"
	"github.com/storechecker/storechecker/pkg/storage"
)

// EnvPrefix is the prefix of environment variables that override file settings
const EnvPrefix = "STORECHECKER"

// Duration is a time.Duration written as a string such as "10s" or "5m"
type Duration time.Duration

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(parsed)
	return nil
}

// SearchIndexConfig configures the product search index used for price lookups
type SearchIndexConfig struct {
	AppID     string `json:"app_id" yaml:"app_id" toml:"app_id" mapstructure:"app_id"`
	APIKey    string `json:"api_key" yaml:"api_key" toml:"api_key" mapstructure:"api_key"`
	IndexName string `json:"index_name" yaml:"index_name" toml:"index_name" mapstructure:"index_name"`
	// BaseURL defaults to https://{app_id}-dsn.algolia.net
	BaseURL string   `json:"base_url,omitempty" yaml:"base_url,omitempty" toml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout,omitempty" mapstructure:"timeout"`
}

// IndexURL returns the query endpoint of the configured index
func (c SearchIndexConfig) IndexURL() string {
	base := c.BaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s-dsn.algolia.net", c.AppID)
	}
	return strings.TrimRight(base, "/") + "/1/indexes/" + c.IndexName
}

// SMTPConfig configures outbound mail. An empty Host selects the log-only notifier.
type SMTPConfig struct {
	Host     string `json:"host" yaml:"host" toml:"host" mapstructure:"host"`
	Port     int    `json:"port" yaml:"port" toml:"port" mapstructure:"port"`
	Username string `json:"username" yaml:"username" toml:"username" mapstructure:"username"`
	Password string `json:"password" yaml:"password" toml:"password" mapstructure:"password"`
	// From defaults to Username
	From string `json:"from,omitempty" yaml:"from,omitempty" toml:"from,omitempty" mapstructure:"from"`
}

// Sender returns the From address
func (c SMTPConfig) Sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// AlertsConfig configures operator alerts for failed scheduled passes
type AlertsConfig struct {
	SlackWebhookURL string `json:"slack_webhook_url,omitempty" yaml:"slack_webhook_url,omitempty" toml:"slack_webhook_url,omitempty" mapstructure:"slack_webhook_url"`
}

// ScheduleConfig configures the reconciliation schedule of the serve command
type ScheduleConfig struct {
	Cron       string `json:"cron" yaml:"cron" toml:"cron" mapstructure:"cron"`
	Timezone   string `json:"timezone,omitempty" yaml:"timezone,omitempty" toml:"timezone,omitempty" mapstructure:"timezone"`
	// RunOnStart runs one pass as soon as serve starts
	RunOnStart bool   `json:"run_on_start,omitempty" yaml:"run_on_start,omitempty" toml:"run_on_start,omitempty" mapstructure:"run_on_start"`
}

// Config represents the service configuration
type Config struct {
	// Port is the HTTP listen port of the serve command
	Port    string                `json:"port" yaml:"port" toml:"port" mapstructure:"port"`
	Storage storage.StorageConfig `json:"storage" yaml:"storage" toml:"storage" mapstructure:"storage"`
	// RegistryKey is the document holding product subscribers
	RegistryKey string `json:"registry_key" yaml:"registry_key" toml:"registry_key" mapstructure:"registry_key"`
	// SnapshotKey is the document holding the last observed prices
	SnapshotKey string `json:"snapshot_key" yaml:"snapshot_key" toml:"snapshot_key" mapstructure:"snapshot_key"`
	// CallbackURL is the parameter-less subscription endpoint used in links.
	// When empty it is read from the document at CallbackURLKey.
	CallbackURL    string            `json:"callback_url,omitempty" yaml:"callback_url,omitempty" toml:"callback_url,omitempty" mapstructure:"callback_url"`
	CallbackURLKey string            `json:"callback_url_key,omitempty" yaml:"callback_url_key,omitempty" toml:"callback_url_key,omitempty" mapstructure:"callback_url_key"`
	SearchIndex    SearchIndexConfig `json:"search_index" yaml:"search_index" toml:"search_index" mapstructure:"search_index"`
	SMTP           SMTPConfig        `json:"smtp" yaml:"smtp" toml:"smtp" mapstructure:"smtp"`
	Alerts         AlertsConfig      `json:"alerts" yaml:"alerts" toml:"alerts" mapstructure:"alerts"`
	Schedule       ScheduleConfig    `json:"schedule" yaml:"schedule" toml:"schedule" mapstructure:"schedule"`
	// PriceCacheTTL enables quote caching for subscription requests; 0 disables it
	PriceCacheTTL Duration `json:"price_cache_ttl,omitempty" yaml:"price_cache_ttl,omitempty" toml:"price_cache_ttl,omitempty" mapstructure:"price_cache_ttl"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Port: "8080",
		Storage: storage.StorageConfig{
			Type:      "file",
			Directory: "./data",
			Region:    "us-east-1",
		},
		RegistryKey: "subscribers.json",
		SnapshotKey: "state.json",
		SearchIndex: SearchIndexConfig{
			Timeout: Duration(10 * time.Second),
		},
		SMTP: SMTPConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Schedule: ScheduleConfig{
			Cron:     "0 * * * *",
			Timezone: "UTC",
		},
	}
}

// LoadConfig loads configuration from a YAML, TOML or JSON file, chosen by
// extension, on top of DefaultConfig. Unknown fields are rejected.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case ".toml":
		meta, err := toml.Decode(string(data), config)
		if err != nil {
			return nil, fmt.Errorf("failed to parse TOML config: %w", err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("failed to parse TOML config: unknown field %q", undecoded[0].String())
		}
	default:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	}

	log.Printf("[CONFIG] Loaded configuration from %s", filename)
	return config, nil
}

// envBindings maps viper keys to the fields they override
var envBindings = map[string]func(c *Config, value string) error{
	"port":                     func(c *Config, v string) error { c.Port = v; return nil },
	"storage.type":             func(c *Config, v string) error { c.Storage.Type = v; return nil },
	"storage.directory":        func(c *Config, v string) error { c.Storage.Directory = v; return nil },
	"storage.bucket":           func(c *Config, v string) error { c.Storage.Bucket = v; return nil },
	"storage.region":           func(c *Config, v string) error { c.Storage.Region = v; return nil },
	"storage.prefix":           func(c *Config, v string) error { c.Storage.Prefix = v; return nil },
	"storage.endpoint":         func(c *Config, v string) error { c.Storage.Endpoint = v; return nil },
	"storage.access_key":       func(c *Config, v string) error { c.Storage.AccessKey = v; return nil },
	"storage.secret_key":       func(c *Config, v string) error { c.Storage.SecretKey = v; return nil },
	"registry_key":             func(c *Config, v string) error { c.RegistryKey = v; return nil },
	"snapshot_key":             func(c *Config, v string) error { c.SnapshotKey = v; return nil },
	"callback_url":             func(c *Config, v string) error { c.CallbackURL = v; return nil },
	"callback_url_key":         func(c *Config, v string) error { c.CallbackURLKey = v; return nil },
	"search_index.app_id":      func(c *Config, v string) error { c.SearchIndex.AppID = v; return nil },
	"search_index.api_key":     func(c *Config, v string) error { c.SearchIndex.APIKey = v; return nil },
	"search_index.index_name":  func(c *Config, v string) error { c.SearchIndex.IndexName = v; return nil },
	"search_index.base_url":    func(c *Config, v string) error { c.SearchIndex.BaseURL = v; return nil },
	"search_index.timeout":     func(c *Config, v string) error { return c.SearchIndex.Timeout.UnmarshalText([]byte(v)) },
	"smtp.host":                func(c *Config, v string) error { c.SMTP.Host = v; return nil },
	"smtp.port":                func(c *Config, v string) error { return setInt(&c.SMTP.Port, v) },
	"smtp.username":            func(c *Config, v string) error { c.SMTP.Username = v; return nil },
	"smtp.password":            func(c *Config, v string) error { c.SMTP.Password = v; return nil },
	"smtp.from":                func(c *Config, v string) error { c.SMTP.From = v; return nil },
	"alerts.slack_webhook_url": func(c *Config, v string) error { c.Alerts.SlackWebhookURL = v; return nil },
	"schedule.cron":            func(c *Config, v string) error { c.Schedule.Cron = v; return nil },
	"schedule.timezone":        func(c *Config, v string) error { c.Schedule.Timezone = v; return nil },
	"schedule.run_on_start":    func(c *Config, v string) error { return setBool(&c.Schedule.RunOnStart, v) },
	"price_cache_ttl":          func(c *Config, v string) error { return c.PriceCacheTTL.UnmarshalText([]byte(v)) },
}

// ApplyEnvOverrides overrides settings from STORECHECKER_* environment
// variables, e.g. STORECHECKER_SMTP_PASSWORD for smtp.password.
func ApplyEnvOverrides(config *Config, v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, apply := range envBindings {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
		if !v.IsSet(key) {
			continue
		}
		if err := apply(config, v.GetString(key)); err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
	}
	return nil
}

func setInt(dst *int, value string) error {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, value string) error {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

// Validate checks the configuration for settings every command needs
func (c *Config) Validate() error {
	switch c.Storage.Type {
	case "memory", "file", "":
	case "s3":
		if c.Storage.Bucket == "" {
			return fmt.Errorf("storage.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}
	if c.RegistryKey == "" {
		return fmt.Errorf("registry_key is required")
	}
	if c.SnapshotKey == "" {
		return fmt.Errorf("snapshot_key is required")
	}
	if c.RegistryKey == c.SnapshotKey {
		return fmt.Errorf("registry_key and snapshot_key must differ")
	}
	if c.CallbackURL == "" && c.CallbackURLKey == "" {
		return fmt.Errorf("callback_url or callback_url_key is required")
	}
	if c.SearchIndex.IndexName == "" {
		return fmt.Errorf("search_index.index_name is required")
	}
	if c.SearchIndex.BaseURL == "" && c.SearchIndex.AppID == "" {
		return fmt.Errorf("search_index.app_id is required")
	}
	if c.SMTP.Host != "" && (c.SMTP.Port <= 0 || c.SMTP.Port > 65535) {
		return fmt.Errorf("smtp.port must be between 1 and 65535")
	}
	if c.PriceCacheTTL < 0 {
		return fmt.Errorf("price_cache_ttl must not be negative")
	}
	if c.Schedule.Cron != "" {
		if err := schedule.NewCronParser().Validate(c.Schedule.Cron); err != nil {
			return fmt.Errorf("schedule.cron: %w", err)
		}
	}
	if _, err := schedule.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("schedule.timezone: %w", err)
	}
	return nil
}
