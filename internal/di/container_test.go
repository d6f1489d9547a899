package di

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/storechecker/storechecker/internal/infrastructure/services"
	"github.com/storechecker/storechecker/pkg/config"
)

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Storage.Type = "memory"
	cfg.CallbackURL = "https://example.com/subscribe"
	cfg.SearchIndex.AppID = "APPID"
	cfg.SearchIndex.IndexName = "games"
	return cfg
}

func TestNewContainer(t *testing.T) {
	container, err := NewContainer(context.Background(), testConfig(), Options{})
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	defer func() { _ = container.Close() }()

	// Test repositories are initialized
	if container.RegistryRepo == nil {
		t.Error("RegistryRepo should not be nil")
	}
	if container.SnapshotRepo == nil {
		t.Error("SnapshotRepo should not be nil")
	}

	// Test services are initialized
	if _, ok := container.Notifier.(*services.SMTPNotificationService); !ok {
		t.Errorf("Notifier should be SMTP, got %T", container.Notifier)
	}
	if _, ok := container.Alerts.(*services.LogAlertService); !ok {
		t.Errorf("Alerts should log without a webhook, got %T", container.Alerts)
	}
	if container.CachedPriceLookup != container.PriceLookup {
		t.Error("price cache should be disabled when price_cache_ttl is 0")
	}

	// Test use cases and controllers are initialized
	if container.PerformJobUC == nil || container.ReconcileUC == nil || container.PruneUC == nil {
		t.Error("use cases should not be nil")
	}
	if container.HTTPServer == nil {
		t.Error("HTTPServer should not be nil")
	}
}

func TestNewContainer_DryRunAndCache(t *testing.T) {
	cfg := testConfig()
	cfg.PriceCacheTTL = config.Duration(time.Minute)
	cfg.Alerts.SlackWebhookURL = "https://hooks.slack.com/services/T/B/X"

	container, err := NewContainer(context.Background(), cfg, Options{DryRun: true})
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}

	if _, ok := container.Notifier.(*services.LogNotificationService); !ok {
		t.Errorf("dry run should log notifications, got %T", container.Notifier)
	}
	if _, ok := container.CachedPriceLookup.(*services.CachingPriceLookup); !ok {
		t.Errorf("price cache should be enabled, got %T", container.CachedPriceLookup)
	}
	if _, ok := container.Alerts.(*services.SlackAlertService); !ok {
		t.Errorf("Alerts should use slack, got %T", container.Alerts)
	}
}

func TestNewContainer_CallbackURLFromStore(t *testing.T) {
	cfg := testConfig()
	cfg.CallbackURL = ""
	cfg.CallbackURLKey = "callback_url.txt"
	cfg.Storage.Type = "file"
	cfg.Storage.Directory = t.TempDir()

	if _, err := NewContainer(context.Background(), cfg, Options{}); err == nil {
		t.Fatal("expected error for missing callback url document")
	}

	path := filepath.Join(cfg.Storage.Directory, "callback_url.txt")
	if err := os.WriteFile(path, []byte(" https://api.example.com/prod/subscribe \n"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	container, err := NewContainer(context.Background(), cfg, Options{})
	if err != nil {
		t.Fatalf("NewContainer failed: %v", err)
	}
	want := "https://api.example.com/prod/subscribe?subscriber=a%40x.com&type=REMOVE"
	if got := container.Links.UnsubscribeAllLink("a@x.com"); got != want {
		t.Errorf("UnsubscribeAllLink = %q, want %q", got, want)
	}
}
