package di

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	domainservices "github.com/storechecker/storechecker/internal/domain/services"
	"github.com/storechecker/storechecker/internal/infrastructure/repositories"
	"github.com/storechecker/storechecker/internal/infrastructure/services"
	"github.com/storechecker/storechecker/internal/interfaces/controllers"
	repositories_ports "github.com/storechecker/storechecker/internal/usecases/ports/repositories"
	services_ports "github.com/storechecker/storechecker/internal/usecases/ports/services"
	"github.com/storechecker/storechecker/internal/usecases/reconcile"
	"github.com/storechecker/storechecker/internal/usecases/subscription"
	"github.com/storechecker/storechecker/pkg/config"
	"github.com/storechecker/storechecker/pkg/storage"
)

// Options adjusts how the container is wired
type Options struct {
	// DryRun replaces the mail notifier with the log notifier
	DryRun bool
	// Verbose enables HTTP request logging
	Verbose bool
}

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Store  storage.Store

	// Repositories
	RegistryRepo repositories_ports.RegistryRepository
	SnapshotRepo repositories_ports.SnapshotRepository

	// Services
	PriceLookup       services_ports.PriceLookupService
	CachedPriceLookup services_ports.PriceLookupService
	Notifier          services_ports.NotificationService
	Alerts            services_ports.AlertService
	Links             *domainservices.LinkFormatter

	// Use Cases
	PerformJobUC *subscription.PerformJobUseCase
	ReconcileUC  *reconcile.ReconcileUseCase
	PruneUC      *subscription.PruneUseCase

	// Controllers
	SubscriptionController *controllers.SubscriptionController
	HealthController       *controllers.HealthController
	HTTPServer             *controllers.HTTPServer

	// lock serializes jobs and passes running in this process
	lock    sync.Locker
	options Options
}

// NewContainer creates and configures a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config, opts Options) (*Container, error) {
	container := &Container{
		Config:  cfg,
		lock:    &sync.Mutex{},
		options: opts,
	}

	// Initialize repositories
	if err := container.initRepositories(ctx); err != nil {
		return nil, err
	}

	// Initialize services
	if err := container.initServices(ctx); err != nil {
		return nil, err
	}

	// Initialize use cases
	container.initUseCases()

	// Initialize controllers
	container.initControllers()

	return container, nil
}

// initRepositories initializes the document store and repositories
func (c *Container) initRepositories(ctx context.Context) error {
	store, err := storage.NewStore(ctx, &c.Config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	log.Printf("[STORAGE] Using %s storage", storageType(c.Config.Storage.Type))

	c.Store = store
	c.RegistryRepo = repositories.NewDocumentRegistryRepository(store, c.Config.RegistryKey)
	c.SnapshotRepo = repositories.NewDocumentSnapshotRepository(store, c.Config.SnapshotKey)
	return nil
}

// initServices initializes all service dependencies
func (c *Container) initServices(ctx context.Context) error {
	callbackURL, err := c.resolveCallbackURL(ctx)
	if err != nil {
		return err
	}
	c.Links = domainservices.NewLinkFormatter(callbackURL)

	c.PriceLookup = services.NewSearchIndexPriceLookup(services.SearchIndexConfig{
		IndexURL: c.Config.SearchIndex.IndexURL(),
		AppID:    c.Config.SearchIndex.AppID,
		APIKey:   c.Config.SearchIndex.APIKey,
		Timeout:  time.Duration(c.Config.SearchIndex.Timeout),
	})
	c.CachedPriceLookup = c.PriceLookup
	if ttl := time.Duration(c.Config.PriceCacheTTL); ttl > 0 {
		c.CachedPriceLookup = services.NewCachingPriceLookup(c.PriceLookup, ttl)
	}

	switch {
	case c.options.DryRun:
		log.Printf("[CONFIG] Dry run, notifications are logged only")
		c.Notifier = services.NewLogNotificationService()
	case c.Config.SMTP.Host == "":
		log.Printf("[CONFIG] No SMTP host configured, notifications are logged only")
		c.Notifier = services.NewLogNotificationService()
	default:
		c.Notifier = services.NewSMTPNotificationService(services.SMTPConfig{
			Host:     c.Config.SMTP.Host,
			Port:     c.Config.SMTP.Port,
			Username: c.Config.SMTP.Username,
			Password: c.Config.SMTP.Password,
			From:     c.Config.SMTP.Sender(),
		})
	}

	if c.Config.Alerts.SlackWebhookURL != "" {
		c.Alerts = services.NewSlackAlertService(c.Config.Alerts.SlackWebhookURL)
	} else {
		c.Alerts = services.NewLogAlertService()
	}
	return nil
}

// initUseCases initializes all use case dependencies
func (c *Container) initUseCases() {
	c.PerformJobUC = subscription.NewPerformJobUseCase(
		c.RegistryRepo,
		subscription.NewParser(c.CachedPriceLookup),
		subscription.NewExecutor(c.Notifier, c.Links),
		c.lock,
	)
	// Passes always read fresh prices
	c.ReconcileUC = reconcile.NewReconcileUseCase(
		c.RegistryRepo,
		c.SnapshotRepo,
		reconcile.NewEngine(c.PriceLookup, c.Notifier, c.Links),
		c.lock,
	)
	c.PruneUC = subscription.NewPruneUseCase(c.RegistryRepo, subscription.NewExecutor(c.Notifier, c.Links), c.lock)
}

// initControllers initializes all controller dependencies
func (c *Container) initControllers() {
	c.SubscriptionController = controllers.NewSubscriptionController(c.PerformJobUC, c.ReconcileUC)
	c.HealthController = controllers.NewHealthController(c.RegistryRepo)
	c.HTTPServer = controllers.NewHTTPServer(c.SubscriptionController, c.HealthController, c.options.Verbose)
}

// resolveCallbackURL returns the configured callback URL, reading it from the
// store when only a document key is configured
func (c *Container) resolveCallbackURL(ctx context.Context) (string, error) {
	if c.Config.CallbackURL != "" {
		return c.Config.CallbackURL, nil
	}
	if c.Config.CallbackURLKey == "" {
		return "", errors.New("callback_url or callback_url_key is required")
	}
	data, err := c.Store.Get(ctx, c.Config.CallbackURLKey)
	if err != nil {
		return "", fmt.Errorf("failed to read callback url from %s: %w", c.Config.CallbackURLKey, err)
	}
	callbackURL := strings.TrimSpace(string(data))
	if callbackURL == "" {
		return "", fmt.Errorf("callback url document %s is empty", c.Config.CallbackURLKey)
	}
	return callbackURL, nil
}

// Close releases the store
func (c *Container) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

func storageType(t string) string {
	if t == "" {
		return "memory"
	}
	return t
}
