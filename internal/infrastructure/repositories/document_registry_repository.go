package repositories

import (
	"context"
	"time"

	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/internal/usecases/ports/repositories"
	"github.com/storechecker/storechecker/pkg/storage"
)

// SubscriptionDocument is the stored form of one product subscription
type SubscriptionDocument struct {
	ToAddresses []string  `json:"to_addresses" yaml:"to_addresses"`
	Title       string    `json:"title" yaml:"title"`
	LastUpdated Timestamp `json:"last_updated" yaml:"last_updated"`
}

// RegistryDocument converts a registry to its stored form
func RegistryDocument(registry entities.Registry) map[string]SubscriptionDocument {
	doc := make(map[string]SubscriptionDocument, len(registry))
	registry.Each(func(id string, s *entities.Subscription) {
		doc[id] = SubscriptionDocument{
			ToAddresses: s.Subscribers(),
			Title:       s.Title(),
			LastUpdated: Timestamp(s.LastModified()),
		}
	})
	return doc
}

// DocumentRegistryRepository stores the registry as one JSON document
type DocumentRegistryRepository struct {
	store storage.Store
	key   string
}

// NewDocumentRegistryRepository creates a repository for the document at key
func NewDocumentRegistryRepository(store storage.Store, key string) *DocumentRegistryRepository {
	return &DocumentRegistryRepository{store: store, key: key}
}

// Load reads the registry. A missing document is an empty registry.
func (r *DocumentRegistryRepository) Load(ctx context.Context) (entities.Registry, error) {
	var doc map[string]SubscriptionDocument
	if _, err := loadDocument(ctx, r.store, r.key, &doc); err != nil {
		return nil, err
	}

	registry := entities.NewRegistry()
	for id, d := range doc {
		registry.Put(id, entities.RestoreSubscription(d.Title, d.ToAddresses, time.Time(d.LastUpdated)))
	}
	return registry, nil
}

// Save replaces the stored registry
func (r *DocumentRegistryRepository) Save(ctx context.Context, registry entities.Registry) error {
	return saveDocument(ctx, r.store, r.key, RegistryDocument(registry))
}

var _ repositories.RegistryRepository = (*DocumentRegistryRepository)(nil)
