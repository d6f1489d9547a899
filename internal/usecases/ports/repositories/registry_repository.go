package repositories

import (
	"context"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// RegistryRepository persists the subscriber registry as a single document.
// Save replaces the whole document; a missing document loads as an empty registry.
type RegistryRepository interface {
	Load(ctx context.Context) (entities.Registry, error)
	Save(ctx context.Context, registry entities.Registry) error
}
