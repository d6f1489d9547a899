package storage

import (
	"context"
	"fmt"
)

// NewStore creates a store based on the configuration
func NewStore(ctx context.Context, config *StorageConfig) (Store, error) {
	if config == nil {
		return NewMemoryStore(), nil
	}

	switch config.Type {
	case "memory", "":
		return NewMemoryStore(), nil

	case "file":
		if config.Directory == "" {
			config.Directory = "./data"
		}
		return NewFileStore(config.Directory)

	case "s3":
		return NewS3Store(ctx, config)

	default:
		return nil, fmt.Errorf("unknown storage type: %s", config.Type)
	}
}
