package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no document is stored under a key
var ErrNotFound = errors.New("document not found")

// Store persists whole documents under string keys.
// Put replaces the document in one operation; there are no partial updates.
type Store interface {
	// Get returns the document stored under key, or ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key, replacing any previous document
	Put(ctx context.Context, key string, data []byte) error

	// Close cleans up any resources
	Close() error
}

// StorageConfig holds configuration for storage backends
type StorageConfig struct {
	Type string `json:"type" yaml:"type" toml:"type" mapstructure:"type"` // "memory", "file", "s3"

	// File storage config
	Directory string `json:"directory,omitempty" yaml:"directory,omitempty" toml:"directory,omitempty" mapstructure:"directory"`

	// S3 storage config
	Bucket    string `json:"bucket,omitempty" yaml:"bucket,omitempty" toml:"bucket,omitempty" mapstructure:"bucket"`
	Region    string `json:"region,omitempty" yaml:"region,omitempty" toml:"region,omitempty" mapstructure:"region"`
	Prefix    string `json:"prefix,omitempty" yaml:"prefix,omitempty" toml:"prefix,omitempty" mapstructure:"prefix"`
	Endpoint  string `json:"endpoint,omitempty" yaml:"endpoint,omitempty" toml:"endpoint,omitempty" mapstructure:"endpoint"`
	AccessKey string `json:"access_key,omitempty" yaml:"access_key,omitempty" toml:"access_key,omitempty" mapstructure:"access_key"`
	SecretKey string `json:"secret_key,omitempty" yaml:"secret_key,omitempty" toml:"secret_key,omitempty" mapstructure:"secret_key"`
}
