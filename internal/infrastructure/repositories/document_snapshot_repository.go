package repositories

import (
	"context"
	"time"

	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/internal/usecases/ports/repositories"
	"github.com/storechecker/storechecker/pkg/storage"
)

// SnapshotDocument is the stored form of one product snapshot
type SnapshotDocument struct {
	LowestPrice         float64   `json:"lowest_price" yaml:"lowest_price"`
	SubscribersUpToDate []string  `json:"subscribers_up_to_date" yaml:"subscribers_up_to_date"`
	LastUpdated         Timestamp `json:"last_updated" yaml:"last_updated"`
}

// SnapshotTableDocument converts a snapshot table to its stored form
func SnapshotTableDocument(table entities.SnapshotTable) map[string]SnapshotDocument {
	doc := make(map[string]SnapshotDocument, len(table))
	for id, s := range table {
		doc[id] = SnapshotDocument{
			LowestPrice:         s.LowestPrice(),
			SubscribersUpToDate: s.UpToDateSubscribers(),
			LastUpdated:         Timestamp(s.LastUpdated()),
		}
	}
	return doc
}

// DocumentSnapshotRepository stores the snapshot table as one JSON document
type DocumentSnapshotRepository struct {
	store storage.Store
	key   string
}

// NewDocumentSnapshotRepository creates a repository for the document at key
func NewDocumentSnapshotRepository(store storage.Store, key string) *DocumentSnapshotRepository {
	return &DocumentSnapshotRepository{store: store, key: key}
}

// Load reads the snapshot table. A missing document is an empty table.
func (r *DocumentSnapshotRepository) Load(ctx context.Context) (entities.SnapshotTable, error) {
	var doc map[string]SnapshotDocument
	if _, err := loadDocument(ctx, r.store, r.key, &doc); err != nil {
		return nil, err
	}

	table := entities.NewSnapshotTable()
	for id, d := range doc {
		table[id] = entities.RestoreSnapshot(d.LowestPrice, entities.NormalizeAddresses(d.SubscribersUpToDate), time.Time(d.LastUpdated))
	}
	return table, nil
}

// Save replaces the stored snapshot table
func (r *DocumentSnapshotRepository) Save(ctx context.Context, table entities.SnapshotTable) error {
	return saveDocument(ctx, r.store, r.key, SnapshotTableDocument(table))
}

var _ repositories.SnapshotRepository = (*DocumentSnapshotRepository)(nil)
