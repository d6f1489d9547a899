package repositories

import (
	"context"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// SnapshotRepository persists the snapshot table as a single document.
// Save replaces the whole document; a missing document loads as an empty table.
type SnapshotRepository interface {
	Load(ctx context.Context) (entities.SnapshotTable, error)
	Save(ctx context.Context, table entities.SnapshotTable) error
}
