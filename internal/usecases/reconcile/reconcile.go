package reconcile

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/internal/usecases/ports/repositories"
)

// ReconcileUseCase runs one reconciliation pass over the stored registry
type ReconcileUseCase struct {
	registryRepo repositories.RegistryRepository
	snapshotRepo repositories.SnapshotRepository
	engine       *Engine
	lock         sync.Locker
}

// NewReconcileUseCase creates a new ReconcileUseCase.
// lock serializes invocations sharing the same store and may be nil.
func NewReconcileUseCase(
	registryRepo repositories.RegistryRepository,
	snapshotRepo repositories.SnapshotRepository,
	engine *Engine,
	lock sync.Locker,
) *ReconcileUseCase {
	return &ReconcileUseCase{
		registryRepo: registryRepo,
		snapshotRepo: snapshotRepo,
		engine:       engine,
		lock:         lock,
	}
}

// ReconcileRequest represents the input of a pass
type ReconcileRequest struct {
	// DryRun skips saving the snapshot table
	DryRun       bool
	InvocationID string
}

// ReconcileResponse represents the output of a pass
type ReconcileResponse struct {
	InvocationID string
	Report       *Report
	Previous     entities.SnapshotTable
	Snapshots    entities.SnapshotTable
	Saved        bool
}

// Execute runs the pass and saves the new snapshot table when it succeeds
func (uc *ReconcileUseCase) Execute(ctx context.Context, req *ReconcileRequest) (*ReconcileResponse, error) {
	if req == nil {
		req = &ReconcileRequest{}
	}
	invocationID := req.InvocationID
	if invocationID == "" {
		invocationID = uuid.New().String()
	}

	if uc.lock != nil {
		uc.lock.Lock()
		defer uc.lock.Unlock()
	}

	registry, err := uc.registryRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	previous, err := uc.snapshotRepo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshots: %w", err)
	}

	log.Printf("[RECONCILE %s] Checking %d products", invocationID, len(registry))
	snapshots, report, err := uc.engine.Run(ctx, registry, previous)
	if err != nil {
		return nil, err
	}

	resp := &ReconcileResponse{
		InvocationID: invocationID,
		Report:       report,
		Previous:     previous,
		Snapshots:    snapshots,
	}
	if req.DryRun {
		log.Printf("[RECONCILE %s] Dry run, snapshots not saved", invocationID)
		return resp, nil
	}

	if err := uc.snapshotRepo.Save(ctx, snapshots); err != nil {
		return nil, fmt.Errorf("failed to save snapshots: %w", err)
	}
	resp.Saved = true
	log.Printf("[RECONCILE %s] Saved %d snapshots, %d products notified", invocationID, len(snapshots), report.NotifiedCount())
	return resp, nil
}
