package subscription

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/internal/usecases/ports/repositories"
)

// PruneUseCase removes products without subscribers from the stored registry
type PruneUseCase struct {
	registryRepo repositories.RegistryRepository
	executor     *Executor
	lock         sync.Locker
}

// NewPruneUseCase creates a new PruneUseCase
func NewPruneUseCase(registryRepo repositories.RegistryRepository, executor *Executor, lock sync.Locker) *PruneUseCase {
	return &PruneUseCase{
		registryRepo: registryRepo,
		executor:     executor,
		lock:         lock,
	}
}

// PruneRequest represents the input of a prune
type PruneRequest struct {
	DryRun       bool
	InvocationID string
}

// PruneResponse represents the output of a prune
type PruneResponse struct {
	InvocationID string
	Outcome      *Outcome
	Previous     entities.Registry
	Registry     entities.Registry
	Saved        bool
}

// Execute prunes the registry. It is saved only when something was removed.
func (uc *PruneUseCase) Execute(ctx context.Context, req *PruneRequest) (*PruneResponse, error) {
	if req == nil {
		req = &PruneRequest{}
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
	previous := registry.Clone()

	outcome, err := uc.executor.Perform(ctx, PruneEmptyProducts{}, registry)
	if err != nil {
		return nil, err
	}

	resp := &PruneResponse{
		InvocationID: invocationID,
		Outcome:      outcome,
		Previous:     previous,
		Registry:     registry,
	}
	if len(outcome.Games) == 0 {
		log.Printf("[JOB %s] Nothing to prune", invocationID)
		return resp, nil
	}
	if req.DryRun {
		log.Printf("[JOB %s] Dry run, %d products would be pruned", invocationID, len(outcome.Games))
		return resp, nil
	}

	if err := uc.registryRepo.Save(ctx, registry); err != nil {
		return nil, fmt.Errorf("failed to save registry: %w", err)
	}
	resp.Saved = true
	log.Printf("[JOB %s] Pruned %d products", invocationID, len(outcome.Games))
	return resp, nil
}
