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

// PerformJobUseCase loads the registry, runs one request against it and
// saves the result
type PerformJobUseCase struct {
	registryRepo repositories.RegistryRepository
	parser       *Parser
	executor     *Executor
	lock         sync.Locker
}

// NewPerformJobUseCase creates a new PerformJobUseCase.
// lock serializes invocations sharing the same store and may be nil.
func NewPerformJobUseCase(
	registryRepo repositories.RegistryRepository,
	parser *Parser,
	executor *Executor,
	lock sync.Locker,
) *PerformJobUseCase {
	return &PerformJobUseCase{
		registryRepo: registryRepo,
		parser:       parser,
		executor:     executor,
		lock:         lock,
	}
}

// PerformJobRequest represents the input for performing a job
type PerformJobRequest struct {
	Request *Request
	// DryRun skips saving the registry
	DryRun bool
	// InvocationID tags log lines; generated when empty
	InvocationID string
}

// PerformJobResponse represents the output of performing a job
type PerformJobResponse struct {
	InvocationID string
	Job          Job
	Outcome      *Outcome
	Previous     entities.Registry
	Registry     entities.Registry
	Saved        bool
}

// Execute performs the request. Nothing is saved unless the whole job succeeds,
// and queries are never saved.
func (uc *PerformJobUseCase) Execute(ctx context.Context, req *PerformJobRequest) (*PerformJobResponse, error) {
	if req == nil || req.Request == nil {
		return nil, entities.NewValidationError("", "request is required")
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

	job, err := uc.parser.Parse(ctx, req.Request, registry)
	if err != nil {
		return nil, err
	}
	log.Printf("[JOB %s] Performing %s job for %s", invocationID, job.Kind(), entities.NormalizeAddress(req.Request.Subscriber))

	outcome, err := uc.executor.Perform(ctx, job, registry)
	if err != nil {
		return nil, err
	}

	resp := &PerformJobResponse{
		InvocationID: invocationID,
		Job:          job,
		Outcome:      outcome,
		Previous:     previous,
		Registry:     registry,
	}
	if req.DryRun {
		log.Printf("[JOB %s] Dry run, registry not saved", invocationID)
		return resp, nil
	}
	if _, readOnly := job.(QuerySubscriptions); readOnly {
		return resp, nil
	}

	if err := uc.registryRepo.Save(ctx, registry); err != nil {
		return nil, fmt.Errorf("failed to save registry: %w", err)
	}
	resp.Saved = true
	log.Printf("[JOB %s] Saved registry with %d products", invocationID, len(registry))
	return resp, nil
}
