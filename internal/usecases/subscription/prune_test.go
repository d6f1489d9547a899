package subscription

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storechecker/storechecker/internal/domain/entities"
	domainservices "github.com/storechecker/storechecker/internal/domain/services"
)

func newPruneRegistry() entities.Registry {
	registry := entities.NewRegistry()
	registry.Put("empty-switch", entities.RestoreSubscription("Empty Game", nil, time.Now()))
	registry.Put("game-x-switch", entities.RestoreSubscription("Game X", []string{"a@x.com"}, time.Now()))
	return registry
}

func newTestPruneUseCase(repo *MockRegistryRepository) *PruneUseCase {
	executor := NewExecutor(&MockNotifier{}, domainservices.NewLinkFormatter("https://example.com/subscribe"))
	return NewPruneUseCase(repo, executor, nil)
}

func TestPruneUseCase_RemovesEmptyProducts(t *testing.T) {
	repo := NewMockRegistryRepository(newPruneRegistry())

	resp, err := newTestPruneUseCase(repo).Execute(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, resp.Saved)
	assert.Equal(t, []entities.GameRef{{Title: "Empty Game", ID: "empty-switch"}}, resp.Outcome.Games)
	assert.Len(t, resp.Previous, 2)
	assert.Equal(t, []string{"game-x-switch"}, repo.registry.Keys())
}

func TestPruneUseCase_DryRunAndNoop(t *testing.T) {
	repo := NewMockRegistryRepository(newPruneRegistry())
	uc := newTestPruneUseCase(repo)

	resp, err := uc.Execute(context.Background(), &PruneRequest{DryRun: true})
	require.NoError(t, err)
	assert.False(t, resp.Saved)
	assert.Len(t, resp.Registry, 1)
	assert.Equal(t, 0, repo.saves)

	_, err = uc.Execute(context.Background(), nil)
	require.NoError(t, err)
	resp, err = uc.Execute(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, resp.Saved, "nothing left to prune")
	assert.Equal(t, 1, repo.saves)
}

func TestPruneUseCase_RepositoryErrors(t *testing.T) {
	repo := NewMockRegistryRepository(newPruneRegistry())
	repo.loadErr = errors.New("bucket missing")

	_, err := newTestPruneUseCase(repo).Execute(context.Background(), nil)
	assert.ErrorContains(t, err, "failed to load registry")

	repo.loadErr = nil
	repo.saveErr = errors.New("denied")
	_, err = newTestPruneUseCase(repo).Execute(context.Background(), nil)
	assert.ErrorContains(t, err, "failed to save registry")
}
