package subscription

import (
	"context"
	"sync"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// MockNotifier records every message sent
type MockNotifier struct {
	mu       sync.Mutex
	messages []*entities.Message
	sendErr  error
}

func (m *MockNotifier) Send(ctx context.Context, msg *entities.Message) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	if len(msg.To) == 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
	return nil
}

func (m *MockNotifier) Messages() []*entities.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*entities.Message(nil), m.messages...)
}

// MockPriceLookup serves quotes from a map
type MockPriceLookup struct {
	quotes   map[string]*entities.PriceQuote
	calls    int
	fetchErr error
}

func NewMockPriceLookup(quotes ...*entities.PriceQuote) *MockPriceLookup {
	m := &MockPriceLookup{quotes: make(map[string]*entities.PriceQuote)}
	for _, q := range quotes {
		m.quotes[q.ID] = q
	}
	return m
}

func (m *MockPriceLookup) Fetch(ctx context.Context, id string) (*entities.PriceQuote, error) {
	m.calls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	q, ok := m.quotes[id]
	if !ok {
		return nil, entities.ErrProductNotFound{ID: id}
	}
	return q, nil
}

// MockRegistryRepository keeps the registry in memory
type MockRegistryRepository struct {
	registry entities.Registry
	saves    int
	loadErr  error
	saveErr  error
}

func NewMockRegistryRepository(registry entities.Registry) *MockRegistryRepository {
	if registry == nil {
		registry = entities.NewRegistry()
	}
	return &MockRegistryRepository{registry: registry}
}

func (m *MockRegistryRepository) Load(ctx context.Context) (entities.Registry, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.registry.Clone(), nil
}

func (m *MockRegistryRepository) Save(ctx context.Context, registry entities.Registry) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.registry = registry.Clone()
	return nil
}
