package subscription

import (
	"context"
	"fmt"
	"log"

	"github.com/storechecker/storechecker/internal/domain/entities"
	domainservices "github.com/storechecker/storechecker/internal/domain/services"
	"github.com/storechecker/storechecker/internal/usecases/ports/services"
)

// Executor performs jobs against an in-memory registry
type Executor struct {
	notifier services.NotificationService
	links    *domainservices.LinkFormatter
}

// NewExecutor creates a new Executor
func NewExecutor(notifier services.NotificationService, links *domainservices.LinkFormatter) *Executor {
	return &Executor{
		notifier: notifier,
		links:    links,
	}
}

// Perform applies job to registry and returns its outcome.
// A failing job inside a Sequence stops the sequence; mutations made by the
// jobs before it stay applied to registry.
func (e *Executor) Perform(ctx context.Context, job Job, registry entities.Registry) (*Outcome, error) {
	switch j := job.(type) {
	case RegisterProduct:
		return e.registerProduct(j, registry), nil
	case AdjustSubscribers:
		return e.adjustSubscribers(ctx, j, registry)
	case RemoveSubscriberEverywhere:
		return e.removeSubscriberEverywhere(ctx, j, registry)
	case QuerySubscriptions:
		return e.querySubscriptions(j, registry)
	case PruneEmptyProducts:
		return e.pruneEmptyProducts(registry), nil
	case Sequence:
		return e.sequence(ctx, j, registry)
	case nil:
		return nil, fmt.Errorf("job is nil")
	default:
		return nil, fmt.Errorf("unsupported job type %T", job)
	}
}

func (e *Executor) registerProduct(j RegisterProduct, registry entities.Registry) *Outcome {
	if _, ok := registry.Get(j.ID); ok {
		log.Printf("[JOB] Product %s is already registered", j.ID)
		return &Outcome{Type: KindRegisterProduct, Success: false, Reason: "product already exists"}
	}
	registry.Put(j.ID, entities.NewSubscription(j.Title))
	log.Printf("[JOB] Registered product %s (%s)", j.ID, j.Title)
	return &Outcome{Type: KindRegisterProduct, Success: true}
}

func (e *Executor) adjustSubscribers(ctx context.Context, j AdjustSubscribers, registry entities.Registry) (*Outcome, error) {
	sub, ok := registry.Get(j.ID)
	if !ok {
		return nil, entities.ErrUnknownProduct{ID: j.ID}
	}

	toAdd := entities.NormalizeAddresses(j.ToAdd)
	toRemove := entities.NormalizeAddresses(j.ToRemove)

	added := make([]string, 0, len(toAdd))
	for _, address := range toAdd {
		if i := indexOf(toRemove, address); i >= 0 {
			log.Printf("[JOB] Error: %s is in both the add and remove lists for %s, ignoring it", address, j.ID)
			toRemove = append(toRemove[:i], toRemove[i+1:]...)
			continue
		}
		if !sub.AddSubscriber(address) {
			log.Printf("[JOB] Warning: %s is already subscribed to %s", address, j.ID)
			continue
		}
		added = append(added, address)
	}

	for _, address := range toRemove {
		if !sub.RemoveSubscriber(address) {
			log.Printf("[JOB] Warning: %s was not subscribed to %s", address, j.ID)
		}
	}

	links := e.links.ForProduct(j.ID)
	if len(added) > 0 {
		msg := domainservices.NewWelcomeMessage(added, sub.Title(), j.CurrentLowestPrice, links)
		if err := e.notifier.Send(ctx, msg); err != nil {
			return nil, fmt.Errorf("failed to send welcome notification: %w", err)
		}
	}
	if len(toRemove) > 0 {
		msg := domainservices.NewUnsubscribedMessage(toRemove, sub.Title(), links)
		if err := e.notifier.Send(ctx, msg); err != nil {
			return nil, fmt.Errorf("failed to send unsubscribe notification: %w", err)
		}
	}

	log.Printf("[JOB] Adjusted %s: added %d, removed %d", j.ID, len(added), len(toRemove))
	return &Outcome{
		Type:    KindAdjustSubscribers,
		Success: true,
		Added:   added,
		Removed: toRemove,
	}, nil
}

func (e *Executor) removeSubscriberEverywhere(ctx context.Context, j RemoveSubscriberEverywhere, registry entities.Registry) (*Outcome, error) {
	address := entities.NormalizeAddress(j.Address)
	if address == "" {
		return nil, entities.NewValidationError("subscriber", "address is required")
	}

	count := 0
	registry.Each(func(id string, sub *entities.Subscription) {
		if sub.RemoveSubscriber(address) {
			count++
		}
	})
	log.Printf("[JOB] Removed %s from %d products", address, count)

	if err := e.notifier.Send(ctx, domainservices.NewUnsubscribedEverywhereMessage(address)); err != nil {
		return nil, fmt.Errorf("failed to send unsubscribe notification: %w", err)
	}
	return &Outcome{Type: KindRemoveSubscriberEverywhere, Subscriber: address}, nil
}

func (e *Executor) querySubscriptions(j QuerySubscriptions, registry entities.Registry) (*Outcome, error) {
	address := entities.NormalizeAddress(j.Address)
	if address == "" {
		return nil, entities.NewValidationError("subscriber", "address is required")
	}

	games := []entities.GameRef{}
	registry.Each(func(id string, sub *entities.Subscription) {
		if sub.HasSubscriber(address) {
			games = append(games, entities.GameRef{Title: sub.Title(), ID: id})
		}
	})
	return &Outcome{Type: KindQuerySubscriptions, Games: games}, nil
}

func (e *Executor) pruneEmptyProducts(registry entities.Registry) *Outcome {
	pruned := []entities.GameRef{}
	registry.Each(func(id string, sub *entities.Subscription) {
		if sub.IsEmpty() {
			pruned = append(pruned, entities.GameRef{Title: sub.Title(), ID: id})
		}
	})
	for _, g := range pruned {
		registry.Remove(g.ID)
		log.Printf("[JOB] Pruned product %s (%s)", g.ID, g.Title)
	}
	return &Outcome{Type: KindPruneEmptyProducts, Games: pruned}
}

func (e *Executor) sequence(ctx context.Context, j Sequence, registry entities.Registry) (*Outcome, error) {
	responses := make([]*Outcome, 0, len(j.Jobs))
	for i, job := range j.Jobs {
		outcome, err := e.Perform(ctx, job, registry)
		if err != nil {
			return nil, fmt.Errorf("job %d of sequence failed: %w", i, err)
		}
		responses = append(responses, outcome)
	}
	return &Outcome{Type: KindSequence, Responses: responses}, nil
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
