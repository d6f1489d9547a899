package reconcile

import (
	"context"
	"fmt"
	"log"
	"math"

	"github.com/storechecker/storechecker/internal/domain/entities"
	domainservices "github.com/storechecker/storechecker/internal/domain/services"
	"github.com/storechecker/storechecker/internal/usecases/ports/services"
)

// PriceBand is the largest price movement, in USD, treated as unchanged
const PriceBand = 0.01

// absorbs float error so that a one-cent change stays inside the band
const bandEpsilon = 1e-9

// Status describes what a pass decided for one product
type Status string

const (
	StatusFirstObservation Status = "first_observation"
	StatusUnchanged        Status = "unchanged"
	StatusNoRecipients     Status = "no_recipients"
	StatusNotified         Status = "notified"
)

// ProductResult is the decision taken for one product
type ProductResult struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	OldPrice   *float64 `json:"old_price,omitempty"`
	NewPrice   float64  `json:"new_price"`
	Status     Status   `json:"status"`
	Recipients []string `json:"recipients,omitempty"`
}

// Report summarizes a reconciliation pass
type Report struct {
	Products []ProductResult `json:"products"`
}

// NotifiedCount returns the number of products that triggered a notification
func (r *Report) NotifiedCount() int {
	n := 0
	for _, p := range r.Products {
		if p.Status == StatusNotified {
			n++
		}
	}
	return n
}

// Engine compares fresh prices with the previous snapshots and notifies
// subscribers of qualifying changes
type Engine struct {
	lookup   services.PriceLookupService
	notifier services.NotificationService
	links    *domainservices.LinkFormatter
}

// NewEngine creates a new Engine
func NewEngine(lookup services.PriceLookupService, notifier services.NotificationService, links *domainservices.LinkFormatter) *Engine {
	return &Engine{
		lookup:   lookup,
		notifier: notifier,
		links:    links,
	}
}

// Run builds a new snapshot table for every product in registry.
// Snapshots of products no longer in the registry are not carried over.
// Any lookup or notification failure aborts the pass.
func (e *Engine) Run(ctx context.Context, registry entities.Registry, previous entities.SnapshotTable) (entities.SnapshotTable, *Report, error) {
	next := entities.NewSnapshotTable()
	report := &Report{Products: []ProductResult{}}

	for _, id := range registry.Keys() {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		sub, _ := registry.Get(id)

		quote, err := e.lookup.Fetch(ctx, id)
		if err != nil {
			return nil, nil, &entities.LookupError{ID: id, Err: err}
		}
		live := sub.Subscribers()
		snapshot := entities.NewSnapshot(quote.LowestPrice, live)
		result := ProductResult{ID: id, Title: sub.Title(), NewPrice: quote.LowestPrice}

		old, ok := previous[id]
		switch {
		case !ok || old == nil:
			result.Status = StatusFirstObservation
			log.Printf("[RECONCILE] %s: first observation at $%.2f", id, quote.LowestPrice)
		default:
			oldPrice := old.LowestPrice()
			result.OldPrice = &oldPrice
			delta := quote.LowestPrice - oldPrice

			if math.Abs(delta) <= PriceBand+bandEpsilon {
				result.Status = StatusUnchanged
				break
			}

			continuing := old.ContinuingSubscribers(live)
			if len(continuing) == 0 {
				result.Status = StatusNoRecipients
				log.Printf("[RECONCILE] %s: price moved $%.2f -> $%.2f but nobody is owed a notification", id, oldPrice, quote.LowestPrice)
				break
			}

			msg := domainservices.NewPriceChangeMessage(continuing, sub.Title(), oldPrice, quote.LowestPrice, e.links.ForProduct(id))
			if err := e.notifier.Send(ctx, msg); err != nil {
				return nil, nil, fmt.Errorf("failed to send price change notification for %s: %w", id, err)
			}
			result.Status = StatusNotified
			result.Recipients = continuing
			log.Printf("[RECONCILE] %s: price moved $%.2f -> $%.2f, notified %d subscribers", id, oldPrice, quote.LowestPrice, len(continuing))
		}

		next[id] = snapshot
		report.Products = append(report.Products, result)
	}

	return next, report, nil
}
