package entities

import (
	"sort"
	"time"
)

// Snapshot records the last observed price of a product and which
// subscribers have already been told about it
type Snapshot struct {
	lowestPrice         float64
	upToDateSubscribers []string
	lastUpdated         time.Time
}

// NewSnapshot creates a snapshot stamped with the current time.
// The subscriber slice is copied.
func NewSnapshot(lowestPrice float64, upToDate []string) *Snapshot {
	return RestoreSnapshot(lowestPrice, upToDate, time.Now())
}

// RestoreSnapshot rebuilds a snapshot from persisted fields
func RestoreSnapshot(lowestPrice float64, upToDate []string, lastUpdated time.Time) *Snapshot {
	subs := make([]string, len(upToDate))
	copy(subs, upToDate)
	return &Snapshot{
		lowestPrice:         lowestPrice,
		upToDateSubscribers: subs,
		lastUpdated:         lastUpdated,
	}
}

// LowestPrice returns the observed lowest price in USD
func (s *Snapshot) LowestPrice() float64 {
	return s.lowestPrice
}

// UpToDateSubscribers returns a copy of the informed subscribers
func (s *Snapshot) UpToDateSubscribers() []string {
	out := make([]string, len(s.upToDateSubscribers))
	copy(out, s.upToDateSubscribers)
	return out
}

// LastUpdated returns when the snapshot was taken
func (s *Snapshot) LastUpdated() time.Time {
	return s.lastUpdated
}

// ContinuingSubscribers returns the subscribers present both in this
// snapshot and in live, keeping this snapshot's order
func (s *Snapshot) ContinuingSubscribers(live []string) []string {
	current := make(map[string]struct{}, len(live))
	for _, a := range live {
		current[NormalizeAddress(a)] = struct{}{}
	}
	result := []string{}
	for _, a := range s.upToDateSubscribers {
		if _, ok := current[NormalizeAddress(a)]; ok {
			result = append(result, a)
		}
	}
	return result
}

// SnapshotTable maps product identifiers to their latest snapshot
type SnapshotTable map[string]*Snapshot

// NewSnapshotTable creates an empty table
func NewSnapshotTable() SnapshotTable {
	return make(SnapshotTable)
}

// Keys returns the product identifiers sorted ascending
func (t SnapshotTable) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
