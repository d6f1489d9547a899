package entities

import (
	"sort"
	"strings"
	"time"
)

// NormalizeAddress lower-cases and trims a subscriber email address.
// Every address is normalized before it is compared or stored.
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// NormalizeAddresses normalizes a list of addresses, dropping empty entries
// and duplicates while keeping first-seen order.
func NormalizeAddresses(addresses []string) []string {
	result := make([]string, 0, len(addresses))
	seen := make(map[string]struct{}, len(addresses))
	for _, a := range addresses {
		n := NormalizeAddress(a)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		result = append(result, n)
	}
	return result
}

// Subscription holds the subscribers of a single product
type Subscription struct {
	title        string
	subscribers  []string
	lastModified time.Time
}

// NewSubscription creates a subscription with no subscribers
func NewSubscription(title string) *Subscription {
	return &Subscription{
		title:        title,
		subscribers:  []string{},
		lastModified: time.Now(),
	}
}

// RestoreSubscription rebuilds a subscription from persisted fields.
// Addresses are normalized and de-duplicated.
func RestoreSubscription(title string, subscribers []string, lastModified time.Time) *Subscription {
	return &Subscription{
		title:        title,
		subscribers:  NormalizeAddresses(subscribers),
		lastModified: lastModified,
	}
}

// Title returns the product title
func (s *Subscription) Title() string {
	return s.title
}

// Subscribers returns a copy of the subscriber addresses in insertion order
func (s *Subscription) Subscribers() []string {
	out := make([]string, len(s.subscribers))
	copy(out, s.subscribers)
	return out
}

// LastModified returns when the subscriber list last changed
func (s *Subscription) LastModified() time.Time {
	return s.lastModified
}

// HasSubscriber reports whether the address is subscribed
func (s *Subscription) HasSubscriber(address string) bool {
	return s.indexOf(NormalizeAddress(address)) >= 0
}

// AddSubscriber adds the address and reports whether it was newly added
func (s *Subscription) AddSubscriber(address string) bool {
	n := NormalizeAddress(address)
	if n == "" || s.indexOf(n) >= 0 {
		return false
	}
	s.subscribers = append(s.subscribers, n)
	s.lastModified = time.Now()
	return true
}

// RemoveSubscriber removes the address and reports whether it was present
func (s *Subscription) RemoveSubscriber(address string) bool {
	i := s.indexOf(NormalizeAddress(address))
	if i < 0 {
		return false
	}
	s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
	s.lastModified = time.Now()
	return true
}

// IsEmpty reports whether nobody is subscribed
func (s *Subscription) IsEmpty() bool {
	return len(s.subscribers) == 0
}

// Clone returns a deep copy
func (s *Subscription) Clone() *Subscription {
	return &Subscription{
		title:        s.title,
		subscribers:  s.Subscribers(),
		lastModified: s.lastModified,
	}
}

func (s *Subscription) indexOf(normalized string) int {
	for i, a := range s.subscribers {
		if a == normalized {
			return i
		}
	}
	return -1
}

// Registry maps product identifiers to their subscriptions
type Registry map[string]*Subscription

// NewRegistry creates an empty registry
func NewRegistry() Registry {
	return make(Registry)
}

// Get returns the subscription for a product
func (r Registry) Get(id string) (*Subscription, bool) {
	s, ok := r[id]
	return s, ok
}

// Put stores the subscription for a product, replacing any existing one
func (r Registry) Put(id string, s *Subscription) {
	r[id] = s
}

// Remove deletes a product from the registry
func (r Registry) Remove(id string) {
	delete(r, id)
}

// Keys returns the product identifiers sorted ascending
func (r Registry) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Each calls fn for every product in key order
func (r Registry) Each(fn func(id string, s *Subscription)) {
	for _, k := range r.Keys() {
		fn(k, r[k])
	}
}

// Clone returns a deep copy of the registry
func (r Registry) Clone() Registry {
	out := make(Registry, len(r))
	for k, v := range r {
		out[k] = v.Clone()
	}
	return out
}
