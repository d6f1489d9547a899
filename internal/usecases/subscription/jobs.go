package subscription

// Kind identifies a job variant. It is also the "type" tag of its outcome.
type Kind string

const (
	KindRegisterProduct            Kind = "register_product"
	KindAdjustSubscribers          Kind = "adjust_subscribers"
	KindRemoveSubscriberEverywhere Kind = "remove_subscriber_everywhere"
	KindQuerySubscriptions         Kind = "query_subscriptions"
	KindPruneEmptyProducts         Kind = "prune_empty_products"
	KindSequence                   Kind = "sequence"
)

// Job is a mutation (or query) over the subscriber registry.
// The set of implementations is closed; Executor.Perform dispatches on it.
type Job interface {
	Kind() Kind
	isJob()
}

// RegisterProduct starts tracking a product with no subscribers
type RegisterProduct struct {
	ID    string
	Title string
}

// AdjustSubscribers adds and removes subscribers of a registered product.
// CurrentLowestPrice is only used in the welcome message and may be NaN
// when nothing is being added.
type AdjustSubscribers struct {
	ID                 string
	ToAdd              []string
	ToRemove           []string
	CurrentLowestPrice float64
}

// RemoveSubscriberEverywhere drops an address from every product
type RemoveSubscriberEverywhere struct {
	Address string
}

// QuerySubscriptions lists the products an address is subscribed to
type QuerySubscriptions struct {
	Address string
}

// PruneEmptyProducts stops tracking products without subscribers
type PruneEmptyProducts struct{}

// Sequence runs jobs in order against the same registry
type Sequence struct {
	Jobs []Job
}

func (RegisterProduct) Kind() Kind            { return KindRegisterProduct }
func (AdjustSubscribers) Kind() Kind          { return KindAdjustSubscribers }
func (RemoveSubscriberEverywhere) Kind() Kind { return KindRemoveSubscriberEverywhere }
func (QuerySubscriptions) Kind() Kind         { return KindQuerySubscriptions }
func (PruneEmptyProducts) Kind() Kind         { return KindPruneEmptyProducts }
func (Sequence) Kind() Kind                   { return KindSequence }

func (RegisterProduct) isJob()            {}
func (AdjustSubscribers) isJob()          {}
func (RemoveSubscriberEverywhere) isJob() {}
func (QuerySubscriptions) isJob()         {}
func (PruneEmptyProducts) isJob()         {}
func (Sequence) isJob()                   {}
