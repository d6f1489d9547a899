package subscription

import (
	"encoding/json"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// Outcome is the result of performing a job. It is serialized as the
// response body; only the fields relevant to Type are emitted.
type Outcome struct {
	Type       Kind
	Success    bool
	Reason     string
	Added      []string
	Removed    []string
	Subscriber string
	Games      []entities.GameRef
	Responses  []*Outcome
}

// MarshalJSON emits the variant-specific response shape
func (o *Outcome) MarshalJSON() ([]byte, error) {
	body := map[string]interface{}{"type": o.Type}
	switch o.Type {
	case KindRegisterProduct:
		body["success"] = o.Success
		if o.Reason != "" {
			body["reason"] = o.Reason
		}
	case KindAdjustSubscribers:
		body["success"] = o.Success
		body["added"] = nonNil(o.Added)
		body["removed"] = nonNil(o.Removed)
	case KindRemoveSubscriberEverywhere:
		body["subscriber"] = o.Subscriber
	case KindQuerySubscriptions, KindPruneEmptyProducts:
		games := o.Games
		if games == nil {
			games = []entities.GameRef{}
		}
		body["games"] = games
	case KindSequence:
		responses := o.Responses
		if responses == nil {
			responses = []*Outcome{}
		}
		body["responses"] = responses
	}
	return json.Marshal(body)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
