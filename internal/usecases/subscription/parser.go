package subscription

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/internal/usecases/ports/services"
)

// Parser turns requests into jobs
type Parser struct {
	lookup services.PriceLookupService
}

// NewParser creates a new Parser
func NewParser(lookup services.PriceLookupService) *Parser {
	return &Parser{lookup: lookup}
}

// Parse builds the job for req. The registry is only read, to decide whether
// an ADD needs to register the product first.
func (p *Parser) Parse(ctx context.Context, req *Request, registry entities.Registry) (Job, error) {
	if req == nil {
		return nil, entities.NewValidationError("", "request is required")
	}

	subscriber := entities.NormalizeAddress(req.Subscriber)
	if subscriber == "" {
		return nil, entities.NewValidationError("subscriber", "subscriber is required")
	}
	id := req.ProductID()

	switch strings.ToUpper(strings.TrimSpace(req.Type)) {
	case RequestTypeAdd:
		if id == "" {
			return nil, entities.NewValidationError("id", "id is required for ADD")
		}
		quote, err := p.lookup.Fetch(ctx, id)
		if err != nil {
			return nil, &entities.LookupError{ID: id, Err: err}
		}
		jobs := make([]Job, 0, 2)
		if _, ok := registry.Get(id); !ok {
			jobs = append(jobs, RegisterProduct{ID: id, Title: quote.Title})
		}
		jobs = append(jobs, AdjustSubscribers{
			ID:                 id,
			ToAdd:              []string{subscriber},
			CurrentLowestPrice: quote.LowestPrice,
		})
		return Sequence{Jobs: jobs}, nil

	case RequestTypeRemove:
		if id == "" {
			return Sequence{Jobs: []Job{
				RemoveSubscriberEverywhere{Address: subscriber},
				PruneEmptyProducts{},
			}}, nil
		}
		return Sequence{Jobs: []Job{
			AdjustSubscribers{
				ID:                 id,
				ToRemove:           []string{subscriber},
				CurrentLowestPrice: math.NaN(),
			},
			PruneEmptyProducts{},
		}}, nil

	case RequestTypeCheck:
		return QuerySubscriptions{Address: subscriber}, nil

	case "":
		return nil, entities.NewValidationError("type", "type is required")
	default:
		return nil, entities.NewValidationError("type", fmt.Sprintf("unknown request type %q", req.Type))
	}
}
