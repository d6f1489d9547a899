package subscription

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// Request types accepted by the parser
const (
	RequestTypeAdd    = "ADD"
	RequestTypeRemove = "REMOVE"
	RequestTypeCheck  = "CHECK"
)

// Request is the structured form of an inbound job request.
// Slug is accepted as an alias of ID.
type Request struct {
	Type       string `json:"type"`
	Subscriber string `json:"subscriber"`
	ID         string `json:"id,omitempty"`
	Slug       string `json:"slug,omitempty"`
}

// ProductID returns the product identifier carried by the request, if any
func (r *Request) ProductID() string {
	if id := strings.TrimSpace(r.ID); id != "" {
		return id
	}
	return strings.TrimSpace(r.Slug)
}

// RequestFromValues builds a request from flat key/value pairs
func RequestFromValues(values map[string]string) *Request {
	return &Request{
		Type:       values["type"],
		Subscriber: values["subscriber"],
		ID:         values["id"],
		Slug:       values["slug"],
	}
}

// RequestFromReferer extracts the key/value pairs from the query part of a
// referrer URL. Every pair must have exactly one "=" separator.
func RequestFromReferer(referer string) (*Request, error) {
	if strings.TrimSpace(referer) == "" {
		return nil, entities.NewValidationError("referer", "no parameters found")
	}
	parts := strings.Split(referer, "?")
	query := parts[len(parts)-1]

	values := make(map[string]string)
	for _, pair := range strings.Split(query, "&") {
		kv := strings.Split(pair, "=")
		if len(kv) != 2 {
			return nil, entities.NewValidationError("referer", fmt.Sprintf("params not understood from referer link: %s", referer))
		}
		value, err := url.PathUnescape(kv[1])
		if err != nil {
			return nil, entities.NewValidationError("referer", fmt.Sprintf("invalid escape in %q", pair))
		}
		values[kv[0]] = value
	}
	return RequestFromValues(values), nil
}

type event struct {
	QueryStringParameters *map[string]string `json:"queryStringParameters"`
	Headers               map[string]string  `json:"headers"`
}

// DecodeEvent decodes a gateway-style event.
//
// An event without queryStringParameters (or with a null value) is itself the
// structured request. Non-empty query parameters are used as flat key/value
// pairs. Empty query parameters fall back to the referer header.
func DecodeEvent(data []byte) (*Request, error) {
	var ev event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, entities.NewValidationError("", fmt.Sprintf("malformed event: %v", err))
	}

	if ev.QueryStringParameters == nil {
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, entities.NewValidationError("", fmt.Sprintf("malformed request: %v", err))
		}
		return &req, nil
	}

	if params := *ev.QueryStringParameters; len(params) > 0 {
		return RequestFromValues(params), nil
	}

	referer := ev.Headers["referer"]
	if referer == "" {
		referer = ev.Headers["Referer"]
	}
	return RequestFromReferer(referer)
}
