package entities

import "fmt"

// ErrUnknownProduct is returned when a job targets a product that was never registered
type ErrUnknownProduct struct {
	ID string
}

func (e ErrUnknownProduct) Error() string {
	return "unknown product: " + e.ID
}

// ErrProductNotFound is returned when the price lookup has no match for a product
type ErrProductNotFound struct {
	ID    string
	Query string
}

func (e ErrProductNotFound) Error() string {
	return fmt.Sprintf("product %q did not appear in search results for query %q", e.ID, e.Query)
}

// ValidationError is returned when a request cannot be turned into a job
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "invalid request: " + e.Message
	}
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// LookupError is returned when the current price of a product could not be fetched
type LookupError struct {
	ID  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("failed to look up product %s: %v", e.ID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
