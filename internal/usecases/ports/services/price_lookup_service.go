package services

import (
	"context"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// PriceLookupService fetches the current title and lowest price of a product
type PriceLookupService interface {
	// Fetch returns entities.ErrProductNotFound when no product matches id
	Fetch(ctx context.Context, id string) (*entities.PriceQuote, error)
}
