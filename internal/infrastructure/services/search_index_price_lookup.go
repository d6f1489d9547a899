package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storechecker/storechecker/internal/domain/entities"
	"github.com/storechecker/storechecker/pkg/utils"
)

// SearchIndexConfig configures SearchIndexPriceLookup
type SearchIndexConfig struct {
	// IndexURL is the query endpoint, e.g. https://APP-dsn.algolia.net/1/indexes/games
	IndexURL string
	AppID    string
	APIKey   string
	Timeout  time.Duration
}

type searchHit struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	LowestPrice float64 `json:"lowestPrice"`
}

type searchResponse struct {
	Hits []searchHit `json:"hits"`
}

// SearchIndexPriceLookup fetches prices from the shop's hosted search index
type SearchIndexPriceLookup struct {
	config     SearchIndexConfig
	httpClient *http.Client
}

// NewSearchIndexPriceLookup creates a new SearchIndexPriceLookup
func NewSearchIndexPriceLookup(config SearchIndexConfig) *SearchIndexPriceLookup {
	return &SearchIndexPriceLookup{
		config:     config,
		httpClient: utils.NewHTTPClient(utils.HTTPClientConfig{Timeout: config.Timeout}),
	}
}

// SearchQuery derives the free-text query for a product id by dropping its
// last dash-separated token (the platform suffix).
func SearchQuery(id string) string {
	tokens := strings.Split(id, "-")
	return strings.Join(tokens[:len(tokens)-1], " ")
}

// Fetch returns the title and lowest price of the hit whose slug equals id
func (l *SearchIndexPriceLookup) Fetch(ctx context.Context, id string) (*entities.PriceQuote, error) {
	query := SearchQuery(id)
	endpoint := l.config.IndexURL + "?query=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Algolia-API-Key", l.config.APIKey)
	req.Header.Set("X-Algolia-Application-Id", l.config.AppID)

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query search index: %w", err)
	}
	defer utils.SafeCloseResponse(resp)

	if err := utils.CheckHTTPResponse(resp, l.config.IndexURL); err != nil {
		return nil, err
	}

	var result searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	for _, hit := range result.Hits {
		if hit.Slug == id {
			log.Printf("[LOOKUP] Lowest price for %s is now $%.2f", id, hit.LowestPrice)
			return &entities.PriceQuote{ID: id, Title: hit.Title, LowestPrice: hit.LowestPrice}, nil
		}
	}
	log.Printf("[LOOKUP] %d hits for query %q, none matched %s", len(result.Hits), query, id)
	return nil, entities.ErrProductNotFound{ID: id, Query: query}
}
