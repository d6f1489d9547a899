package utils

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// HTTPClientConfig holds configuration for HTTP client creation
type HTTPClientConfig struct {
	Timeout time.Duration
}

// DefaultHTTPClientConfig returns default HTTP client configuration
func DefaultHTTPClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout: 10 * time.Second,
	}
}

// NewHTTPClient creates a new HTTP client with the given configuration
func NewHTTPClient(config HTTPClientConfig) *http.Client {
	if config.Timeout <= 0 {
		config = DefaultHTTPClientConfig()
	}
	return &http.Client{
		Timeout: config.Timeout,
	}
}

// HTTPError represents an HTTP error with status code and message
type HTTPError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// CheckHTTPResponse returns an HTTPError for 4xx and 5xx responses.
// Up to 512 bytes of the body are included in the message.
func CheckHTTPResponse(resp *http.Response, url string) error {
	if resp.StatusCode < 400 {
		return nil
	}
	msg := resp.Status
	if resp.Body != nil {
		if body, err := io.ReadAll(io.LimitReader(resp.Body, 512)); err == nil && len(body) > 0 {
			msg = fmt.Sprintf("%s: %s", resp.Status, body)
		}
	}
	return HTTPError{
		StatusCode: resp.StatusCode,
		Message:    msg,
		URL:        url,
	}
}

// SafeCloseResponse closes the response body, logging any error
func SafeCloseResponse(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Warning: failed to close HTTP response body: %v", err)
		}
	}
}
