package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/storechecker/storechecker/pkg/storage"
)

// TimestampLayout is the layout of last_updated fields in stored documents
const TimestampLayout = "20060102150405"

// Timestamp is a time stored as YYYYmmDDHHMMSS in UTC
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(TimestampLayout))
}

// MarshalYAML renders the timestamp like MarshalJSON
func (t Timestamp) MarshalYAML() (interface{}, error) {
	return time.Time(t).UTC().Format(TimestampLayout), nil
}

// UnmarshalJSON accepts the compact layout and RFC 3339
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		*t = Timestamp(time.Time{})
		return nil
	}
	if parsed, err := time.ParseInLocation(TimestampLayout, s, time.UTC); err == nil {
		*t = Timestamp(parsed)
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", s)
	}
	*t = Timestamp(parsed)
	return nil
}

// loadDocument decodes the JSON document under key into v.
// It reports false without error when the document does not exist.
func loadDocument(ctx context.Context, store storage.Store, key string, v interface{}) (bool, error) {
	data, err := store.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}

func saveDocument(ctx context.Context, store storage.Store, key string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := store.Put(ctx, key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}
