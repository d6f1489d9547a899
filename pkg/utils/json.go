package utils

import (
	"encoding/json"
	"fmt"
)

// MarshalJSONIndentString marshals a Go object to an indented JSON string
func MarshalJSONIndentString(data interface{}, indent string) (string, error) {
	jsonBytes, err := json.MarshalIndent(data, "", indent)
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON with indent: %w", err)
	}
	return string(jsonBytes), nil
}
