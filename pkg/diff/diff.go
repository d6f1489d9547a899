package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Documents returns a unified diff between the YAML renderings of two
// documents, or an empty string when they render the same
func Documents(oldDoc, newDoc interface{}, name string) (string, error) {
	oldYAML, err := yaml.Marshal(oldDoc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal old document: %w", err)
	}

	newYAML, err := yaml.Marshal(newDoc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal new document: %w", err)
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(oldYAML)),
		B:        difflib.SplitLines(string(newYAML)),
		FromFile: fmt.Sprintf("stored/%s", name),
		ToFile:   fmt.Sprintf("new/%s", name),
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to generate diff: %w", err)
	}
	return text, nil
}
