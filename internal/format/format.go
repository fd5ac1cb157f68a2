// Package format renders audit reports and differential results as text,
// JSON, or Markdown. Rendering is pure: no analysis happens here, and the
// same input always produces the same bytes.
package format

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Format names accepted by the CLI.
const (
	Text     = "text"
	JSON     = "json"
	Markdown = "markdown"
)

// Valid lists the accepted format names.
var Valid = []string{Text, JSON, Markdown}

// IsValid reports whether name is an accepted format.
func IsValid(name string) bool {
	for _, f := range Valid {
		if f == name {
			return true
		}
	}
	return false
}

// ToJSON renders any report or diff result as indented JSON. Struct field
// order is fixed, so output is deterministic.
func ToJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("render json: %w", err)
	}
	return buf.String(), nil
}
