package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}

// WriteYAML writes v as a YAML document.
func WriteYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// WriteStructured writes v in the named machine-readable format. It reports
// false for formats it does not handle, such as "table".
func WriteStructured(w io.Writer, format string, v any) (bool, error) {
	switch format {
	case "json":
		return true, WriteJSON(w, v)
	case "yaml":
		return true, WriteYAML(w, v)
	default:
		return false, nil
	}
}
