package format

import (
	"encoding/json"
	"fmt"
	"io"
)

// Envelope is the shape of every command's stdout: the payload under "data",
// optional "meta" and "_hints" for follow-up commands.
type Envelope struct {
	Data  any            `json:"data"`
	Meta  map[string]any `json:"meta,omitempty"`
	Hints []string       `json:"_hints,omitempty"`
}

// Write writes v in the requested format (json, the default, or edn).
func Write(w io.Writer, v any, format string, pretty bool) error {
	switch format {
	case "", "json":
		return WriteJSON(w, v, pretty)
	case "edn":
		return WriteEDN(w, v, pretty)
	default:
		return fmt.Errorf("unknown format: %s (want json|edn)", format)
	}
}

// WriteJSON writes strict JSON, one document per line unless pretty.
// HTML escaping is off: note text routinely carries <, > and &.
func WriteJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
