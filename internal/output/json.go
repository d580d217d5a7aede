package output

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONWriter emits the report as indented JSON. Paths and commit messages
// are written verbatim, without HTML escaping.
type JSONWriter struct{}

func (j *JSONWriter) Write(w io.Writer, report *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}
