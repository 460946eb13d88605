package report

import (
	"encoding/json"
	"io"

	"codecrawl/internal/crawler"
)

// JSON writes the report as an indented JSON document.
func JSON(w io.Writer, r *crawler.Report, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildOutput(r, opts))
}
