package ingest

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/JonMunkholm/roster/internal/core"
)

// ExportHeader returns the column headings written by Export.
func ExportHeader() []string {
	header := make([]string, len(core.Fields))
	for i, f := range core.Fields {
		header[i] = f.Label()
	}
	return header
}

// Export writes records as CSV in the order given. Values are written as
// stored, without trimming or validation.
func Export(w io.Writer, records []core.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ExportHeader()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return fmt.Errorf("write record %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
