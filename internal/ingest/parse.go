// Package ingest turns delimited text into editor records and back.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/roster/internal/core"
)

// DefaultMaxRecords is used when Options.MaxRecords is zero.
const DefaultMaxRecords = 10000

var (
	ErrEmptyFile      = errors.New("empty file")
	ErrUnknownHeader  = errors.New("no recognized columns in header")
	ErrTooManyRecords = errors.New("too many records in file")
)

// Options configures a Parser.
type Options struct {
	// MaxRecords caps the number of data rows. Zero means DefaultMaxRecords.
	MaxRecords int

	// NewID assigns record ids. Defaults to random UUIDs.
	NewID func() core.RecordID
}

// Parser reads person records from CSV.
type Parser struct {
	maxRecords int
	newID      func() core.RecordID
}

// NewParser creates a Parser with the given options.
func NewParser(opts Options) *Parser {
	p := &Parser{maxRecords: opts.MaxRecords, newID: opts.NewID}
	if p.maxRecords <= 0 {
		p.maxRecords = DefaultMaxRecords
	}
	if p.newID == nil {
		p.newID = func() core.RecordID { return core.RecordID(uuid.NewString()) }
	}
	return p
}

// Parse reads records with default options.
func Parse(r io.Reader) ([]core.Record, error) {
	return NewParser(Options{}).Parse(r)
}

// ParseFile reads records from a file with default options.
func ParseFile(path string) ([]core.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a header row followed by data rows. Each data row becomes one
// record with a fresh id. Cells are trimmed. Rows with blank cells are kept so
// the validator can report them; only lines with nothing on them are skipped.
func (p *Parser) Parse(r io.Reader) ([]core.Record, error) {
	reader := csv.NewReader(Sanitize(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	columns, err := mapHeader(header)
	if err != nil {
		return nil, err
	}
	width := len(header)

	var records []core.Record
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}

		if len(row) < width && allBlank(row) {
			continue
		}
		if len(records) >= p.maxRecords {
			return nil, fmt.Errorf("%w (limit %d)", ErrTooManyRecords, p.maxRecords)
		}

		rec := core.Record{ID: p.newID()}
		for i, f := range columns {
			if f == "" || i >= len(row) {
				continue
			}
			rec, _ = rec.With(f, CleanCell(row[i]))
		}
		records = append(records, rec)
	}

	return records, nil
}

// CleanCell trims a cell and unwraps the ="..." text formula spreadsheets
// write to keep leading zeros, so ="00123" reads as 00123.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}
	return s
}

// NormalizeHeader canonicalizes a header cell: trimmed, lowercased, inner
// spaces as underscores, known typos corrected.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.Join(strings.Fields(h), "_")
	if h == "frist_name" {
		h = "first_name"
	}
	return h
}

// headerAliases maps a normalized header to the field it fills.
var headerAliases = map[string]core.Field{
	"nic":        core.FieldNIC,
	"id":         core.FieldNIC,
	"nic_number": core.FieldNIC,
	"first_name": core.FieldFirstName,
	"firstname":  core.FieldFirstName,
	"last_name":  core.FieldLastName,
	"lastname":   core.FieldLastName,
	"gender":     core.FieldGender,
	"sex":        core.FieldGender,
	"age":        core.FieldAge,
}

// mapHeader returns, per column position, the field it fills or "" for
// columns to ignore. When a field appears twice the first column wins.
func mapHeader(header []string) ([]core.Field, error) {
	columns := make([]core.Field, len(header))
	seen := make(map[core.Field]bool, len(core.Fields))
	for i, h := range header {
		f, ok := headerAliases[NormalizeHeader(h)]
		if !ok || seen[f] {
			continue
		}
		seen[f] = true
		columns[i] = f
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHeader, strings.Join(header, ","))
	}
	return columns, nil
}

func allBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
