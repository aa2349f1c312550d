package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/cordex/internal/record"
)

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\ufeff"

// ReadOptions configures parsing of a delimited metadata file.
type ReadOptions struct {
	Delimiter rune // Field separator; 0 selects ',' (or '\t' for .tsv paths in Load)
}

// Table is the parsed content of a metadata file.
type Table struct {
	Columns []string        // Header in file order, including unknown columns
	Records []record.Record // One per data row, in file order
	Missing map[string]int  // Empty cells per column
}

// Read parses a delimited file with a header row into records.
// Columns other than the required ones are ignored apart from missing-value counts.
func Read(r io.Reader, opts ReadOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MissingColumnsError{Columns: record.RequiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	columns := make([]string, len(header))
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		name = strings.TrimSpace(name)
		columns[i] = name
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, name := range record.RequiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	table := &Table{
		Columns: columns,
		Records: []record.Record{},
		Missing: make(map[string]int, len(columns)),
	}
	for _, name := range columns {
		table.Missing[name] = 0
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(table.Records)+1, err)
		}

		for i, name := range columns {
			if i >= len(row) || row[i] == "" {
				table.Missing[name]++
			}
		}

		cell := func(name string) string {
			i := index[name]
			if i >= len(row) {
				return ""
			}
			return row[i]
		}

		table.Records = append(table.Records, record.Record{
			UID:            cell(record.ColumnUID),
			Title:          cell(record.ColumnTitle),
			Journal:        cell(record.ColumnJournal),
			Source:         cell(record.ColumnSource),
			PublishTimeRaw: cell(record.ColumnPublishTime),
			AbstractRaw:    cell(record.ColumnAbstract),
		})
	}

	return table, nil
}
