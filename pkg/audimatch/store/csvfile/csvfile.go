// Package csvfile reads audience catalogs from CSV exports.
package csvfile

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/store"
)

// Source reads catalog records from a CSV file with a header row.
type Source struct {
	path    string
	columns store.Columns
}

var _ store.Source = (*Source)(nil)

// New creates a source for path. The file is read on every Records call.
func New(path string, columns store.Columns) *Source {
	return &Source{path: path, columns: columns.WithDefaults()}
}

// Records implements store.Source.
func (s *Source) Records(ctx context.Context) ([]audience.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, s.columns)
}

// Close implements store.Source.
func (s *Source) Close() error { return nil }

// Parse reads records from CSV data. Rows may have differing lengths.
func Parse(r io.Reader, columns store.Columns) ([]audience.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return store.RowsToRecords(rows, columns)
}
