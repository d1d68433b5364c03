// Package store defines where audience catalogs come from.
//
// Sources return raw records; Load turns them into an immutable
// audience.Catalog. Catalogs are read once at startup (or on an explicit
// reload) and never written back during analysis.
package store

import (
	"context"
	"fmt"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
)

// Source provides catalog records in catalog order.
type Source interface {
	Records(ctx context.Context) ([]audience.Record, error)
	Close() error
}

// Writer replaces the stored catalog with the given records.
type Writer interface {
	ReplaceRecords(ctx context.Context, records []audience.Record) error
}

// Column headers used by tabular sources unless configured otherwise.
const (
	DefaultSheet          = "Keywords"
	DefaultNameColumn     = "受眾分群"
	DefaultKeywordsColumn = "關鍵字"
)

// Columns names the header cells that hold segment names and keywords.
type Columns struct {
	Name     string
	Keywords string
}

// DefaultColumns returns the standard header names.
func DefaultColumns() Columns {
	return Columns{Name: DefaultNameColumn, Keywords: DefaultKeywordsColumn}
}

// WithDefaults fills empty column names.
func (c Columns) WithDefaults() Columns {
	if c.Name == "" {
		c.Name = DefaultNameColumn
	}
	if c.Keywords == "" {
		c.Keywords = DefaultKeywordsColumn
	}
	return c
}

// Locate finds the column indexes in a header row.
func (c Columns) Locate(header []string) (nameIdx, kwIdx int, err error) {
	nameIdx, kwIdx = -1, -1
	for i, h := range header {
		switch trimHeader(h) {
		case c.Name:
			if nameIdx < 0 {
				nameIdx = i
			}
		case c.Keywords:
			if kwIdx < 0 {
				kwIdx = i
			}
		}
	}
	if nameIdx < 0 {
		return -1, -1, fmt.Errorf("%w: missing column %q", internalerr.ErrInvalidInput, c.Name)
	}
	if kwIdx < 0 {
		return -1, -1, fmt.Errorf("%w: missing column %q", internalerr.ErrInvalidInput, c.Keywords)
	}
	return nameIdx, kwIdx, nil
}

// RowsToRecords converts a header row plus data rows into records.
// Rows whose name cell is empty are skipped; a missing keyword cell reads
// as an empty keyword field.
func RowsToRecords(rows [][]string, cols Columns) ([]audience.Record, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no header row", internalerr.ErrInvalidInput)
	}
	nameIdx, kwIdx, err := cols.WithDefaults().Locate(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]audience.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		name := cell(row, nameIdx)
		if name == "" {
			continue
		}
		records = append(records, audience.Record{Name: name, Keywords: cell(row, kwIdx)})
	}
	return records, nil
}

// Load reads all records from src and builds a catalog.
func Load(ctx context.Context, src Source, policy audience.DuplicatePolicy) (*audience.Catalog, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("read catalog records: %w", err)
	}
	cat, err := audience.FromRecords(records, policy)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	return cat, nil
}

// Copy reads every record from src and writes them to dst.
// It returns the number of records copied.
func Copy(ctx context.Context, dst Writer, src Source) (int, error) {
	records, err := src.Records(ctx)
	if err != nil {
		return 0, fmt.Errorf("read catalog records: %w", err)
	}
	if err := dst.ReplaceRecords(ctx, records); err != nil {
		return 0, fmt.Errorf("write catalog records: %w", err)
	}
	return len(records), nil
}
