// Package sheet reads audience catalogs from .xlsx workbooks.
package sheet

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
	"github.com/cognicore/audimatch/pkg/audimatch/store"
)

// Options selects the sheet and header columns to read.
type Options struct {
	Sheet   string // default store.DefaultSheet
	Columns store.Columns
}

// Source reads catalog records from one worksheet.
type Source struct {
	file *excelize.File
	opts Options
}

var _ store.Source = (*Source)(nil)

// Open opens a workbook. The sheet is checked on open so a wrong sheet
// name fails at startup rather than on first read.
func Open(path string, opts Options) (*Source, error) {
	if opts.Sheet == "" {
		opts.Sheet = store.DefaultSheet
	}
	opts.Columns = opts.Columns.WithDefaults()

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}

	idx, err := f.GetSheetIndex(opts.Sheet)
	if err != nil || idx < 0 {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheet %q", internalerr.ErrInvalidInput, opts.Sheet)
	}

	return &Source{file: f, opts: opts}, nil
}

// Records implements store.Source.
func (s *Source) Records(ctx context.Context) ([]audience.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := s.file.GetRows(s.opts.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", s.opts.Sheet, err)
	}
	return store.RowsToRecords(rows, s.opts.Columns)
}

// Close implements store.Source.
func (s *Source) Close() error {
	return s.file.Close()
}
