package sheet

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
	"github.com/cognicore/audimatch/pkg/audimatch/store"
)

func writeWorkbook(t *testing.T, sheet string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		cellName, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cellName, &r))
	}

	path := filepath.Join(t.TempDir(), "catalog.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestRecordsDefaultColumns(t *testing.T) {
	path := writeWorkbook(t, "Keywords", [][]interface{}{
		{"編號", "受眾分群", "關鍵字"},
		{1, "上班族", "壓力,睡眠"},
		{2, "學生", "考試"},
		{3, "", "ignored"},
		{4, "空白"},
	})

	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	got, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []audience.Record{
		{Name: "上班族", Keywords: "壓力,睡眠"},
		{Name: "學生", Keywords: "考試"},
		{Name: "空白", Keywords: ""},
	}, got)
}

func TestRecordsCustomColumns(t *testing.T) {
	path := writeWorkbook(t, "Segments", [][]interface{}{
		{"segment", "terms"},
		{"A", "x,y"},
	})

	src, err := Open(path, Options{
		Sheet:   "Segments",
		Columns: store.Columns{Name: "segment", Keywords: "terms"},
	})
	require.NoError(t, err)
	defer src.Close()

	cat, err := store.Load(context.Background(), src, audience.DuplicatesKeep)
	require.NoError(t, err)
	seg, ok := cat.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, seg.Keywords)
}

func TestOpenMissingSheet(t *testing.T) {
	path := writeWorkbook(t, "Data", [][]interface{}{{"受眾分群", "關鍵字"}})

	_, err := Open(path, Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.Error(t, err)
}

func TestRecordsMissingColumn(t *testing.T) {
	path := writeWorkbook(t, "Keywords", [][]interface{}{{"受眾分群"}, {"A"}})

	src, err := Open(path, Options{})
	require.NoError(t, err)
	defer src.Close()

	_, err = src.Records(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}
