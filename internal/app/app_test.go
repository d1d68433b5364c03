package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cognicore/audimatch/internal/config"
	"github.com/cognicore/audimatch/pkg/audimatch/internalerr"
)

const yamlCatalog = `audiences:
  - name: 上班族
    keywords: 壓力,睡眠
  - name: 學生
    keywords: [考試, 熬夜]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testConfig(path string) config.Config {
	cfg := config.Config{Catalog: config.CatalogConfig{Path: path}}
	cfg.ApplyDefaults()
	return cfg
}

func TestNewFromYAML(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := testConfig(writeFile(t, dir, "catalog.yaml", yamlCatalog))
	cfg.Resources.Dict = writeFile(t, dir, "dict.txt", "最近\n")

	a, err := New(ctx, cfg, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"上班族", "學生"}, a.Engine.Audiences())

	analysis := a.Engine.Analyze("最近考試一直熬夜")
	top, ok := analysis.Top()
	require.True(t, ok)
	assert.Equal(t, "學生", top.Audience)
	assert.Equal(t, 1.0, top.Score)
	assert.Equal(t, 100.0, analysis.Heat)
}

func TestLoadCatalogCSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.csv", "受眾分群,關鍵字\n上班族,\"壓力,睡眠\"\n")

	cat, err := LoadCatalog(context.Background(), testConfig(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"上班族"}, cat.Names())
}

func TestLoadCatalogXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.xlsx")

	f := excelize.NewFile()
	_, err := f.NewSheet("Segments")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Segments", "A1", &[]interface{}{"segment", "terms"}))
	require.NoError(t, f.SetSheetRow("Segments", "A2", &[]interface{}{"學生", "考試,熬夜"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := testConfig(path)
	cfg.Catalog.Sheet = "Segments"
	cfg.Catalog.NameColumn = "segment"
	cfg.Catalog.KeywordsColumn = "terms"

	cat, err := LoadCatalog(context.Background(), cfg)
	require.NoError(t, err)
	seg, ok := cat.Lookup("學生")
	require.True(t, ok)
	assert.Equal(t, []string{"考試", "熬夜"}, seg.Keywords)
}

func TestImportAndLoadSQLite(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	src := testConfig(writeFile(t, dir, "catalog.yaml", yamlCatalog))
	dbPath := filepath.Join(dir, "catalog.db")

	n, err := Import(ctx, src.Catalog, dbPath)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	cfg := testConfig(dbPath)
	require.Equal(t, config.SourceSQLite, cfg.Catalog.Source)

	cat, err := LoadCatalog(ctx, cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"上班族", "學生"}, cat.Names())
}

func TestLoadCatalogFilePolicyOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", `duplicates: reject
audiences:
  - name: A
    keywords: x
  - name: A
    keywords: y
`)

	_, err := LoadCatalog(context.Background(), testConfig(path))
	require.Error(t, err)
	assert.True(t, errors.Is(err, internalerr.ErrDuplicate))
}

func TestLoadCatalogMissingFile(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"missing.yaml", "missing.xlsx"} {
		_, err := LoadCatalog(context.Background(), testConfig(filepath.Join(dir, name)))
		assert.Error(t, err, name)
	}
}

func TestOpenSourceUnknown(t *testing.T) {
	_, err := OpenSource(context.Background(), config.CatalogConfig{Source: "parquet"})
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := writeFile(t, dir, "catalog.yaml", yamlCatalog)

	a, err := New(ctx, testConfig(path), nil)
	require.NoError(t, err)

	writeFile(t, dir, "catalog.yaml", "audiences:\n  - name: 銀髮族\n    keywords: 退休,健康\n")
	require.NoError(t, a.Reload(ctx))
	assert.Equal(t, []string{"銀髮族"}, a.Engine.Audiences())

	writeFile(t, dir, "catalog.yaml", "audiences: [")
	assert.Error(t, a.Reload(ctx))
	assert.Equal(t, []string{"銀髮族"}, a.Engine.Audiences(), "failed reload keeps the old catalog")
}
