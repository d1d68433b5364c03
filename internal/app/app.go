// Package app wires configuration, catalog sources and the analysis engine.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/audimatch/internal/config"
	"github.com/cognicore/audimatch/internal/metrics"
	"github.com/cognicore/audimatch/pkg/audimatch"
	"github.com/cognicore/audimatch/pkg/audimatch/audience"
	rescfg "github.com/cognicore/audimatch/pkg/audimatch/config"
	"github.com/cognicore/audimatch/pkg/audimatch/draft"
	"github.com/cognicore/audimatch/pkg/audimatch/heat"
	"github.com/cognicore/audimatch/pkg/audimatch/store"
	"github.com/cognicore/audimatch/pkg/audimatch/store/csvfile"
	"github.com/cognicore/audimatch/pkg/audimatch/store/sheet"
	"github.com/cognicore/audimatch/pkg/audimatch/store/sqlite"
)

// App holds the long-lived pieces shared by CLI commands and the server.
type App struct {
	Config config.Config
	Logger *zap.Logger
	Engine *audimatch.Engine
}

// New loads the configured catalog and builds the engine.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	cat, err := LoadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	gen, err := draft.New()
	if err != nil {
		return nil, fmt.Errorf("create generator: %w", err)
	}

	engine, err := audimatch.New(audimatch.Options{
		Catalog: cat,
		Resources: &rescfg.Loader{
			StoplistPath: cfg.Resources.Stoplist,
			DictPath:     cfg.Resources.Dict,
			FoldWidth:    cfg.Analysis.FoldWidth,
		},
		TopN:      cfg.Analysis.TopN,
		Scorer:    heat.NewScorer(cfg.Analysis.MarketWeight),
		Generator: gen,
		Seed:      cfg.Analysis.Seed,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	metrics.CatalogSegments.Set(float64(cat.Len()))
	logger.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.String("path", cfg.Catalog.Path),
		zap.Int("segments", cat.Len()),
	)

	return &App{Config: cfg, Logger: logger, Engine: engine}, nil
}

// Reload re-reads the catalog source and swaps it into the engine.
func (a *App) Reload(ctx context.Context) error {
	cat, err := LoadCatalog(ctx, a.Config)
	if err != nil {
		return err
	}
	if err := a.Engine.Reload(cat); err != nil {
		return fmt.Errorf("reload engine: %w", err)
	}
	metrics.CatalogSegments.Set(float64(cat.Len()))
	a.Logger.Info("catalog reloaded", zap.Int("segments", cat.Len()))
	return nil
}

// OpenSource opens the catalog source named by the configuration.
func OpenSource(ctx context.Context, cfg config.CatalogConfig) (store.Source, error) {
	cols := store.Columns{Name: cfg.NameColumn, Keywords: cfg.KeywordsColumn}

	switch cfg.Source {
	case config.SourceYAML:
		return rescfg.CatalogSource{Path: cfg.Path}, nil
	case config.SourceXLSX:
		src, err := sheet.Open(cfg.Path, sheet.Options{Sheet: cfg.Sheet, Columns: cols})
		if err != nil {
			return nil, err
		}
		return src, nil
	case config.SourceCSV:
		return csvfile.New(cfg.Path, cols), nil
	case config.SourceSQLite:
		src, err := sqlite.OpenSQLite(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// LoadCatalog reads the configured catalog. A YAML catalog that declares
// its own duplicates policy overrides the configured one.
func LoadCatalog(ctx context.Context, cfg config.Config) (*audience.Catalog, error) {
	policy := cfg.DuplicatePolicy()
	if cfg.Catalog.Source == config.SourceYAML {
		cf, err := rescfg.LoadCatalog(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
		}
		if cf.Duplicates != "" {
			if policy, err = audience.ParseDuplicatePolicy(cf.Duplicates); err != nil {
				return nil, fmt.Errorf("catalog %s: %w", cfg.Catalog.Path, err)
			}
		}
		cat, err := audience.FromRecords(cf.Records(), policy)
		if err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
		}
		return cat, nil
	}

	src, err := OpenSource(ctx, cfg.Catalog)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", cfg.Catalog.Path, err)
	}
	defer src.Close()

	cat, err := store.Load(ctx, src, policy)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", cfg.Catalog.Path, err)
	}
	return cat, nil
}

// Import copies the configured catalog into a SQLite database.
func Import(ctx context.Context, cfg config.CatalogConfig, dbPath string) (int, error) {
	src, err := OpenSource(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("open catalog %s: %w", cfg.Path, err)
	}
	defer src.Close()

	dst, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return 0, fmt.Errorf("open database %s: %w", dbPath, err)
	}
	defer dst.Close()

	return store.Copy(ctx, dst, src)
}
