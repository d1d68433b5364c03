package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/audimatch/internal/app"
	"github.com/cognicore/audimatch/internal/config"
	logpkg "github.com/cognicore/audimatch/internal/logger"
)

const defaultConfigPath = "audimatch.yaml"

type rootOptions struct {
	configPath string
	catalog    string
	logLevel   string
}

type contextKey string

const runtimeKey contextKey = "runtime"

// runtime is built once per invocation by the root PersistentPreRunE.
type runtime struct {
	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "audimatch",
		Short: "Match text to audience segments and draft articles for them",
		Long: `audimatch extracts keywords from text, ranks audience segments by
keyword overlap, estimates a heat score and generates draft articles for a
chosen audience. It runs as a CLI or as an HTTP service.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}

			logger, err := logpkg.NewLogger(cfg.Logging.Env, firstNonEmpty(opts.logLevel, cfg.Logging.Level))
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), runtimeKey, &runtime{cfg: cfg, logger: logger})
			cmd.SetContext(logpkg.ContextWithLogger(ctx, logger))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if rt, ok := cmd.Context().Value(runtimeKey).(*runtime); ok {
				_ = rt.logger.Sync()
			}
		},
	}

	configDefault := os.Getenv("AUDIMATCH_CONFIG")
	if configDefault == "" {
		configDefault = defaultConfigPath
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", configDefault, "config file ($AUDIMATCH_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "catalog file, overrides catalog.path")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		newServeCmd(),
		newAnalyzeCmd(),
		newGenerateCmd(),
		newAudiencesCmd(),
		newImportCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file. Without a config file a --catalog flag
// is enough to run on defaults.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Read(opts.configPath)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrNotExist) && !cmd.Flags().Changed("config") && opts.catalog != "":
		cfg = config.Config{}
	default:
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	if opts.catalog != "" {
		cfg.Catalog.Path = opts.catalog
		cfg.Catalog.Source = ""
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func runtimeFrom(cmd *cobra.Command) (*runtime, error) {
	rt, ok := cmd.Context().Value(runtimeKey).(*runtime)
	if !ok || rt == nil {
		return nil, fmt.Errorf("configuration not loaded")
	}
	return rt, nil
}

// appFrom loads the catalog and builds the engine.
func appFrom(cmd *cobra.Command) (*app.App, error) {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return nil, err
	}
	return app.New(cmd.Context(), rt.cfg, rt.logger)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
