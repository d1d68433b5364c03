package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/audimatch/internal/app"
)

func newImportCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the configured catalog into a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := runtimeFrom(cmd)
			if err != nil {
				return err
			}

			n, err := app.Import(cmd.Context(), rt.cfg.Catalog, dbPath)
			if err != nil {
				return err
			}

			rt.logger.Info("catalog imported",
				zap.String("from", rt.cfg.Catalog.Path),
				zap.String("to", dbPath),
				zap.Int("records", n),
			)
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "imported %d audience records into %s\n", n, dbPath)
			return err
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "audimatch.db", "SQLite database path")
	return cmd
}
