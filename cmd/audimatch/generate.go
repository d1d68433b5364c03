package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/audimatch/pkg/audimatch/draft"
)

func newGenerateCmd() *cobra.Command {
	var (
		name   string
		seed   uint64
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a draft article for an audience",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			var art draft.Article
			if cmd.Flags().Changed("seed") {
				art, err = a.Engine.GenerateSeeded(name, seed)
			} else {
				art, err = a.Engine.Generate(name)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(art)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), art.Text)
			return err
		},
	}

	cmd.Flags().StringVarP(&name, "audience", "a", "", "audience segment name")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "fix the random seed")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the article as JSON")
	_ = cmd.MarkFlagRequired("audience")
	return cmd
}
