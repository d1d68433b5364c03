package main

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newAudiencesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audiences",
		Short: "List the audience segments in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Audience", "Keywords", "Count"})
			table.SetBorder(false)
			table.SetAutoWrapText(false)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			for _, seg := range a.Engine.Catalog().Segments() {
				table.Append([]string{seg.Name, strings.Join(seg.Keywords, ", "), strconv.Itoa(len(seg.Keywords))})
			}
			table.Render()
			return nil
		},
	}
}
