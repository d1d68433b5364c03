package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/cognicore/audimatch/pkg/audimatch"
	"github.com/cognicore/audimatch/pkg/audimatch/ingest"
)

type analyzeOptions struct {
	file   string
	html   bool
	top    int
	asJSON bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Extract keywords and rank audiences for a text",
		Long: `Extract keywords and rank audiences for a text. The text is taken from
the argument, from --file, or from stdin when neither is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd.InOrStdin(), args, opts.file)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("no text to analyze")
			}
			if opts.html {
				text = ingest.PlainText(text)
			}

			a, err := appFrom(cmd)
			if err != nil {
				return err
			}

			topN := a.Engine.TopN()
			if cmd.Flags().Changed("top") {
				if opts.top <= 0 {
					return fmt.Errorf("--top must be positive")
				}
				topN = opts.top
			}

			analysis := a.Engine.AnalyzeTop(text, topN)
			if opts.asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(analysis)
			}
			printAnalysis(cmd.OutOrStdout(), analysis)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read text from file")
	cmd.Flags().BoolVar(&opts.html, "html", false, "input is HTML")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "number of keywords to keep (default from config)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the analysis as JSON")
	return cmd
}

func readInput(stdin io.Reader, args []string, file string) (string, error) {
	switch {
	case len(args) > 0 && file != "":
		return "", fmt.Errorf("give either a text argument or --file, not both")
	case len(args) > 0:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
}

func printAnalysis(w io.Writer, a audimatch.Analysis) {
	fmt.Fprintln(w, "Keywords")
	kw := tablewriter.NewWriter(w)
	kw.SetHeader([]string{"Keyword", "Count"})
	kw.SetBorder(false)
	kw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	kw.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, k := range a.Keywords {
		kw.Append([]string{k.Term, strconv.Itoa(k.Count)})
	}
	kw.Render()

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Audiences")
	rank := tablewriter.NewWriter(w)
	rank.SetHeader([]string{"Audience", "Score"})
	rank.SetBorder(false)
	rank.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	rank.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, s := range a.Ranking {
		rank.Append([]string{s.Audience, strconv.FormatFloat(s.Score, 'f', 3, 64)})
	}
	rank.Render()

	fmt.Fprintln(w)
	if top, ok := a.Top(); ok {
		fmt.Fprintf(w, "Top audience: %s (%.3f)\n", top.Audience, top.Score)
	} else {
		fmt.Fprintln(w, "Top audience: none")
	}
	fmt.Fprintf(w, "Heat: %.1f\n", a.Heat)
}
