package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pseudo/internal/diagfmt"
	"pseudo/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] <file|->",
	Short: "Parse a pseudocode file and print its syntax tree",
	Long:  `Parse builds the tolerant syntax tree of a pseudocode file; --styles prints the detected block styles instead`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
	parseCmd.Flags().Bool("styles", false, "print detected block styles")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	styles, err := cmd.Flags().GetBool("styles")
	if err != nil {
		return fmt.Errorf("failed to get styles flag: %w", err)
	}
	s, err := currentSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := driver.AnalyzeFile(args[0], cmd.InOrStdin(), s.analysis)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printDocumentDiagnostics(doc, s); err != nil {
		return err
	}

	res := doc.Result
	out := cmd.OutOrStdout()
	switch {
	case styles && format == "json":
		return diagfmt.FormatStylesJSON(out, res.Scope)
	case styles:
		return diagfmt.FormatStylesPretty(out, res.Scope)
	}
	switch format {
	case "tree", "pretty":
		return diagfmt.FormatASTPretty(out, res.Tree, res.Root, res.File)
	case "json":
		return diagfmt.FormatASTJSON(out, res.Tree, res.Root)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
