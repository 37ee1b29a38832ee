package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pseudo/internal/diagfmt"
	"pseudo/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] <file|->",
	Short: "Tokenize a pseudocode file",
	Long:  `Tokenize breaks a pseudocode file into tokens; "-" reads standard input`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().Bool("trivia", false, "include spaces, newlines and comments")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	trivia, err := cmd.Flags().GetBool("trivia")
	if err != nil {
		return fmt.Errorf("failed to get trivia flag: %w", err)
	}
	s, err := currentSettings(cmd)
	if err != nil {
		return err
	}

	doc, err := driver.AnalyzeFile(args[0], cmd.InOrStdin(), s.analysis)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printDocumentDiagnostics(doc, s); err != nil {
		return err
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), doc.Result.Tokens, trivia)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), doc.Result.Tokens, trivia)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// printDocumentDiagnostics writes the diagnostics of doc to stderr.
func printDocumentDiagnostics(doc *driver.Document, s *settings) error {
	if len(doc.Diagnostics) == 0 {
		return nil
	}
	opts := s.prettyOpts(os.Stderr, diagfmt.PathModeAuto, false)
	return diagfmt.Pretty(os.Stderr, doc.Bag(s.maxDiagnostics), doc.FileSet, opts)
}
