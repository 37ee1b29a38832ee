package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"pseudo/internal/complete"
	"pseudo/internal/driver"
)

var completeCmd = &cobra.Command{
	Use:   "complete [flags] <file|-> <line:col>",
	Short: "List completions at a position",
	Long:  `Complete prints the ranked completion candidates at a 1-based line and column`,
	Args:  cobra.ExactArgs(2),
	RunE:  runComplete,
}

func init() {
	completeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	completeCmd.Flags().Int("limit", 0, "maximum number of items (0 = config or unlimited)")
}

func runComplete(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return fmt.Errorf("failed to get limit flag: %w", err)
	}
	line, col, err := parseLineCol(args[1])
	if err != nil {
		return err
	}
	s, err := currentSettings(cmd)
	if err != nil {
		return err
	}

	opts := s.analysis
	if limit > 0 {
		opts.CompletionLimit = limit
	}
	doc, err := driver.AnalyzeFile(args[0], cmd.InOrStdin(), opts)
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}
	items := doc.Result.Complete(line-1, col-1)

	switch format {
	case "pretty":
		return writeCompletions(cmd.OutOrStdout(), items)
	case "json":
		if items == nil {
			items = []complete.Item{}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// parseLineCol reads a 1-based "line:col" pair.
func parseLineCol(s string) (line, col int, err error) {
	l, c, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid position %q (expected line:col)", s)
	}
	line, err = strconv.Atoi(l)
	if err != nil || line < 1 {
		return 0, 0, fmt.Errorf("invalid line in %q", s)
	}
	col, err = strconv.Atoi(c)
	if err != nil || col < 1 {
		return 0, 0, fmt.Errorf("invalid column in %q", s)
	}
	return line, col, nil
}

func writeCompletions(w io.Writer, items []complete.Item) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, it := range items {
		label := it.Label
		if it.Fuzzy {
			label += " ~"
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", label, it.Kind, it.Detail); err != nil {
			return err
		}
	}
	return tw.Flush()
}
