package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"pseudo/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "pseudo",
	Short: "Tolerant pseudocode front end",
	Long:  `pseudo tokenizes, parses and diagnoses free-form pseudocode and serves completions over LSP`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return setupProfiling(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, _ []string) {
		runProfileCleanup(cmd)
		runTraceCleanup()
	},
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(diagCmd)
	rootCmd.AddCommand(completeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = config or unlimited)")
	rootCmd.PersistentFlags().String("trace", "", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-output", "", "trace output file (- for stderr, .ndjson for JSON lines)")
	rootCmd.PersistentFlags().String("config", "", "path to pseudo.toml (default: search upward from the working directory)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")
}

// main executes the root command; a failed command exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		runProfileCleanup(rootCmd)
		runTraceCleanup()
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
