package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pseudo/internal/diag"
	"pseudo/internal/diagfmt"
	"pseudo/internal/driver"
)

// errDiagnostics is returned after diagnostics were printed; cobra stays silent.
var errDiagnostics = errors.New("diagnostics reported errors")

var diagCmd = &cobra.Command{
	Use:   "diag [flags] <file|directory>...",
	Short: "Run diagnostics on pseudocode files or directories",
	Long:  `Run diagnostics on pseudocode files, or on every *.pseudo, *.pseudocode, *.pcode and *.algo file within a directory`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDiagnose,
}

// init registers the flags of the diag command.
func init() {
	diagCmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	diagCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	diagCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	diagCmd.Flags().String("path-mode", "auto", "how paths are printed (auto|absolute|relative|basename)")
	diagCmd.Flags().Bool("cache", false, "reuse diagnostics from the on-disk cache")
	diagCmd.Flags().Bool("clear-cache", false, "drop the on-disk cache before running")
	diagCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
}

// runDiagnose analyzes the given paths, prints the diagnostics in the chosen
// format and fails with errDiagnostics when any file has an error.
func runDiagnose(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	pathModeStr, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, ok := diagfmt.ParsePathMode(pathModeStr)
	if !ok {
		return fmt.Errorf("unknown path mode: %s", pathModeStr)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	clearCache, err := cmd.Flags().GetBool("clear-cache")
	if err != nil {
		return fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	s, err := currentSettings(cmd)
	if err != nil {
		return err
	}

	files, err := collectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "no pseudocode files found")
		return nil
	}

	opts := driver.Options{
		Analysis:       s.analysis,
		MaxDiagnostics: s.maxDiagnostics,
		Jobs:           jobs,
		Timings:        s.timings,
	}
	if useCache || clearCache {
		cache, err := driver.OpenDiskCache("pseudo")
		if err != nil {
			return fmt.Errorf("failed to open cache: %w", err)
		}
		if clearCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to clear cache: %w", err)
			}
		}
		if useCache {
			opts.Cache = cache
		}
	}

	var report *driver.Report
	if shouldUseTUI(mode, len(files)) {
		report, err = runDiagnoseWithUI(cmd.Context(), "diagnosing", files, opts)
	} else {
		report, err = driver.Diagnose(cmd.Context(), files, opts)
	}
	if err != nil {
		return fmt.Errorf("diagnosis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, f := range report.Files {
		if f.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Path, f.Err)
		}
	}
	if err := writeReport(out, report, format, pathMode, withNotes, s); err != nil {
		return err
	}
	if s.timings {
		printTimings(cmd.ErrOrStderr(), report.Timings(), len(files))
	}

	if report.HasErrors() {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

func collectFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if !st.IsDir() {
			files = append(files, arg)
			continue
		}
		found, err := driver.ListFiles(arg, driver.DefaultExtensions)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", arg, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

func writeReport(out io.Writer, report *driver.Report, format string, mode diagfmt.PathMode, notes bool, s *settings) error {
	switch format {
	case "short":
		return diagfmt.Short(out, report.Bag(), report.FileSet, mode, notes)
	case "json":
		output := make(map[string]diagfmt.DiagnosticsOutput, len(report.Files))
		jsonOpts := diagfmt.JSONOpts{IncludePositions: true, PathMode: mode, IncludeNotes: notes}
		for _, f := range report.Files {
			if f.Err != nil {
				continue
			}
			bag := diag.NewBag(0)
			for _, d := range f.Diagnostics {
				bag.Add(d)
			}
			output[displayPath(f.Path, mode)] = diagfmt.BuildDiagnosticsOutput(bag, report.FileSet, jsonOpts)
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
		return nil
	default:
		return diagfmt.Pretty(out, report.Bag(), report.FileSet, s.prettyOpts(os.Stdout, mode, notes))
	}
}

func displayPath(path string, mode diagfmt.PathMode) string {
	switch mode {
	case diagfmt.PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case diagfmt.PathModeBasename:
		return filepath.Base(path)
	}
	return filepath.ToSlash(path)
}
