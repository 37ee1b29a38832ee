package main

import (
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"pseudo/internal/diagfmt"
	"pseudo/internal/driver"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] <file|directory>",
	Short: "Re-run diagnostics whenever pseudocode files change",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 100*time.Millisecond, "wait this long for more changes before analyzing")
	watchCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to get debounce flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	s, err := currentSettings(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out := cmd.OutOrStdout()
	prettyOpts := s.prettyOpts(os.Stdout, diagfmt.PathModeAuto, false)
	onReport := func(r *driver.Report) {
		fmt.Fprintf(out, "== %s: %d file(s) ==\n", time.Now().Format(time.TimeOnly), len(r.Files))
		for _, f := range r.Files {
			if f.Err != nil {
				fmt.Fprintf(out, "%s: %v\n", f.Path, f.Err)
			}
		}
		bag := r.Bag()
		if bag.Len() == 0 {
			fmt.Fprintln(out, "no problems")
			return
		}
		if err := diagfmt.Pretty(out, bag, r.FileSet, prettyOpts); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		}
		if s.timings {
			printTimings(cmd.ErrOrStderr(), r.Timings(), len(r.Files))
		}
	}

	return driver.Watch(ctx, args[0], driver.WatchOptions{
		Options: driver.Options{
			Analysis:       s.analysis,
			MaxDiagnostics: s.maxDiagnostics,
			Jobs:           jobs,
			Timings:        s.timings,
		},
		Debounce: debounce,
		OnReport: onReport,
	})
}
