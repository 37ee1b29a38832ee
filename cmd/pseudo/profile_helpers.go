package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pseudo/internal/prof"
)

var profileSession *prof.Session

func runProfileCleanup(cmd *cobra.Command) {
	if profileSession == nil {
		return
	}
	if err := profileSession.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
	}
	profileSession = nil
}

// setupProfiling starts the profilers requested by the root flags.
func setupProfiling(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.Mem, err = flags.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.Trace, err = flags.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	s, err := prof.Start(opts)
	if err != nil {
		return err
	}
	profileSession = s
	return nil
}
