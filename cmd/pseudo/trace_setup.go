package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pseudo/internal/trace"
)

var traceCleanup func()

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
}

// setupTracing loads the configuration, initializes the tracer and attaches
// both to the command context. It returns a cleanup function.
func setupTracing(cmd *cobra.Command) (func(), error) {
	root := cmd.Root()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	s, err := buildSettings(cmd, cfg)
	if err != nil {
		return nil, err
	}

	levelStr, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	traceOutput, err := root.PersistentFlags().GetString("trace-output")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-output flag: %w", err)
	}
	if levelStr == "" {
		levelStr = cfg.Trace.Level
	}
	if traceOutput == "" {
		traceOutput = cfg.Trace.Output
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace-output без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}

	tracer, err := trace.New(trace.Config{Level: level, OutputPath: traceOutput})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	s.analysis.Tracer = tracer

	ctx := trace.WithTracer(cmd.Context(), tracer)
	ctx = withSettings(ctx, s)
	cmd.SetContext(ctx)

	cleanup := func() {
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}
	return cleanup, nil
}
