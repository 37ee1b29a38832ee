package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pseudo/internal/analysis"
	"pseudo/internal/config"
	"pseudo/internal/diagfmt"
)

// settings merges pseudo.toml with the persistent flags; flags win.
type settings struct {
	cfg            *config.Config
	analysis       analysis.Options
	maxDiagnostics int
	debounce       time.Duration
	timings        bool
	color          string
}

type settingsKey struct{}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(".")
}

func buildSettings(cmd *cobra.Command, cfg *config.Config) (*settings, error) {
	flags := cmd.Root().PersistentFlags()
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if maxDiagnostics < 0 {
		return nil, fmt.Errorf("--max-diagnostics must not be negative")
	}
	if maxDiagnostics == 0 {
		maxDiagnostics = cfg.Diagnostics.Max
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	colorFlag = strings.ToLower(strings.TrimSpace(colorFlag))
	switch colorFlag {
	case "auto", "on", "off":
	default:
		return nil, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}

	opts, err := cfg.AnalysisOptions()
	if err != nil {
		return nil, err
	}
	return &settings{
		cfg:            cfg,
		analysis:       opts,
		maxDiagnostics: maxDiagnostics,
		debounce:       cfg.LSP.Debounce.Duration,
		timings:        timings,
		color:          colorFlag,
	}, nil
}

func withSettings(ctx context.Context, s *settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// currentSettings returns the settings attached by the root pre-run hook.
func currentSettings(cmd *cobra.Command) (*settings, error) {
	if s, ok := cmd.Context().Value(settingsKey{}).(*settings); ok && s != nil {
		return s, nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return buildSettings(cmd, cfg)
}

func (s *settings) useColor(f *os.File) bool {
	return s.color == "on" || (s.color == "auto" && isTerminal(f))
}

func (s *settings) prettyOpts(f *os.File, mode diagfmt.PathMode, notes bool) diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     s.useColor(f),
		Context:   1,
		PathMode:  mode,
		ShowNotes: notes,
	}
}
