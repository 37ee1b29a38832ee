package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pseudo/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:          "lsp",
	Short:        "Run the pseudocode language server over stdio",
	SilenceUsage: true,
	RunE:         runLSP,
}

func init() {
	lspCmd.Flags().String("log-level", "warn", "server log level on stderr (debug|info|warn|error)")
}

func runLSP(cmd *cobra.Command, _ []string) error {
	levelStr, err := cmd.Flags().GetString("log-level")
	if err != nil {
		return fmt.Errorf("failed to get log-level flag: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelStr)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	s, err := currentSettings(cmd)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if s.cfg.Path != "" {
		logger.Info("config loaded", "path", s.cfg.Path)
	}
	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Debounce:       s.debounce,
		Analysis:       s.analysis,
		MaxDiagnostics: s.maxDiagnostics,
		Logger:         logger,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
