package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"pseudo/internal/driver"
	"pseudo/internal/ui"
)

type diagnoseOutcome struct {
	report *driver.Report
	err    error
}

// runDiagnoseWithUI runs driver.Diagnose while a progress view consumes its
// events. Quitting the view cancels the run.
func runDiagnoseWithUI(ctx context.Context, title string, files []string, opts driver.Options) (*driver.Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan diagnoseOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		rep, err := driver.Diagnose(ctx, files, optsCopy)
		outcomeCh <- diagnoseOutcome{report: rep, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr), tea.WithContext(ctx))
	_, uiErr := program.Run()
	cancel()
	// view закрыт: дочитываем события, чтобы не заблокировать воркеры
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.report, uiErr
	}
	return outcome.report, outcome.err
}
