package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"airtight/internal/driver"
	"airtight/internal/ui"
)

type lintOutcome struct {
	result *driver.Result
	err    error
}

// runLintWithUI runs lint in the background while the progress view reads
// its events. Quitting the view cancels the run.
func runLintWithUI(ctx context.Context, title string, files []string, lint func(context.Context, driver.ProgressSink) (*driver.Result, error)) (*driver.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		res, err := lint(ctx, driver.ChannelSink{Ch: events})
		outcomeCh <- lintOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout), tea.WithContext(ctx))
	_, uiErr := program.Run()
	cancel()
	// воркеры могут ждать на полном канале
	for range events {
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
