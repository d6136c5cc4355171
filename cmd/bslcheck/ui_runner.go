package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"bslcheck/internal/driver"
	"bslcheck/internal/source"
	"bslcheck/internal/ui"
)

type analyzeOutcome struct {
	run *driver.Run
	err error
}

// runAnalyzeWithUI runs the driver in the background and renders its
// progress events until the run finishes.
func runAnalyzeWithUI(ctx context.Context, title string, fileSet *source.FileSet, paths []string, opts driver.Options) (*driver.Run, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan analyzeOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		run, err := driver.AnalyzeFiles(ctx, fileSet, paths, optsCopy)
		outcomeCh <- analyzeOutcome{run: run, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, paths, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.run, uiErr
	}
	return outcome.run, outcome.err
}
