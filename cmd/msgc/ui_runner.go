package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"msgc/internal/driver"
	"msgc/internal/ui"
)

type planOutcome struct {
	results []driver.FileResult
	err     error
}

func runPlanWithUI(ctx context.Context, dir string, opts driver.Options) ([]driver.FileResult, error) {
	files, err := driver.ListSchemaFiles(dir)
	if err != nil {
		return nil, err
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan planOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		results, err := driver.PlanDir(ctx, dir, optsCopy)
		outcomeCh <- planOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel("planning "+dir, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
