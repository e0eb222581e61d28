package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/slaakko/cmajor-sub007/internal/driver"
	"github.com/slaakko/cmajor-sub007/internal/project"
	"github.com/slaakko/cmajor-sub007/internal/ui"
)

type buildOutcome struct {
	result *driver.BuildResult
	err    error
}

func runBuildWithUI(ctx context.Context, title string, units []string, cfg *project.Config, opts driver.Options) (*driver.BuildResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Build(ctx, cfg, opts)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, units, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// The view may quit before the build does.
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
