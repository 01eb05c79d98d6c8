package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"verilab/internal/design"
	"verilab/internal/driver"
	"verilab/internal/ui"
)

type elabOutcome struct {
	run *driver.Run
	err error
}

// runElabWithUI runs the driver in the background and shows its events
// until the channel closes.
func runElabWithUI(ctx context.Context, title string, d *design.Design, opts driver.Options) (*driver.Run, error) {
	names := make([]string, len(d.Exprs))
	for i, e := range d.Exprs {
		names[i] = e.Name
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan elabOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink(events)
		run, err := driver.ElaborateAll(ctx, d, optsCopy)
		outcomeCh <- elabOutcome{run: run, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	// после выхода из UI (в т.ч. по q) дочитываем канал, иначе воркеры встанут
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.run, uiErr
	}
	return outcome.run, outcome.err
}
