package ui

import (
	"strings"
	"testing"

	"verilab/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	events := make(chan driver.Event)
	m := NewProgressModel("elaborating t.toml", []string{"sum", "bad"}, events).(*progressModel)

	m.apply(driver.Event{Expr: "sum", Stage: driver.StageElaborate, Status: driver.StatusWorking})
	if m.items[0].status != "elaborating" {
		t.Errorf("status = %q", m.items[0].status)
	}
	if f := m.fraction(); f != 0.25 {
		t.Errorf("fraction = %v, want 0.25", f)
	}
	m.apply(driver.Event{Expr: "sum", Stage: driver.StageElaborate, Status: driver.StatusDone})
	m.apply(driver.Event{Expr: "bad", Stage: driver.StageParse, Status: driver.StatusError})
	// late events for a finished row are ignored
	m.apply(driver.Event{Expr: "bad", Stage: driver.StageElaborate, Status: driver.StatusWorking})
	m.apply(driver.Event{Expr: "unknown", Stage: driver.StageParse, Status: driver.StatusWorking})

	if m.items[1].status != "error" || m.failed != 1 {
		t.Errorf("bad row: %+v failed=%d", m.items[1], m.failed)
	}
	if f := m.fraction(); f != 1 {
		t.Errorf("fraction = %v, want 1", f)
	}
	m.Update(doneMsg{})
	view := m.View()
	for _, want := range []string{"done: elaborating t.toml", "sum", "1 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"a_long_expression_name", 10, "a_long_..."},
		{"abcdef", 3, "abc"},
		{"anything", 0, "anything"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
