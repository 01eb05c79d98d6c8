package driver

import "time"

// Stage is the step an expression is in.
type Stage string

const (
	StageParse     Stage = "parse"
	StageElaborate Stage = "elaborate"
	StageFold      Stage = "fold"
	StageCache     Stage = "cache"
)

type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// Event reports progress of one expression, or of the whole run when
// Expr is empty.
type Event struct {
	Expr    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink receives events from worker goroutines; it must be
// goroutine-safe.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events to a channel; the UI reads the other end.
type ChannelSink chan<- Event

func (s ChannelSink) OnEvent(ev Event) { s <- ev }

// SinkFunc adapts a function.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(ev Event) { f(ev) }

func emit(sink ProgressSink, ev Event) {
	if sink != nil {
		sink.OnEvent(ev)
	}
}
