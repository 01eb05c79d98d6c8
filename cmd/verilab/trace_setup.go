package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"verilab/internal/trace"
)

type traceSession struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	ring      *trace.RingTracer
	ringOut   string
}

// setupTracing inspects trace-related flags, attaches the tracer to the
// command context and returns the session; Close must be called.
func setupTracing(cmd *cobra.Command) (*traceSession, error) {
	root := cmd.Root()

	traceOutput, err := root.PersistentFlags().GetString("trace")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace flag")
	}
	levelStr, err := root.PersistentFlags().GetString("trace-level")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace-level flag")
	}
	modeStr, err := root.PersistentFlags().GetString("trace-mode")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace-mode flag")
	}
	ringSize, err := root.PersistentFlags().GetInt("trace-ring-size")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace-ring-size flag")
	}
	heartbeatInterval, err := root.PersistentFlags().GetDuration("trace-heartbeat")
	if err != nil {
		return nil, errors.Wrap(err, "failed to get trace-heartbeat flag")
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, err
	}
	// --trace без уровня включает phase
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return &traceSession{tracer: trace.Nop}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tracer")
	}
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	s := &traceSession{tracer: tracer, ringOut: traceOutput}
	switch t := tracer.(type) {
	case *trace.RingTracer:
		s.ring = t
	case *trace.MultiTracer:
		s.ring = t.Ring()
	}
	s.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	return s, nil
}

// DumpRing writes the ring buffer; used when a command fails. In ring
// mode the buffer goes to --trace, in both mode it goes to stderr since
// --trace already has the stream.
func (s *traceSession) DumpRing(stderr io.Writer) {
	if s == nil || s.ring == nil {
		return
	}
	w, format := stderr, trace.FormatText
	if _, ok := s.tracer.(*trace.RingTracer); ok && s.ringOut != "" && s.ringOut != "-" {
		f, err := os.Create(s.ringOut)
		if err != nil {
			fmt.Fprintf(stderr, "trace: %v\n", err)
			return
		}
		defer f.Close()
		w, format = f, trace.FormatFor(s.ringOut)
	}
	if err := s.ring.Dump(w, format); err != nil {
		fmt.Fprintf(stderr, "trace: dump error: %v\n", err)
	}
}

func (s *traceSession) Close(stderr io.Writer) {
	if s == nil {
		return
	}
	s.heartbeat.Stop()
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(stderr, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(stderr, "trace: close error: %v\n", err)
	}
}
