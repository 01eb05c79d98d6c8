package diag

import (
	"sync/atomic"

	"verilab/internal/source"
)

// Reporter: минимальный контракт получения диагностик.
type Reporter interface {
	Report(code Code, sev Severity, primary source.Span, msg string, notes []Note)
}

// BagReporter: адаптер, который пишет в *Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	if r.Bag == nil {
		return
	}
	r.Bag.Add(Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary, Notes: notes})
}

// NopReporter drops everything. Used for speculative width probes.
type NopReporter struct{}

func (NopReporter) Report(Code, Severity, source.Span, string, []Note) {}

// Counter forwards to Next and counts error-severity reports.
// The count is what callers inspect to learn that an elaboration failed.
type Counter struct {
	Next     Reporter
	errors   atomic.Int64
	warnings atomic.Int64
}

func NewCounter(next Reporter) *Counter {
	return &Counter{Next: next}
}

func (c *Counter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	switch sev {
	case SevError:
		c.errors.Add(1)
	case SevWarning:
		c.warnings.Add(1)
	}
	if c.Next != nil {
		c.Next.Report(code, sev, primary, msg, notes)
	}
}

// Errors returns the number of error-severity reports seen so far.
func (c *Counter) Errors() int64 { return c.errors.Load() }

func (c *Counter) Warnings() int64 { return c.warnings.Load() }

// MultiReporter fans a diagnostic out to every reporter.
type MultiReporter []Reporter

func (m MultiReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	for _, r := range m {
		if r != nil {
			r.Report(code, sev, primary, msg, notes)
		}
	}
}
