package trace

import (
	"strings"

	"github.com/pkg/errors"
)

// Level controls verbosity.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // ring only, dumped when a run fails
	LevelPhase        // driver and passes
	LevelDetail       // plus every expression
	LevelDebug        // plus every syntax node
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelError:
		return "error"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

var ErrBadLevel = errors.New("invalid trace level")

func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off":
		return LevelOff, nil
	case "error":
		return LevelError, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	}
	return LevelOff, errors.Wrapf(ErrBadLevel, "%q (expected off|error|phase|detail|debug)", s)
}

// ShouldEmit reports whether events of scope pass this level.
// LevelError records phases so that the ring has something to dump.
func (l Level) ShouldEmit(scope Scope) bool {
	switch l {
	case LevelError, LevelPhase:
		return scope <= ScopePass
	case LevelDetail:
		return scope <= ScopeExpr
	case LevelDebug:
		return true
	}
	return false
}
