package design

import (
	"fmt"
	"strings"

	"verilab/internal/diag"
	"verilab/internal/elab"
	"verilab/internal/source"
	"verilab/internal/symbols"
)

// Design is a loaded description, ready to elaborate.
type Design struct {
	Path    string
	Content []byte // raw file bytes, the cache key input
	Options Options
	Table   *symbols.Table
	Exprs   []Expr
}

// Expr is one named expression to elaborate.
type Expr struct {
	Index      int
	Name       string
	Scope      symbols.ScopeID
	ScopePath  string
	Text       string
	Width      int
	SysTaskArg bool
}

// Options holds only what the file set explicitly.
type Options struct {
	IntegerWidth *int
	Specify      *bool
	IcarusMisc   *bool
}

// Apply overlays the file's options on base.
func (o Options) Apply(base elab.Options) elab.Options {
	if o.IntegerWidth != nil {
		base.IntegerWidth = *o.IntegerWidth
	}
	if o.Specify != nil {
		base.SpecifyBlocks = *o.Specify
	}
	if o.IcarusMisc != nil {
		base.IcarusMisc = *o.IcarusMisc
	}
	return base
}

// Find returns the expression called name.
func (d *Design) Find(name string) (Expr, bool) {
	for _, e := range d.Exprs {
		if e.Name == name {
			return e, true
		}
	}
	return Expr{}, false
}

// Error is a problem in the description's content, as opposed to an
// I/O failure. The CLI renders it as a diagnostic.
type Error struct {
	Code diag.Code
	Path string
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Code.ID(), e.Msg)
}

func newError(code diag.Code, path, format string, args ...any) *Error {
	return &Error{Code: code, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// ResolveScope finds a dotted scope path below the root. An empty path
// and "$root" both name the root.
func ResolveScope(tb *symbols.Table, path string) (symbols.ScopeID, bool) {
	if path == "" || path == "$root" {
		return tb.Root(), true
	}
	return tb.FindScope(tb.Root(), strings.Split(path, "."), false)
}

// Single builds a one-expression design over base's symbols, or over an
// empty table when base is nil. It has no Content, so it is never cached.
func Single(base *Design, text, scopePath string, width int) (*Design, error) {
	path := "<expr>"
	tb := symbols.NewTable()
	var opts Options
	if base != nil {
		path, tb, opts = base.Path, base.Table, base.Options
	}
	if strings.TrimSpace(text) == "" {
		return nil, newError(diag.DsnInvalid, path, "empty expression")
	}
	scope, ok := ResolveScope(tb, scopePath)
	if !ok {
		return nil, newError(diag.DsnUnknownScope, path, "no scope %q", scopePath)
	}
	return &Design{
		Path:    path,
		Options: opts,
		Table:   tb,
		Exprs: []Expr{{
			Name:      "expr",
			Scope:     scope,
			ScopePath: tb.ScopeName(scope),
			Text:      text,
			Width:     width,
		}},
	}, nil
}

// Diagnostic renders e for diagfmt; it has no source position.
func (e *Error) Diagnostic() diag.Diagnostic {
	return diag.New(diag.SevError, e.Code, source.Span{}, e.Path+": "+e.Msg)
}
