package symbols

import (
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/pkg/errors"

	"verilab/internal/source"
)

// ErrDuplicate is returned when a name is declared twice in one scope.
var ErrDuplicate = errors.New("duplicate declaration")

// ErrNoScope is returned for operations on unknown scope ids.
var ErrNoScope = errors.New("unknown scope")

// Table is an in-memory scope tree. It is built once and then only read,
// so concurrent lookups need no locking.
type Table struct {
	scopes []*Scope // index 0 unused
}

// NewTable creates a table holding only the root scope.
func NewTable() *Table {
	t := &Table{scopes: make([]*Scope, 1, 8)}
	t.scopes = append(t.scopes, newScope(1, ScopeRoot, "", NoScopeID, source.Span{}))
	return t
}

// Root is the parent of every top-level module.
func (t *Table) Root() ScopeID { return 1 }

// Scope returns nil for unknown ids.
func (t *Table) Scope(id ScopeID) *Scope {
	if id == NoScopeID || int(id) >= len(t.scopes) {
		return nil
	}
	return t.scopes[id]
}

// Len is the number of scopes including the root.
func (t *Table) Len() int { return len(t.scopes) - 1 }

// AddScope declares a named child scope.
func (t *Table) AddScope(parent ScopeID, kind ScopeKind, name string, span source.Span) (ScopeID, error) {
	p := t.Scope(parent)
	if p == nil {
		return NoScopeID, errors.Wrapf(ErrNoScope, "scope %d", parent)
	}
	if _, dup := p.children[name]; dup {
		return NoScopeID, errors.Wrapf(ErrDuplicate, "scope %q in %s", name, t.ScopeName(parent))
	}
	raw, err := safecast.Conv[uint32](len(t.scopes))
	if err != nil {
		return NoScopeID, errors.Wrap(err, "scope arena overflow")
	}
	id := ScopeID(raw)
	t.scopes = append(t.scopes, newScope(id, kind, name, parent, span))
	p.children[name] = id
	p.order = append(p.order, id)
	return id, nil
}

func (t *Table) scopeFor(id ScopeID, name string) (*Scope, error) {
	s := t.Scope(id)
	if s == nil {
		return nil, errors.Wrapf(ErrNoScope, "scope %d", id)
	}
	if s.declared(name) {
		return nil, errors.Wrapf(ErrDuplicate, "%q in %s", name, t.ScopeName(id))
	}
	return s, nil
}

func (t *Table) AddSignal(scope ScopeID, sig *Signal) error {
	s, err := t.scopeFor(scope, sig.Name)
	if err != nil {
		return err
	}
	sig.Scope = scope
	s.signals[sig.Name] = sig
	return nil
}

func (t *Table) AddParam(scope ScopeID, p *Param) error {
	s, err := t.scopeFor(scope, p.Name)
	if err != nil {
		return err
	}
	p.Scope = scope
	s.params[p.Name] = p
	return nil
}

func (t *Table) AddEvent(scope ScopeID, ev *Event) error {
	s, err := t.scopeFor(scope, ev.Name)
	if err != nil {
		return err
	}
	ev.Scope = scope
	s.events[ev.Name] = ev
	return nil
}

// SetGenvar attaches a genvar value to a generate scope.
func (t *Table) SetGenvar(scope ScopeID, g Genvar) error {
	s := t.Scope(scope)
	if s == nil {
		return errors.Wrapf(ErrNoScope, "scope %d", scope)
	}
	s.genvar = &g
	return nil
}

func (t *Table) AddSpecparam(scope ScopeID, sp *Specparam) error {
	s := t.Scope(scope)
	if s == nil {
		return errors.Wrapf(ErrNoScope, "scope %d", scope)
	}
	if _, dup := s.specparams[sp.Name]; dup {
		return errors.Wrapf(ErrDuplicate, "specparam %q in %s", sp.Name, t.ScopeName(scope))
	}
	s.specparams[sp.Name] = sp
	return nil
}

// AddFunction creates a function scope under scope and declares its
// return value and ports inside it. ret may be nil for a function
// without a return variable.
func (t *Table) AddFunction(scope ScopeID, name string, ret *Signal, ports []*Signal, span source.Span) (*Function, error) {
	s := t.Scope(scope)
	if s == nil {
		return nil, errors.Wrapf(ErrNoScope, "scope %d", scope)
	}
	if _, dup := s.functions[name]; dup {
		return nil, errors.Wrapf(ErrDuplicate, "function %q in %s", name, t.ScopeName(scope))
	}
	fs, err := t.AddScope(scope, ScopeFunction, name, span)
	if err != nil {
		return nil, err
	}
	fn := &Function{Name: name, Scope: fs, Return: ret, Span: span}
	if ret != nil {
		if err := t.AddSignal(fs, ret); err != nil {
			return nil, err
		}
	}
	for _, port := range ports {
		if err := t.AddSignal(fs, port); err != nil {
			return nil, errors.Wrapf(err, "function %s", name)
		}
		fn.Ports = append(fn.Ports, port)
	}
	s.functions[name] = fn
	return fn, nil
}

// ScopeName returns the dotted hierarchical name; the root is "$root".
func (t *Table) ScopeName(id ScopeID) string {
	var parts []string
	for s := t.Scope(id); s != nil && s.Kind != ScopeRoot; s = t.Scope(s.Parent) {
		parts = append(parts, s.Name)
	}
	if len(parts) == 0 {
		return "$root"
	}
	slices.Reverse(parts)
	return strings.Join(parts, ".")
}

func (t *Table) ChildScope(scope ScopeID, name string) (ScopeID, bool) {
	s := t.Scope(scope)
	if s == nil {
		return NoScopeID, false
	}
	id, ok := s.children[name]
	return id, ok
}

func (t *Table) descend(from ScopeID, path []string) (ScopeID, bool) {
	cur := from
	for _, name := range path {
		next, ok := t.ChildScope(cur, name)
		if !ok {
			return NoScopeID, false
		}
		cur = next
	}
	return cur, true
}

// FindScope resolves path below scope (relative) or below the root.
func (t *Table) FindScope(scope ScopeID, path []string, relative bool) (ScopeID, bool) {
	if len(path) == 0 {
		return NoScopeID, false
	}
	if relative {
		return t.descend(scope, path)
	}
	return t.descend(t.Root(), path)
}

// resolvePrefix finds the scope named by a hierarchical prefix using
// upward search: the first component may name a child of scope or of
// any of its ancestors.
func (t *Table) resolvePrefix(scope ScopeID, prefix []string) (ScopeID, bool) {
	for s := t.Scope(scope); s != nil; s = t.Scope(s.Parent) {
		if s.Name == prefix[0] && s.Kind != ScopeRoot {
			if id, ok := t.descend(s.ID, prefix[1:]); ok {
				return id, true
			}
		}
		if id, ok := t.descend(s.ID, prefix); ok {
			return id, true
		}
	}
	return NoScopeID, false
}

// Lookup binds a name. A simple name is searched in scope and then its
// ancestors; within one scope params win over signals, signals over
// events. A hierarchical name resolves its prefix to a scope first.
func (t *Table) Lookup(scope ScopeID, path []string) Binding {
	if len(path) == 0 {
		return Binding{}
	}
	name := path[len(path)-1]
	if len(path) > 1 {
		target, ok := t.resolvePrefix(scope, path[:len(path)-1])
		if !ok {
			return Binding{}
		}
		return bindIn(t.Scope(target), name)
	}
	for s := t.Scope(scope); s != nil; s = t.Scope(s.Parent) {
		if b := bindIn(s, name); b.Kind != BindNone {
			return b
		}
	}
	return Binding{}
}

func bindIn(s *Scope, name string) Binding {
	if p, ok := s.params[name]; ok {
		return Binding{Kind: BindParam, Param: p, Scope: s.ID}
	}
	if sig, ok := s.signals[name]; ok {
		return Binding{Kind: BindSignal, Signal: sig, Scope: s.ID}
	}
	if ev, ok := s.events[name]; ok {
		return Binding{Kind: BindEvent, Event: ev, Scope: s.ID}
	}
	return Binding{Kind: BindNone, Scope: s.ID}
}

// FindFunction resolves a function name the same way Lookup does.
func (t *Table) FindFunction(scope ScopeID, path []string) *Function {
	if len(path) == 0 {
		return nil
	}
	name := path[len(path)-1]
	if len(path) > 1 {
		target, ok := t.resolvePrefix(scope, path[:len(path)-1])
		if !ok {
			return nil
		}
		return t.Scope(target).functions[name]
	}
	for s := t.Scope(scope); s != nil; s = t.Scope(s.Parent) {
		if fn, ok := s.functions[name]; ok {
			return fn
		}
	}
	return nil
}

// Genvar returns the nearest enclosing genvar binding.
func (t *Table) Genvar(scope ScopeID) (*Genvar, bool) {
	for s := t.Scope(scope); s != nil; s = t.Scope(s.Parent) {
		if s.genvar != nil {
			return s.genvar, true
		}
	}
	return nil, false
}

// Specparam searches scope and its ancestors.
func (t *Table) Specparam(scope ScopeID, name string) (*Specparam, bool) {
	for s := t.Scope(scope); s != nil; s = t.Scope(s.Parent) {
		if sp, ok := s.specparams[name]; ok {
			return sp, true
		}
	}
	return nil, false
}

var _ Resolver = (*Table)(nil)
