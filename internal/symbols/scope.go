package symbols

import "verilab/internal/source"

// ScopeKind enumerates the scope flavours of an elaborated design.
type ScopeKind uint8

const (
	ScopeRoot ScopeKind = iota
	ScopeModule
	ScopeGenerate
	ScopeBlock
	ScopeFunction
	ScopeTask
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeRoot:
		return "root"
	case ScopeModule:
		return "module"
	case ScopeGenerate:
		return "generate"
	case ScopeBlock:
		return "block"
	case ScopeFunction:
		return "function"
	case ScopeTask:
		return "task"
	default:
		return "unknown"
	}
}

// ParseScopeKind maps description keywords onto ScopeKind.
func ParseScopeKind(s string) (ScopeKind, bool) {
	switch s {
	case "", "module":
		return ScopeModule, true
	case "generate":
		return ScopeGenerate, true
	case "block", "begin":
		return ScopeBlock, true
	case "function":
		return ScopeFunction, true
	case "task":
		return ScopeTask, true
	}
	return ScopeRoot, false
}

// Scope is a node of the instance hierarchy.
type Scope struct {
	ID     ScopeID
	Kind   ScopeKind
	Name   string
	Parent ScopeID
	Span   source.Span

	children   map[string]ScopeID
	order      []ScopeID
	params     map[string]*Param
	signals    map[string]*Signal
	events     map[string]*Event
	functions  map[string]*Function
	specparams map[string]*Specparam
	genvar     *Genvar
}

func newScope(id ScopeID, kind ScopeKind, name string, parent ScopeID, span source.Span) *Scope {
	return &Scope{
		ID:         id,
		Kind:       kind,
		Name:       name,
		Parent:     parent,
		Span:       span,
		children:   make(map[string]ScopeID),
		params:     make(map[string]*Param),
		signals:    make(map[string]*Signal),
		events:     make(map[string]*Event),
		functions:  make(map[string]*Function),
		specparams: make(map[string]*Specparam),
	}
}

// Children returns child scopes in declaration order.
func (s *Scope) Children() []ScopeID {
	out := make([]ScopeID, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Scope) declared(name string) bool {
	if _, ok := s.params[name]; ok {
		return true
	}
	if _, ok := s.signals[name]; ok {
		return true
	}
	if _, ok := s.events[name]; ok {
		return true
	}
	return false
}
