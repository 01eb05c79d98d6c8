package symbols

import (
	"verilab/internal/source"
	"verilab/internal/vnum"
)

type ScopeID uint32

const NoScopeID ScopeID = 0

// Range is a declared [Msb:Lsb] pair. Either direction is legal.
type Range struct {
	Msb int64
	Lsb int64
}

// Width is |Msb-Lsb|+1.
func (r Range) Width() int64 {
	if r.Msb >= r.Lsb {
		return r.Msb - r.Lsb + 1
	}
	return r.Lsb - r.Msb + 1
}

// Ascending reports [0:7] style declarations.
func (r Range) Ascending() bool { return r.Msb < r.Lsb }

// Index maps a declared bit number to its canonical zero-based position,
// where position 0 is the least significant bit.
func (r Range) Index(sb int64) int64 {
	if r.Msb >= r.Lsb {
		return sb - r.Lsb
	}
	return r.Lsb - sb
}

// Low and High return the numerically smaller and larger bound.
func (r Range) Low() int64  { return min(r.Msb, r.Lsb) }
func (r Range) High() int64 { return max(r.Msb, r.Lsb) }

// Signal is a net or variable.
type Signal struct {
	Name   string
	Scope  ScopeID
	Range  Range
	Signed bool
	Domain vnum.Domain
	Array  *Range // nil when the signal is not an array
	Span   source.Span
}

// Width is the vector width of one word.
func (s *Signal) Width() int64 {
	if s.Domain == vnum.DomainReal {
		return 1
	}
	return s.Range.Width()
}

func (s *Signal) IsArray() bool { return s.Array != nil }

// WordValid reports whether addr lies inside the array range.
func (s *Signal) WordValid(addr int64) bool {
	return s.Array != nil && addr >= s.Array.Low() && addr <= s.Array.High()
}

// WordAddress converts an array index to a zero-based word address.
func (s *Signal) WordAddress(addr int64) int64 {
	return addr - s.Array.Low()
}

// Param is a compile-time constant.
type Param struct {
	Name   string
	Scope  ScopeID
	Value  vnum.Value
	Real   float64
	IsReal bool
	Range  *Range // explicit declared range, nil otherwise
	Span   source.Span
}

// DeclRange is the declared range, or [len-1:0] for an unranged param.
func (p *Param) DeclRange() Range {
	if p.Range != nil {
		return *p.Range
	}
	return Range{Msb: int64(p.Value.Len()) - 1, Lsb: 0}
}

type Event struct {
	Name  string
	Scope ScopeID
	Span  source.Span
}

// Genvar is the loop variable of a generate scope.
type Genvar struct {
	Name  string
	Value int64
}

// Specparam is a specify-block parameter; either integer or real.
type Specparam struct {
	Name   string
	IsReal bool
	Int    int64
	Real   float64
}

// Function is a user function. Ports and Return live in the function's
// own scope.
type Function struct {
	Name   string
	Scope  ScopeID
	Ports  []*Signal
	Return *Signal
	Span   source.Span
}

type BindingKind uint8

const (
	BindNone BindingKind = iota
	BindParam
	BindSignal
	BindEvent
)

// Binding is the result of a name lookup.
type Binding struct {
	Kind   BindingKind
	Param  *Param
	Signal *Signal
	Event  *Event
	Scope  ScopeID // scope the name was found in
}
