package vnum

// Domain is the coarse type category of an expression value.
type Domain uint8

const (
	DomainNone   Domain = iota // scope and event references
	DomainVoid                 // calls that produce no value
	DomainBool                 // two-state
	DomainLogic                // four-state
	DomainReal                 // floating point
	DomainString               // string variables
)

func (d Domain) String() string {
	switch d {
	case DomainNone:
		return "no type"
	case DomainVoid:
		return "void"
	case DomainBool:
		return "bool"
	case DomainLogic:
		return "logic"
	case DomainReal:
		return "real"
	case DomainString:
		return "string"
	}
	return "unknown"
}

// ParseDomain accepts the names used in design descriptions.
func ParseDomain(s string) (Domain, bool) {
	switch s {
	case "", "logic", "reg", "wire":
		return DomainLogic, true
	case "bool", "bit":
		return DomainBool, true
	case "real":
		return DomainReal, true
	case "string":
		return DomainString, true
	}
	return DomainNone, false
}

// IsVector reports bool and logic, the domains that carry a bit width.
func (d Domain) IsVector() bool {
	return d == DomainBool || d == DomainLogic
}
