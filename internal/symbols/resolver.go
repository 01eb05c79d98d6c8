package symbols

// Resolver is the read-only name resolution capability the elaborator
// consumes. Table is the in-memory implementation.
type Resolver interface {
	// Lookup binds a (possibly hierarchical) name to a param, signal or event.
	Lookup(scope ScopeID, path []string) Binding
	FindFunction(scope ScopeID, path []string) *Function
	// FindScope resolves a scope path from the root (absolute) or from scope.
	FindScope(scope ScopeID, path []string, relative bool) (ScopeID, bool)
	ChildScope(scope ScopeID, name string) (ScopeID, bool)
	Genvar(scope ScopeID) (*Genvar, bool)
	Specparam(scope ScopeID, name string) (*Specparam, bool)
	ScopeName(scope ScopeID) string
}
