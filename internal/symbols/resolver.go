package symbols

import (
	"crust/internal/diag"
	"crust/internal/source"
)

// Resolver drives the scope stack: declarations go to the top scope,
// lookups walk outward through parents.
type Resolver struct {
	table    *Table
	reporter diag.Reporter
	stack    []ScopeID
}

// NewResolver wires a resolver to a table. If root is valid it becomes the
// current scope; otherwise Declare is a no-op.
func NewResolver(table *Table, root ScopeID, reporter diag.Reporter) *Resolver {
	r := &Resolver{
		table:    table,
		reporter: reporter,
		stack:    make([]ScopeID, 0, 8),
	}
	if root.IsValid() {
		r.stack = append(r.stack, root)
	}
	return r
}

// CurrentScope returns the scope at the top of the stack.
func (r *Resolver) CurrentScope() ScopeID {
	if len(r.stack) == 0 {
		return NoScopeID
	}
	return r.stack[len(r.stack)-1]
}

// Depth reports how many scopes are open.
func (r *Resolver) Depth() int { return len(r.stack) }

// Enter creates a child of the current scope and pushes it.
func (r *Resolver) Enter(kind ScopeKind, owner ScopeOwner, span source.Span) ScopeID {
	scope := r.table.Scopes.New(kind, r.CurrentScope(), owner, span)
	r.stack = append(r.stack, scope)
	return scope
}

// Leave pops the current scope. A mismatch with expected is a resolver bug.
func (r *Resolver) Leave(expected ScopeID) {
	if len(r.stack) == 0 {
		return
	}
	top := r.stack[len(r.stack)-1]
	if expected.IsValid() && top != expected {
		panic("symbols: unbalanced scope stack")
	}
	r.stack = r.stack[:len(r.stack)-1]
}

// Declare installs sym into the current scope. Redeclaring a name in the same
// scope is allowed: the newer binding shadows the older one.
func (r *Resolver) Declare(sym Symbol) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	scope := r.table.Scopes.Get(scopeID)
	if scope == nil {
		return NoSymbolID, false
	}
	sym.Scope = scopeID
	id := r.table.Symbols.New(sym)
	scope.Symbols = append(scope.Symbols, id)
	scope.NameIndex[sym.Name] = append(scope.NameIndex[sym.Name], id)
	return id, true
}

// DeclaredHere reports whether name already has a binding in the current scope.
func (r *Resolver) DeclaredHere(name source.StringID) (SymbolID, bool) {
	scope := r.table.Scopes.Get(r.CurrentScope())
	if scope == nil {
		return NoSymbolID, false
	}
	bucket := scope.NameIndex[name]
	if len(bucket) == 0 {
		return NoSymbolID, false
	}
	return bucket[len(bucket)-1], true
}

// Lookup walks the scope chain and returns the newest visible binding of name.
func (r *Resolver) Lookup(name source.StringID) (SymbolID, bool) {
	scopeID := r.CurrentScope()
	for scopeID.IsValid() {
		scope := r.table.Scopes.Get(scopeID)
		if scope == nil {
			break
		}
		if bucket := scope.NameIndex[name]; len(bucket) > 0 {
			return bucket[len(bucket)-1], true
		}
		scopeID = scope.Parent
	}
	return NoSymbolID, false
}
