package symbols

import (
	"errors"
	"fmt"
	"slices"

	"fortio.org/safecast"
)

// Validate checks the structural invariants of a finished table:
//   - parent and child links of scopes agree, only file roots have no parent;
//   - every symbol is listed in its scope and in the scope's name index;
//   - parameters live in function scopes, file roots are registered.
//
// All violations are joined into one error. ResolveFile runs it when
// ResolveOptions.Validate is set; the compiler does so under debug tracing.
func (t *Table) Validate() error {
	var errs []error
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		id, err := safecast.Conv[uint32](idx)
		if err != nil {
			return fmt.Errorf("scope index %d: %w", idx, err)
		}
		errs = append(errs, t.checkScope(ScopeID(id))...)
	}
	for idx := 1; idx < len(t.Symbols.data); idx++ {
		id, err := safecast.Conv[uint32](idx)
		if err != nil {
			return fmt.Errorf("symbol index %d: %w", idx, err)
		}
		errs = append(errs, t.checkSymbol(SymbolID(id))...)
	}
	return errors.Join(errs...)
}

func (t *Table) checkScope(id ScopeID) []error {
	var errs []error
	scope := t.Scopes.Get(id)
	if scope.Kind == ScopeInvalid {
		errs = append(errs, fmt.Errorf("scope %d has invalid kind", id))
	}

	parent := t.Scopes.Get(scope.Parent)
	switch {
	case scope.Kind == ScopeFile:
		if parent != nil {
			errs = append(errs, fmt.Errorf("file scope %d has parent %d", id, scope.Parent))
		}
		if t.fileRoot[scope.Owner.SourceFile] != id {
			errs = append(errs, fmt.Errorf("file scope %d is not the registered root of file %d", id, scope.Owner.SourceFile))
		}
	case parent == nil:
		errs = append(errs, fmt.Errorf("scope %d (%s) has no parent", id, scope.Kind))
	case scope.Parent == id || !slices.Contains(parent.Children, id):
		errs = append(errs, fmt.Errorf("scope %d is missing from children of %d", id, scope.Parent))
	}

	for _, child := range scope.Children {
		if c := t.Scopes.Get(child); c == nil || c.Parent != id {
			errs = append(errs, fmt.Errorf("scope %d lists child %d that points elsewhere", id, child))
		}
	}
	for name, bucket := range scope.NameIndex {
		for _, sym := range bucket {
			if !slices.Contains(scope.Symbols, sym) {
				errs = append(errs, fmt.Errorf("scope %d indexes name %d to foreign symbol %d", id, name, sym))
			}
		}
	}
	return errs
}

func (t *Table) checkSymbol(id SymbolID) []error {
	sym := t.Symbols.Get(id)
	scope := t.Scopes.Get(sym.Scope)
	if scope == nil {
		return []error{fmt.Errorf("symbol %d has invalid scope %d", id, sym.Scope)}
	}
	var errs []error
	if !slices.Contains(scope.Symbols, id) {
		errs = append(errs, fmt.Errorf("symbol %d is missing from scope %d", id, sym.Scope))
	}
	if !slices.Contains(scope.NameIndex[sym.Name], id) {
		errs = append(errs, fmt.Errorf("symbol %d is missing from the name index of scope %d", id, sym.Scope))
	}
	if sym.Kind == SymbolParam && scope.Kind != ScopeFunction {
		errs = append(errs, fmt.Errorf("parameter %d declared in %s scope %d", id, scope.Kind, sym.Scope))
	}
	return errs
}
