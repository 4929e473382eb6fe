package symbols

// ScopeID identifies a scope in the table arena; 0 is reserved.
type ScopeID uint32

// NoScopeID marks the absence of a scope reference.
const NoScopeID ScopeID = 0

func (id ScopeID) IsValid() bool { return id != NoScopeID }

// SymbolID identifies a declared name in the table arena; 0 is reserved.
type SymbolID uint32

// NoSymbolID marks an unresolved reference.
const NoSymbolID SymbolID = 0

func (id SymbolID) IsValid() bool { return id != NoSymbolID }
