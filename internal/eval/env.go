package eval

// Env maps names to their last assigned value. The global environment has no
// parent; a call's activation has the declaring environment of the function as parent.
type Env struct {
	vars   map[string]Value
	parent *Env
}

func NewEnv(parent *Env) *Env {
	return &Env{vars: make(map[string]Value), parent: parent}
}

// Define binds name in this environment, replacing any previous binding here.
func (e *Env) Define(name string, v Value) {
	e.vars[name] = v
}

// Lookup searches this environment and then its parents.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.vars[name]; ok {
			return v, true
		}
	}
	return Nothing, false
}

// Assign updates the nearest existing binding of name.
func (e *Env) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.vars[name]; ok {
			env.vars[name] = v
			return true
		}
	}
	return false
}

// Len reports the number of bindings in this environment only.
func (e *Env) Len() int { return len(e.vars) }
