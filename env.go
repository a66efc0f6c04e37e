// env.go — lexical environments.
//
// An Env is one scope frame: a name→Value table plus a parent link. Frames
// chain current → enclosing → … → globals, and the chain is what closures
// capture — a Fun stores the *Env that was active at its definition, so a
// call frame encloses the closure environment, never the caller's. Frames are
// shared freely between closures and never copied; Go's garbage collector
// reclaims a frame once no closure or caller can reach it, including frames
// caught in closure/instance reference cycles.
package lox

// Env is a lexical environment frame with a parent link. Lookups walk
// parent-ward.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a new frame enclosed by parent (which may be nil for the
// outermost frame).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name to v in this frame only, shadowing any outer binding.
// Redefining an existing name in the same frame overwrites it.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name, walking outward through
// the enclosing frames. The second result is false when no frame binds name.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// Assign mutates the nearest existing binding of name in place. It never
// creates a binding; false means no frame in the chain binds name.
func (e *Env) Assign(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = v
			return true
		}
	}
	return false
}

// Ancestor returns the frame exactly distance hops up the parent chain.
// The resolver guarantees the distance is valid for resolved references.
func (e *Env) Ancestor(distance int) *Env {
	env := e
	for i := 0; i < distance; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name directly from the frame at the given distance. Used for
// resolver-annotated references, bypassing the outward search.
func (e *Env) GetAt(distance int, name string) Value {
	return e.Ancestor(distance).table[name]
}

// AssignAt writes name directly in the frame at the given distance.
func (e *Env) AssignAt(distance int, name string, v Value) {
	e.Ancestor(distance).table[name] = v
}
