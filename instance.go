// instance.go — the instance half of the object model.
//
// Instances are always handled as *Instance inside a Value, and Get returns
// the stored Value itself — never a copy. Nested structure stays aliased:
// after `a.inner.value = 1`, every holder of that inner instance observes the
// write, and `x.getThis() == x` holds because the bound `this` is the same
// pointer the caller has.
package lox

// Instance is an object: a class reference plus a mutable field table.
// Fields are not pre-declared; Set creates them on first write.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// Get reads a property: own fields first, then the class method chain. A
// method resolved this way is returned already bound to this instance, so a
// property access always yields a directly callable value. The second result
// is false when neither a field nor a method exists.
func (i *Instance) Get(name string) (Value, bool) {
	if v, ok := i.Fields[name]; ok {
		return v, true
	}
	if m := i.Class.FindMethod(name); m != nil {
		return BoundVal(m.Bind(i)), true
	}
	return Value{}, false
}

// Set writes the field unconditionally, creating it if needed.
func (i *Instance) Set(name string, v Value) {
	i.Fields[name] = v
}
