// class.go — the class half of the object model: a name, an optional
// superclass, and an unbound method table. Binding to an instance happens per
// access (instance.go), not at class build time.
package lox

// Class is a Lox class value. Methods are stored unbound; Super is the
// single-inheritance link.
type Class struct {
	Name    string
	Super   *Class
	Methods map[string]*Fun
}

// FindMethod looks name up on this class, then up the superclass chain.
// The nearest definition wins.
func (c *Class) FindMethod(name string) *Fun {
	for cls := c; cls != nil; cls = cls.Super {
		if m, ok := cls.Methods[name]; ok {
			return m
		}
	}
	return nil
}

// Arity of construction is init's arity; a class without an init anywhere on
// its chain takes no arguments.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs an instance: allocate with an empty field table, run a
// bound init with the arguments if the chain defines one, and return the
// instance (init's is-initializer override makes that unconditional).
func (c *Class) Call(ip *Interpreter, args []Value) Value {
	inst := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		init.Bind(inst).Call(ip, args)
	}
	return InstanceVal(inst)
}
