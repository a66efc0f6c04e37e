// callable.go — everything invokable: user functions, bound methods, and
// host natives. Classes are callable too (construction); their Call lives in
// class.go.
//
// A Fun is immutable once created: parameter tokens, body statements, the
// captured closure environment, and the is-initializer flag. Binding a method
// to an instance allocates only a two-pointer BoundMethod — the function and
// its closure chain are shared, never duplicated, so repeated binding is
// cheap and `this` inside the method is the very instance the caller holds.
package lox

// Callable is the call protocol shared by functions, bound methods, classes,
// and natives. Arity is checked by the evaluator before Call; Call may assume
// len(args) matches. Runtime failures inside Call propagate via the
// evaluator's panic discipline (see interpreter_exec.go).
type Callable interface {
	Arity() int
	Call(ip *Interpreter, args []Value) Value
}

// Fun is a user-defined function plus the environment it closed over.
type Fun struct {
	Name   string // "" for anonymous function literals
	Params []Token
	Body   []Stmt
	Env    *Env // environment at definition time (the closure)
	IsInit bool // true only for class "init" methods
}

func (f *Fun) Arity() int { return len(f.Params) }

// Call runs the body in a fresh frame enclosed by the closure environment —
// not the caller's environment. That is the lexical-scoping contract.
func (f *Fun) Call(ip *Interpreter, args []Value) Value {
	return ip.callFunction(f, f.Env, args)
}

// Bind pairs the function with a receiver. No copying happens here.
func (f *Fun) Bind(recv *Instance) *BoundMethod {
	return &BoundMethod{Fn: f, Recv: recv}
}

// BoundMethod is a thin (function, receiver) pair. Invoking it interposes a
// single "this"-binding frame between the call frame and the function's
// closure, so the body chain is: call frame → this frame → closure.
type BoundMethod struct {
	Fn   *Fun
	Recv *Instance
}

func (b *BoundMethod) Arity() int { return len(b.Fn.Params) }

func (b *BoundMethod) Call(ip *Interpreter, args []Value) Value {
	thisEnv := NewEnv(b.Fn.Env)
	thisEnv.Define("this", InstanceVal(b.Recv))
	v := ip.callFunction(b.Fn, thisEnv, args)
	if b.Fn.IsInit {
		// An initializer always yields its instance, whatever the body did.
		return InstanceVal(b.Recv)
	}
	return v
}

// Native is a host function exposed to Lox through the minimal call protocol:
// a name, a fixed arity, and an implementation. Natives live in the
// interpreter's core environment (see interpreter.go).
type Native struct {
	Name   string
	NArity int
	Impl   func(ip *Interpreter, args []Value) Value
}

func (n *Native) Arity() int { return n.NArity }

func (n *Native) Call(ip *Interpreter, args []Value) Value {
	return n.Impl(ip, args)
}

// AsCallable extracts the Callable behind v, if any.
func AsCallable(v Value) (Callable, bool) {
	switch v.Tag {
	case VTFun:
		return v.Data.(*Fun), true
	case VTBound:
		return v.Data.(*BoundMethod), true
	case VTNative:
		return v.Data.(*Native), true
	case VTClass:
		return v.Data.(*Class), true
	default:
		return nil, false
	}
}
