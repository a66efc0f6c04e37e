// interpreter_exec.go — the evaluation engine: statement execution and
// expression evaluation over the closed node sets from ast.go.
//
// Dispatch is a type switch per category. The default arms panic with an
// internal message: they are unreachable as long as ast.go and these
// switches list the same kinds.
//
// Environment discipline: the current frame is always passed explicitly, so
// a block's child frame disappears with the call stack on every exit path —
// normal completion, return unwind, or runtime error — and the parent frame
// needs no restoration step.
package lox

import (
	"fmt"
)

// maxCallDepth bounds user-level recursion so runaway programs surface a
// StackOverflow runtime error instead of exhausting the Go stack.
const maxCallDepth = 1024

// run executes prog in Globals, reporting the value of a trailing bare
// expression statement. This is the single recovery point for *RuntimeError
// panics raised anywhere below.
func (ip *Interpreter) run(prog []Stmt, locals map[Expr]int) (last Value, echo bool, err error) {
	for e, d := range locals {
		ip.locals[e] = d
	}
	defer func() {
		if r := recover(); r != nil {
			rte, ok := r.(*RuntimeError)
			if !ok {
				panic(r)
			}
			last, echo, err = Nil, false, rte
		}
	}()
	for _, s := range prog {
		if es, ok := s.(*ExpressionStmt); ok {
			last, echo = ip.evalExpr(es.E, ip.Globals), true
			continue
		}
		echo = false
		ip.execStmt(s, ip.Globals)
	}
	return last, echo, nil
}

// ----- statements -----

func (ip *Interpreter) execStmt(s Stmt, env *Env) {
	switch st := s.(type) {
	case *ExpressionStmt:
		ip.evalExpr(st.E, env)

	case *PrintStmt:
		v := ip.evalExpr(st.E, env)
		fmt.Fprintln(ip.Stdout, FormatValue(v))

	case *VarStmt:
		v := Nil
		if st.Init != nil {
			v = ip.evalExpr(st.Init, env)
		}
		env.Define(st.Name.Lexeme, v)

	case *BlockStmt:
		ip.execBlock(st.Stmts, NewEnv(env))

	case *IfStmt:
		if ip.evalExpr(st.Cond, env).Truthy() {
			ip.execStmt(st.Then, env)
		} else if st.Else != nil {
			ip.execStmt(st.Else, env)
		}

	case *WhileStmt:
		for ip.evalExpr(st.Cond, env).Truthy() {
			ip.execStmt(st.Body, env)
		}

	case *FunctionStmt:
		// Defined in the declaring frame and closing over that same frame,
		// which is what makes self-reference and mutual recursion work.
		fn := &Fun{Name: st.Name.Lexeme, Params: st.Params, Body: st.Body, Env: env}
		env.Define(st.Name.Lexeme, FunVal(fn))

	case *ClassStmt:
		ip.execClassDecl(st, env)

	case *ReturnStmt:
		v := Nil
		if st.Value != nil {
			v = ip.evalExpr(st.Value, env)
		}
		panic(returnSignal{v})

	default:
		panic("interpreter: unhandled statement kind")
	}
}

func (ip *Interpreter) execBlock(stmts []Stmt, env *Env) {
	for _, s := range stmts {
		ip.execStmt(s, env)
	}
}

func (ip *Interpreter) execClassDecl(st *ClassStmt, env *Env) {
	// Two-step define/assign lets methods refer to the class by name.
	env.Define(st.Name.Lexeme, Nil)

	var super *Class
	methodEnv := env
	if st.Super != nil {
		sv := ip.evalExpr(st.Super, env)
		if sv.Tag != VTClass {
			failAt(ErrSuperclassMustBeClass, st.Super.Name,
				"superclass must be a class, got "+sv.TypeName())
		}
		super = sv.Data.(*Class)
		// Methods of a subclass close over a frame binding "super"; the
		// resolver counts this frame when computing distances.
		methodEnv = NewEnv(env)
		methodEnv.Define("super", ClassVal(super))
	}

	methods := make(map[string]*Fun, len(st.Methods))
	for _, m := range st.Methods {
		methods[m.Name.Lexeme] = &Fun{
			Name:   m.Name.Lexeme,
			Params: m.Params,
			Body:   m.Body,
			Env:    methodEnv,
			IsInit: m.Name.Lexeme == "init",
		}
	}

	env.Assign(st.Name.Lexeme, ClassVal(&Class{Name: st.Name.Lexeme, Super: super, Methods: methods}))
}

// ----- expressions -----

func (ip *Interpreter) evalExpr(e Expr, env *Env) Value {
	switch ex := e.(type) {
	case *LiteralExpr:
		return ex.Value

	case *GroupingExpr:
		return ip.evalExpr(ex.Inner, env)

	case *VariableExpr:
		return ip.lookUpVariable(ex.Name, ex, env)

	case *AssignExpr:
		v := ip.evalExpr(ex.Value, env)
		if d, ok := ip.locals[ex]; ok {
			env.AssignAt(d, ex.Name.Lexeme, v)
		} else if !ip.Globals.Assign(ex.Name.Lexeme, v) {
			failAt(ErrUndefinedVariable, ex.Name, "undefined variable '"+ex.Name.Lexeme+"'")
		}
		return v

	case *BinaryExpr:
		return ip.evalBinary(ex, env)

	case *UnaryExpr:
		return ip.evalUnary(ex, env)

	case *LogicalExpr:
		left := ip.evalExpr(ex.Left, env)
		if ex.Op.Type == OR {
			if left.Truthy() {
				return left
			}
		} else if !left.Truthy() {
			return left
		}
		return ip.evalExpr(ex.Right, env)

	case *CallExpr:
		return ip.evalCall(ex, env)

	case *GetExpr:
		obj := ip.evalExpr(ex.Object, env)
		if obj.Tag != VTInstance {
			failAt(ErrPropertyAccessOnNonInstance, ex.Name,
				"only instances have properties, got "+obj.TypeName())
		}
		v, ok := obj.Data.(*Instance).Get(ex.Name.Lexeme)
		if !ok {
			failAt(ErrUndefinedProperty, ex.Name, "undefined property '"+ex.Name.Lexeme+"'")
		}
		return v

	case *SetExpr:
		obj := ip.evalExpr(ex.Object, env)
		if obj.Tag != VTInstance {
			failAt(ErrPropertyAccessOnNonInstance, ex.Name,
				"only instances have fields, got "+obj.TypeName())
		}
		v := ip.evalExpr(ex.Value, env)
		obj.Data.(*Instance).Set(ex.Name.Lexeme, v)
		return v

	case *ThisExpr:
		return ip.lookUpVariable(ex.Keyword, ex, env)

	case *SuperExpr:
		return ip.evalSuper(ex, env)

	case *FunctionExpr:
		return FunVal(&Fun{Params: ex.Params, Body: ex.Body, Env: env})

	default:
		panic("interpreter: unhandled expression kind")
	}
}

// lookUpVariable consults the resolver side table: a hit means walking
// exactly that many frames out, a miss means a global-scope lookup (which
// falls through Globals into Core, where the natives live).
func (ip *Interpreter) lookUpVariable(name Token, e Expr, env *Env) Value {
	if d, ok := ip.locals[e]; ok {
		return env.GetAt(d, name.Lexeme)
	}
	if v, ok := ip.Globals.Get(name.Lexeme); ok {
		return v
	}
	failAt(ErrUndefinedVariable, name, "undefined variable '"+name.Lexeme+"'")
	return Nil
}

func (ip *Interpreter) evalCall(ex *CallExpr, env *Env) Value {
	callee := ip.evalExpr(ex.Callee, env)

	args := make([]Value, 0, len(ex.Args))
	for _, a := range ex.Args {
		args = append(args, ip.evalExpr(a, env))
	}

	callable, ok := AsCallable(callee)
	if !ok {
		failAt(ErrNotCallable, ex.Paren, "can only call functions and classes, got "+callee.TypeName())
	}
	if len(args) != callable.Arity() {
		failAt(ErrArityMismatch, ex.Paren,
			fmt.Sprintf("expected %d arguments but got %d", callable.Arity(), len(args)))
	}

	return ip.callGuarded(callable, ex.Paren, args)
}

// callGuarded invokes c with the recursion-depth guard applied, blaming tok
// on overflow. Every path that enters user code goes through here — explicit
// call sites and implicit ones like equality dispatch — so runaway recursion
// always surfaces as a StackOverflow error instead of exhausting the Go
// stack.
func (ip *Interpreter) callGuarded(c Callable, tok Token, args []Value) Value {
	ip.callDepth++
	defer func() { ip.callDepth-- }()
	if ip.callDepth > maxCallDepth {
		failAt(ErrStackOverflow, tok, "stack overflow")
	}
	return c.Call(ip, args)
}

// evalSuper starts method lookup one level above the class that declared the
// executing method — not above the instance's own class, which may be
// further down the hierarchy.
func (ip *Interpreter) evalSuper(ex *SuperExpr, env *Env) Value {
	d := ip.locals[ex]
	super := env.GetAt(d, "super").Data.(*Class)
	// The "this" frame sits one hop inside the "super" frame.
	recv := env.GetAt(d-1, "this").Data.(*Instance)

	m := super.FindMethod(ex.Method.Lexeme)
	if m == nil {
		failAt(ErrUndefinedProperty, ex.Method, "undefined property '"+ex.Method.Lexeme+"'")
	}
	return BoundVal(m.Bind(recv))
}

// callFunction runs f's body in a fresh frame enclosed by parent (the
// closure for plain calls, the "this" frame for bound methods) and absorbs
// the return unwind. Fall-off-the-end yields nil.
func (ip *Interpreter) callFunction(f *Fun, parent *Env, args []Value) (result Value) {
	env := NewEnv(parent)
	for i, p := range f.Params {
		env.Define(p.Lexeme, args[i])
	}
	defer func() {
		if r := recover(); r != nil {
			ret, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			result = ret.v
		}
	}()
	ip.execBlock(f.Body, env)
	return Nil
}
