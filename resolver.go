// resolver.go — the static resolution pass.
//
// Walks the AST once between parsing and evaluation and computes, for every
// variable/this/super reference that resolves to a local scope, the number of
// environment hops between the reference and the scope that declares it. The
// result is a side table keyed by node identity (map[Expr]int) — the AST is
// never mutated, and a reference absent from the table resolves in the global
// scope at runtime.
//
// The walk mirrors exactly the frames the evaluator will create: one scope
// per block, one per function body (parameters included), a "this" scope
// around method bodies, and a "super" scope around the methods of a
// subclass. If the shapes ever diverge, resolved distances point at the
// wrong frame — change both together.
//
// The pass also rejects the static defects that must never reach the
// evaluator: reading a variable in its own initializer, redeclaring a name
// in the same local scope, "return" outside a function, returning a value
// from an initializer, "this" outside a class, "super" outside a subclass,
// and a class inheriting from itself.
package lox

type funcType int

const (
	funcNone funcType = iota
	funcFunction
	funcInitializer
	funcMethod
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Resolver computes the scope-distance side table for one program.
type Resolver struct {
	scopes  []map[string]bool // name → finished-initializing
	locals  map[Expr]int
	errs    []error
	curFunc funcType
	curCls  classType
}

func NewResolver() *Resolver {
	return &Resolver{locals: make(map[Expr]int)}
}

// ResolveProgram resolves prog and returns the side table. All static errors
// are collected; the first is returned.
func ResolveProgram(prog []Stmt) (map[Expr]int, error) {
	r := NewResolver()
	r.resolveStmts(prog)
	if len(r.errs) > 0 {
		return r.locals, r.errs[0]
	}
	return r.locals, nil
}

func (r *Resolver) fail(tok Token, msg string) {
	r.errs = append(r.errs, &ResolveError{Line: tok.Line, Col: tok.Col, Msg: msg})
}

// ----- scope bookkeeping -----

func (r *Resolver) beginScope() { r.scopes = append(r.scopes, make(map[string]bool)) }
func (r *Resolver) endScope()   { r.scopes = r.scopes[:len(r.scopes)-1] }

// declare marks the name as existing but not yet initialized, so its own
// initializer can't read it.
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return // globals are not tracked
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.fail(name, "variable '"+name.Lexeme+"' already declared in this scope")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records the hop count from the innermost scope out to the one
// declaring name. No hit means the reference is global and stays out of the
// table.
func (r *Resolver) resolveLocal(e Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[e] = len(r.scopes) - 1 - i
			return
		}
	}
}

// ----- statements -----

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s Stmt) {
	switch st := s.(type) {
	case *ExpressionStmt:
		r.resolveExpr(st.E)

	case *PrintStmt:
		r.resolveExpr(st.E)

	case *VarStmt:
		r.declare(st.Name)
		if st.Init != nil {
			r.resolveExpr(st.Init)
		}
		r.define(st.Name)

	case *BlockStmt:
		r.beginScope()
		r.resolveStmts(st.Stmts)
		r.endScope()

	case *IfStmt:
		r.resolveExpr(st.Cond)
		r.resolveStmt(st.Then)
		if st.Else != nil {
			r.resolveStmt(st.Else)
		}

	case *WhileStmt:
		r.resolveExpr(st.Cond)
		r.resolveStmt(st.Body)

	case *FunctionStmt:
		// Define eagerly so the body can recurse on the name.
		r.declare(st.Name)
		r.define(st.Name)
		r.resolveFunction(st.Params, st.Body, funcFunction)

	case *ClassStmt:
		r.resolveClass(st)

	case *ReturnStmt:
		if r.curFunc == funcNone {
			r.fail(st.Keyword, "can't return from top-level code")
		}
		if st.Value != nil {
			if r.curFunc == funcInitializer {
				r.fail(st.Keyword, "can't return a value from an initializer")
			}
			r.resolveExpr(st.Value)
		}

	default:
		panic("resolver: unhandled statement kind")
	}
}

func (r *Resolver) resolveClass(st *ClassStmt) {
	enclosing := r.curCls
	r.curCls = classClass
	defer func() { r.curCls = enclosing }()

	r.declare(st.Name)
	r.define(st.Name)

	if st.Super != nil {
		if st.Super.Name.Lexeme == st.Name.Lexeme {
			r.fail(st.Super.Name, "a class can't inherit from itself")
		}
		r.curCls = classSubclass
		r.resolveExpr(st.Super)

		// The evaluator wraps subclass methods in a frame binding "super".
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, m := range st.Methods {
		ft := funcMethod
		if m.Name.Lexeme == "init" {
			ft = funcInitializer
		}
		r.resolveFunction(m.Params, m.Body, ft)
	}
	r.endScope()

	if st.Super != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(params []Token, body []Stmt, ft funcType) {
	enclosing := r.curFunc
	r.curFunc = ft
	defer func() { r.curFunc = enclosing }()

	r.beginScope()
	for _, p := range params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(body)
	r.endScope()
}

// ----- expressions -----

func (r *Resolver) resolveExpr(e Expr) {
	switch ex := e.(type) {
	case *LiteralExpr:
		// nothing to resolve

	case *GroupingExpr:
		r.resolveExpr(ex.Inner)

	case *VariableExpr:
		if len(r.scopes) > 0 {
			if done, ok := r.scopes[len(r.scopes)-1][ex.Name.Lexeme]; ok && !done {
				r.fail(ex.Name, "can't read local variable in its own initializer")
			}
		}
		r.resolveLocal(ex, ex.Name)

	case *AssignExpr:
		r.resolveExpr(ex.Value)
		r.resolveLocal(ex, ex.Name)

	case *BinaryExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)

	case *UnaryExpr:
		r.resolveExpr(ex.Right)

	case *LogicalExpr:
		r.resolveExpr(ex.Left)
		r.resolveExpr(ex.Right)

	case *CallExpr:
		r.resolveExpr(ex.Callee)
		for _, a := range ex.Args {
			r.resolveExpr(a)
		}

	case *GetExpr:
		// Only the object side is a variable reference; the property name is
		// resolved dynamically against the instance at runtime.
		r.resolveExpr(ex.Object)

	case *SetExpr:
		r.resolveExpr(ex.Value)
		r.resolveExpr(ex.Object)

	case *ThisExpr:
		if r.curCls == classNone {
			r.fail(ex.Keyword, "can't use 'this' outside of a class")
			return
		}
		r.resolveLocal(ex, ex.Keyword)

	case *SuperExpr:
		switch r.curCls {
		case classNone:
			r.fail(ex.Keyword, "can't use 'super' outside of a class")
			return
		case classClass:
			r.fail(ex.Keyword, "can't use 'super' in a class with no superclass")
			return
		}
		r.resolveLocal(ex, ex.Keyword)

	case *FunctionExpr:
		r.resolveFunction(ex.Params, ex.Body, funcFunction)

	default:
		panic("resolver: unhandled expression kind")
	}
}
