// interpreter.go — public API surface for the lox-rocks interpreter.
//
// OVERVIEW
// ========
// The Interpreter is a tree-walking evaluator. It consumes an AST from
// parser.go and the scope-distance side table from resolver.go, and executes
// top-level statements in order. Evaluation state is two well-known frames:
//
//   - Core    — host natives (clock); parent of Globals.
//   - Globals — user program state, persistent across EvalSource calls, which
//     is what makes the REPL's definitions stick around.
//
// Entry points:
//
//   - Interpret(prog, locals) — execute a resolved program; the canonical
//     "evaluate" call. Execution stops at the first runtime error, which is
//     returned as a *RuntimeError.
//   - EvalProgram(prog, locals) — like Interpret but also reports the value
//     of a trailing bare expression statement, for REPL echo.
//   - EvalSource(name, src) — convenience: scan → parse → resolve →
//     interpret, with errors wrapped as caret snippets against src.
//   - RegisterNative(name, arity, impl) — install a host function in Core.
//
// ERRORS VS CONTROL TRANSFER
// ==========================
// Inside the evaluator, runtime failures panic as *RuntimeError and are
// recovered exactly once, at the Interpret/EvalProgram boundary — no partial
// recovery, the failing statement is abandoned. `return` is a different
// mechanism entirely: a returnSignal panic that unwinds precisely to the
// function-call boundary that is executing (callFunction recovers it) and is
// never observable outside one. The resolver guarantees a `return` outside a
// function never reaches evaluation.
//
// MEMORY
// ======
// Environments, closures, and instances reference each other freely; a
// method closure stored as a field of the instance it captures is an
// ordinary cycle. Reclamation is delegated to Go's tracing garbage
// collector, which collects cycles once they are unreachable from the
// interpreter — a deliberate choice over reference counting or arenas.
package lox

import (
	"io"
	"os"
	"time"
)

// Interpreter executes Lox programs.
type Interpreter struct {
	Core    *Env // host natives; parent of Globals
	Globals *Env // user-visible program state

	// Stdout receives the output of print statements. Defaults to os.Stdout;
	// tests point it at a buffer.
	Stdout io.Writer

	locals    map[Expr]int // accumulated resolver side table
	callDepth int
}

// NewInterpreter returns a ready interpreter: Core populated with the
// standard natives, Globals an empty child of Core.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		Core:   NewEnv(nil),
		Stdout: os.Stdout,
		locals: make(map[Expr]int),
	}
	ip.Globals = NewEnv(ip.Core)
	ip.installCore()
	return ip
}

// RegisterNative installs a host function into Core under name. The
// interpreter enforces arity at every call site, like any other callable.
func (ip *Interpreter) RegisterNative(name string, arity int, impl func(ip *Interpreter, args []Value) Value) {
	ip.Core.Define(name, NativeVal(&Native{Name: name, NArity: arity, Impl: impl}))
}

// installCore registers the standard natives. The native surface is
// deliberately minimal: just enough to exercise the host-call protocol.
func (ip *Interpreter) installCore() {
	ip.RegisterNative("clock", 0, func(_ *Interpreter, _ []Value) Value {
		return NumVal(float64(time.Now().UnixNano()) / 1e9)
	})
}

// Interpret executes a resolved program in Globals. locals is the resolver
// side table for prog; it is merged into the interpreter's accumulated table
// so that values created earlier stay resolvable (REPL sessions). The first
// runtime error aborts execution and is returned.
func (ip *Interpreter) Interpret(prog []Stmt, locals map[Expr]int) error {
	_, _, err := ip.run(prog, locals)
	return err
}

// EvalProgram is Interpret plus REPL echo: when the final statement of prog
// is a bare expression statement, its value is returned with echo=true.
func (ip *Interpreter) EvalProgram(prog []Stmt, locals map[Expr]int) (v Value, echo bool, err error) {
	return ip.run(prog, locals)
}

// EvalSource scans, parses, resolves, and interprets src in one step. The
// returned Value is the trailing expression value (Nil when the program ends
// with a non-expression statement). Errors from any stage come back wrapped
// as caret-annotated snippets labeled with name.
func (ip *Interpreter) EvalSource(name, src string) (Value, error) {
	prog, err := ParseSource(src)
	if err != nil {
		return Nil, WrapErrorWithName(err, name, src)
	}
	locals, err := ResolveProgram(prog)
	if err != nil {
		return Nil, WrapErrorWithName(err, name, src)
	}
	v, echo, err := ip.run(prog, locals)
	if err != nil {
		return Nil, WrapErrorWithName(err, name, src)
	}
	if !echo {
		return Nil, nil
	}
	return v, nil
}
