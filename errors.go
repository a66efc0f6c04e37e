// errors.go — error types for every pass plus caret-snippet rendering.
//
// Each pass has its own error type carrying a 1-based (Line, Col):
//
//   - *LexError     — from the scanner (lexer.go)
//   - *ParseError   — from the parser (parser.go)
//   - *ResolveError — from the static resolver (resolver.go)
//   - *RuntimeError — from the evaluator (interpreter_exec.go), with a
//     closed Kind enumerating every way a Lox program can fail at runtime
//
// WrapErrorWithName turns any of them into a readable, Python-style snippet
// with a caret pointing at the offending column:
//
//	RUNTIME ERROR in fib.lox at 3:12: undefined variable 'fbi'
//
//	   2 | fun fib(n) {
//	   3 |   if (n < 2) return fbi(n);
//	     |            ^
//	   4 | }
//
// The snippet includes up to one line of context before and after the error,
// numbers the lines, and places the caret under the 1-based column. Output is
// plain text (no ANSI colors); the CLI adds color on top. Errors of any other
// type pass through unchanged.
package lox

import (
	"fmt"
	"strings"
)

// ----- lexer / parser / resolver errors -----

// LexError is a scanning failure. Incomplete marks an error caused purely by
// running out of input (an unterminated string), so interactive front ends
// can prompt for more instead of reporting it.
type LexError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *LexError) Error() string {
	return fmt.Sprintf("LEXICAL ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ParseError is a syntax failure. Incomplete has the same meaning as on
// LexError: the construct was fine so far but the input ended.
type ParseError struct {
	Line       int
	Col        int
	Msg        string
	Incomplete bool
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("PARSE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// ResolveError is a static error found by the resolver pass (bad "return"
// placement, "this" outside a class, self-inheritance, and so on).
type ResolveError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("RESOLVE ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// IsIncomplete reports whether err means "the input just stopped too early".
// REPLs use it to decide between a continuation prompt and an error report.
func IsIncomplete(err error) bool {
	switch e := err.(type) {
	case *LexError:
		return e.Incomplete
	case *ParseError:
		return e.Incomplete
	}
	return false
}

// ----- runtime errors -----

// ErrKind is the closed set of runtime failure kinds the evaluator can
// surface. Every *RuntimeError carries exactly one of these.
type ErrKind int

const (
	ErrUndefinedVariable ErrKind = iota
	ErrUndefinedProperty
	ErrTypeMismatch
	ErrNotCallable
	ErrArityMismatch
	ErrSuperclassMustBeClass
	ErrPropertyAccessOnNonInstance
	ErrStackOverflow
)

var errKindNames = [...]string{
	ErrUndefinedVariable:           "UndefinedVariable",
	ErrUndefinedProperty:           "UndefinedProperty",
	ErrTypeMismatch:                "TypeMismatch",
	ErrNotCallable:                 "NotCallable",
	ErrArityMismatch:               "ArityMismatch",
	ErrSuperclassMustBeClass:       "SuperclassMustBeClass",
	ErrPropertyAccessOnNonInstance: "PropertyAccessOnNonInstance",
	ErrStackOverflow:               "StackOverflow",
}

func (k ErrKind) String() string {
	if int(k) < len(errKindNames) {
		return errKindNames[k]
	}
	return "Unknown"
}

// RuntimeError represents an execution-time failure with a source location.
// Line/Col are 1-based. Interpret/EvalSource return this as a Go error.
type RuntimeError struct {
	Kind ErrKind
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// runtimeErrAt builds a RuntimeError blamed on the given token.
func runtimeErrAt(kind ErrKind, tok Token, msg string) *RuntimeError {
	return &RuntimeError{Kind: kind, Line: tok.Line, Col: tok.Col, Msg: msg}
}

// ----- snippet rendering -----

// WrapErrorWithSource is WrapErrorWithName without a source name in the
// header.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName returns an error whose message is a caret-annotated
// snippet of src, for the error types this package produces. Any other error
// is returned unchanged.
func WrapErrorWithName(err error, srcName, src string) error {
	switch e := err.(type) {
	case *LexError:
		return fmt.Errorf("%s", snippet(src, "LEXICAL ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ParseError:
		return fmt.Errorf("%s", snippet(src, "PARSE ERROR", srcName, e.Line, e.Col, e.Msg))
	case *ResolveError:
		return fmt.Errorf("%s", snippet(src, "RESOLVE ERROR", srcName, e.Line, e.Col, e.Msg))
	case *RuntimeError:
		return fmt.Errorf("%s", snippet(src, "RUNTIME ERROR", srcName, e.Line, e.Col, e.Msg))
	default:
		return err
	}
}

// snippet builds a Python-like snippet with a header and a caret. It shows at
// most one previous and one next line when available. Coordinates are treated
// as 1-based and clamped to the source bounds.
func snippet(src, header, name string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]
	if col > len(lineTxt)+1 {
		col = len(lineTxt) + 1
	}

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	fmt.Fprintf(&b, "     | %s^\n", caretPad(lineTxt, col))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}

// caretPad builds the padding that positions the caret under the 1-based
// column. Tabs in the line are re-emitted as tabs so the caret stays aligned
// however wide the terminal renders them.
func caretPad(lineTxt string, col int) string {
	pad := make([]byte, col-1)
	for i := range pad {
		if lineTxt[i] == '\t' {
			pad[i] = '\t'
		} else {
			pad[i] = ' '
		}
	}
	return string(pad)
}
