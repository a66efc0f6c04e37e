// interpreter_ops.go — operator semantics and the panic/signal helpers the
// evaluation engine is built on.
//
// Runtime errors are raised with failAt (panic *RuntimeError) and recovered
// only at the run() boundary in interpreter_exec.go. returnSignal is the
// separate, non-error unwind used by `return`; it is absorbed by
// callFunction and must never escape a call boundary.
package lox

import (
	"fmt"
)

// returnSignal carries a return value up to the enclosing call boundary.
type returnSignal struct{ v Value }

// failAt raises a runtime error blamed on tok. Always use this (never a raw
// panic) to signal runtime failures inside the evaluator.
func failAt(kind ErrKind, tok Token, msg string) {
	panic(runtimeErrAt(kind, tok, msg))
}

// ----- unary / binary operators -----

func (ip *Interpreter) evalUnary(ex *UnaryExpr, env *Env) Value {
	rhs := ip.evalExpr(ex.Right, env)
	switch ex.Op.Type {
	case BANG:
		return BoolVal(!rhs.Truthy())
	case MINUS:
		if rhs.Tag != VTNum {
			failAt(ErrTypeMismatch, ex.Op, "operator '-' expects a number, got "+rhs.TypeName())
		}
		return NumVal(-rhs.Data.(float64))
	default:
		panic("interpreter: unhandled unary operator")
	}
}

func (ip *Interpreter) evalBinary(ex *BinaryExpr, env *Env) Value {
	l := ip.evalExpr(ex.Left, env)
	r := ip.evalExpr(ex.Right, env)

	switch ex.Op.Type {
	case EQ:
		return BoolVal(ip.valuesEqual(ex.Op, l, r))
	case BANG_EQ:
		return BoolVal(!ip.valuesEqual(ex.Op, l, r))

	case PLUS:
		switch {
		case l.Tag == VTNum && r.Tag == VTNum:
			return NumVal(l.Data.(float64) + r.Data.(float64))
		case l.Tag == VTStr && r.Tag == VTStr:
			return StrVal(l.Data.(string) + r.Data.(string))
		default:
			failAt(ErrTypeMismatch, ex.Op, fmt.Sprintf(
				"operator '+' expects two numbers or two strings, got %s and %s",
				l.TypeName(), r.TypeName()))
		}

	case MINUS, STAR, SLASH, GREATER, GREATER_EQ, LESS, LESS_EQ:
		if l.Tag != VTNum || r.Tag != VTNum {
			failAt(ErrTypeMismatch, ex.Op, fmt.Sprintf(
				"operator '%s' expects numbers, got %s and %s",
				ex.Op.Lexeme, l.TypeName(), r.TypeName()))
		}
		a, b := l.Data.(float64), r.Data.(float64)
		switch ex.Op.Type {
		case MINUS:
			return NumVal(a - b)
		case STAR:
			return NumVal(a * b)
		case SLASH:
			return NumVal(a / b)
		case GREATER:
			return BoolVal(a > b)
		case GREATER_EQ:
			return BoolVal(a >= b)
		case LESS:
			return BoolVal(a < b)
		case LESS_EQ:
			return BoolVal(a <= b)
		}
	}
	panic("interpreter: unhandled binary operator")
}

// ----- equality -----

// valuesEqual implements '==', blaming op for dispatch failures. Primitives
// compare structurally. When the right operand is an instance whose class
// chain defines a one-parameter "equals" method, that method is bound to the
// right operand and invoked with the left operand; its result's truthiness
// decides. The dispatch counts against the call-depth guard, so an equals
// that recurses into '==' overflows like any other runaway recursion.
// Everything else — callables, instances without (or with an unusable)
// equals, mixed tags — compares by identity.
func (ip *Interpreter) valuesEqual(op Token, l, r Value) bool {
	if r.Tag == VTInstance {
		recv := r.Data.(*Instance)
		if m := recv.Class.FindMethod("equals"); m != nil && m.Arity() == 1 {
			return ip.callGuarded(m.Bind(recv), op, []Value{l}).Truthy()
		}
	}
	if l.Tag != r.Tag {
		return false
	}
	switch l.Tag {
	case VTNil:
		return true
	case VTBool:
		return l.Data.(bool) == r.Data.(bool)
	case VTNum:
		return l.Data.(float64) == r.Data.(float64)
	case VTStr:
		return l.Data.(string) == r.Data.(string)
	case VTBound:
		// Two binds of the same method on the same instance are the same
		// callable for equality purposes.
		lb, rb := l.Data.(*BoundMethod), r.Data.(*BoundMethod)
		return lb.Fn == rb.Fn && lb.Recv == rb.Recv
	default:
		// Identity for functions, natives, classes, instances.
		return l.Data == r.Data
	}
}
