// value.go — the runtime value model.
//
// Value is the universal tagged carrier used by the evaluator. Primitives
// (nil, boolean, number, string) live directly in Data; everything that can
// carry mutable state or identity (functions, bound methods, natives,
// classes, instances) is held as a pointer. That pointer discipline is load
// bearing: reading a field or a variable hands out the same handle every
// holder shares, so mutation through one alias is visible through all of
// them, and identity comparison is pointer comparison.
package lox

import (
	"strconv"
)

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // nil (no payload)
	VTBool                     // bool
	VTNum                      // float64 (Lox has a single numeric type)
	VTStr                      // string
	VTFun                      // *Fun (user-defined function/closure)
	VTBound                    // *BoundMethod
	VTNative                   // *Native (host function)
	VTClass                    // *Class
	VTInstance                 // *Instance
)

// Value is a tagged union. Tag determines which Go type Data holds (see
// ValueTag). The zero Value is Lox nil.
type Value struct {
	Tag  ValueTag
	Data any
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

// Constructors.
func BoolVal(b bool) Value            { return Value{Tag: VTBool, Data: b} }
func NumVal(f float64) Value          { return Value{Tag: VTNum, Data: f} }
func StrVal(s string) Value           { return Value{Tag: VTStr, Data: s} }
func FunVal(f *Fun) Value             { return Value{Tag: VTFun, Data: f} }
func BoundVal(b *BoundMethod) Value   { return Value{Tag: VTBound, Data: b} }
func NativeVal(n *Native) Value       { return Value{Tag: VTNative, Data: n} }
func ClassVal(c *Class) Value         { return Value{Tag: VTClass, Data: c} }
func InstanceVal(i *Instance) Value   { return Value{Tag: VTInstance, Data: i} }

// Truthy applies Lox truthiness: nil and false are falsy, everything else —
// including 0 and "" — is truthy.
func (v Value) Truthy() bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// TypeName names the value's kind for diagnostics ("operator '+' cannot be
// applied to string and nil").
func (v Value) TypeName() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		return "boolean"
	case VTNum:
		return "number"
	case VTStr:
		return "string"
	case VTFun, VTBound, VTNative:
		return "function"
	case VTClass:
		return "class"
	case VTInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// FormatValue renders v's display form:
//
//   - nil prints as "nil"
//   - booleans as "true"/"false"
//   - numbers without a fractional-zero suffix when integral (3, not 3.0)
//   - strings raw, without quotes
//   - functions as "<fn name>", natives as "<native fn>"
//   - classes as the class name, instances as "Name instance"
func FormatValue(v Value) string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return strconv.FormatFloat(v.Data.(float64), 'f', -1, 64)
	case VTStr:
		return v.Data.(string)
	case VTFun:
		f := v.Data.(*Fun)
		if f.Name == "" {
			return "<fn>"
		}
		return "<fn " + f.Name + ">"
	case VTBound:
		b := v.Data.(*BoundMethod)
		return "<fn " + b.Fn.Name + ">"
	case VTNative:
		return "<native fn>"
	case VTClass:
		return v.Data.(*Class).Name
	case VTInstance:
		return v.Data.(*Instance).Class.Name + " instance"
	default:
		return "<unknown>"
	}
}
