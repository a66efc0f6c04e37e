// printer.go — textual renderings of ASTs.
//
// The value display form (FormatValue) lives in value.go with the value
// model. This file renders AST nodes as parenthesized s-expressions, mostly
// for the `ast` subcommand and for parser tests, where comparing a flat
// string beats comparing node trees:
//
//	print 1 + 2 * 3;   →   (print (+ 1 (* 2 3)))
//
// String literals are quoted here (unlike in the display form) so that
// `print "a";` and `print a;` stay distinguishable in dumps.
package lox

import (
	"strconv"
	"strings"
)

// FormatProgram renders statements one per line.
func FormatProgram(prog []Stmt) string {
	parts := make([]string, 0, len(prog))
	for _, s := range prog {
		parts = append(parts, FormatStmt(s))
	}
	return strings.Join(parts, "\n")
}

func FormatStmt(s Stmt) string {
	switch st := s.(type) {
	case *ExpressionStmt:
		return "(; " + FormatExpr(st.E) + ")"
	case *PrintStmt:
		return "(print " + FormatExpr(st.E) + ")"
	case *VarStmt:
		if st.Init == nil {
			return "(var " + st.Name.Lexeme + ")"
		}
		return "(var " + st.Name.Lexeme + " " + FormatExpr(st.Init) + ")"
	case *BlockStmt:
		parts := make([]string, 0, len(st.Stmts)+1)
		parts = append(parts, "block")
		for _, inner := range st.Stmts {
			parts = append(parts, FormatStmt(inner))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *IfStmt:
		out := "(if " + FormatExpr(st.Cond) + " " + FormatStmt(st.Then)
		if st.Else != nil {
			out += " " + FormatStmt(st.Else)
		}
		return out + ")"
	case *WhileStmt:
		return "(while " + FormatExpr(st.Cond) + " " + FormatStmt(st.Body) + ")"
	case *FunctionStmt:
		return "(fun " + st.Name.Lexeme + " " + formatFunParts(st.Params, st.Body) + ")"
	case *ClassStmt:
		var b strings.Builder
		b.WriteString("(class " + st.Name.Lexeme)
		if st.Super != nil {
			b.WriteString(" (< " + st.Super.Name.Lexeme + ")")
		}
		for _, m := range st.Methods {
			b.WriteString(" " + FormatStmt(m))
		}
		b.WriteString(")")
		return b.String()
	case *ReturnStmt:
		if st.Value == nil {
			return "(return)"
		}
		return "(return " + FormatExpr(st.Value) + ")"
	default:
		return "(?stmt)"
	}
}

func FormatExpr(e Expr) string {
	switch ex := e.(type) {
	case *LiteralExpr:
		return formatLiteral(ex.Value)
	case *GroupingExpr:
		return "(group " + FormatExpr(ex.Inner) + ")"
	case *VariableExpr:
		return ex.Name.Lexeme
	case *AssignExpr:
		return "(= " + ex.Name.Lexeme + " " + FormatExpr(ex.Value) + ")"
	case *BinaryExpr:
		return "(" + ex.Op.Lexeme + " " + FormatExpr(ex.Left) + " " + FormatExpr(ex.Right) + ")"
	case *UnaryExpr:
		return "(" + ex.Op.Lexeme + " " + FormatExpr(ex.Right) + ")"
	case *LogicalExpr:
		return "(" + ex.Op.Lexeme + " " + FormatExpr(ex.Left) + " " + FormatExpr(ex.Right) + ")"
	case *CallExpr:
		parts := []string{"call", FormatExpr(ex.Callee)}
		for _, a := range ex.Args {
			parts = append(parts, FormatExpr(a))
		}
		return "(" + strings.Join(parts, " ") + ")"
	case *GetExpr:
		return "(. " + FormatExpr(ex.Object) + " " + ex.Name.Lexeme + ")"
	case *SetExpr:
		return "(.= " + FormatExpr(ex.Object) + " " + ex.Name.Lexeme + " " + FormatExpr(ex.Value) + ")"
	case *ThisExpr:
		return "this"
	case *SuperExpr:
		return "(super " + ex.Method.Lexeme + ")"
	case *FunctionExpr:
		return "(fun " + formatFunParts(ex.Params, ex.Body) + ")"
	default:
		return "(?expr)"
	}
}

func formatFunParts(params []Token, body []Stmt) string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		names = append(names, p.Lexeme)
	}
	parts := []string{"(" + strings.Join(names, " ") + ")"}
	for _, s := range body {
		parts = append(parts, FormatStmt(s))
	}
	return strings.Join(parts, " ")
}

// formatLiteral is FormatValue except that strings are quoted.
func formatLiteral(v Value) string {
	if v.Tag == VTStr {
		return strconv.Quote(v.Data.(string))
	}
	return FormatValue(v)
}
