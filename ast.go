// ast.go — the Lox AST.
//
// Statements and expressions are two closed sets of node kinds. The evaluator
// and the resolver dispatch over them with type switches, so adding a node
// kind means touching every switch — that is deliberate: the language's node
// set is fixed and exhaustiveness lives in one place per pass instead of
// being scattered across visitor implementations.
//
// Nodes are always handled as pointers. Pointer identity is what the resolver
// keys its scope-distance side table on (see resolver.go), which keeps the
// AST itself free of resolution state.
//
// Note there is no "for" node: the parser desugars for-loops into
// Block/While (see parser.go), so the evaluator's statement set stays small.
package lox

// Expr is a Lox expression node. The concrete kinds are LiteralExpr,
// GroupingExpr, VariableExpr, AssignExpr, BinaryExpr, UnaryExpr, LogicalExpr,
// CallExpr, GetExpr, SetExpr, ThisExpr, SuperExpr, and FunctionExpr.
type Expr interface{ isExpr() }

// Stmt is a Lox statement node. The concrete kinds are ExpressionStmt,
// PrintStmt, VarStmt, BlockStmt, IfStmt, WhileStmt, FunctionStmt, ClassStmt,
// and ReturnStmt.
type Stmt interface{ isStmt() }

// ----- expressions -----

// LiteralExpr holds an already-materialized value: number, string, boolean,
// or nil.
type LiteralExpr struct {
	Value Value
}

type GroupingExpr struct {
	Inner Expr
}

type VariableExpr struct {
	Name Token
}

type AssignExpr struct {
	Name  Token
	Value Expr
}

type BinaryExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

type UnaryExpr struct {
	Op    Token
	Right Expr
}

// LogicalExpr is "and"/"or"; kept apart from BinaryExpr because the right
// operand is evaluated conditionally.
type LogicalExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

type CallExpr struct {
	Callee Expr
	Paren  Token // closing ')', blamed for call-site errors
	Args   []Expr
}

type GetExpr struct {
	Object Expr
	Name   Token
}

type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

type ThisExpr struct {
	Keyword Token
}

type SuperExpr struct {
	Keyword Token
	Method  Token
}

// FunctionExpr is an anonymous function literal.
type FunctionExpr struct {
	Fun    Token // the "fun" keyword, for locations
	Params []Token
	Body   []Stmt
}

func (*LiteralExpr) isExpr()  {}
func (*GroupingExpr) isExpr() {}
func (*VariableExpr) isExpr() {}
func (*AssignExpr) isExpr()   {}
func (*BinaryExpr) isExpr()   {}
func (*UnaryExpr) isExpr()    {}
func (*LogicalExpr) isExpr()  {}
func (*CallExpr) isExpr()     {}
func (*GetExpr) isExpr()      {}
func (*SetExpr) isExpr()      {}
func (*ThisExpr) isExpr()     {}
func (*SuperExpr) isExpr()    {}
func (*FunctionExpr) isExpr() {}

// ----- statements -----

type ExpressionStmt struct {
	E Expr
}

type PrintStmt struct {
	Keyword Token
	E       Expr
}

// VarStmt declares a variable; Init is nil when no initializer was written
// (the variable starts out nil).
type VarStmt struct {
	Name Token
	Init Expr
}

type BlockStmt struct {
	Stmts []Stmt
}

type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil when absent
}

type WhileStmt struct {
	Cond Expr
	Body Stmt
}

type FunctionStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

type ClassStmt struct {
	Name    Token
	Super   *VariableExpr // nil when the class has no superclass
	Methods []*FunctionStmt
}

type ReturnStmt struct {
	Keyword Token
	Value   Expr // nil for a bare "return;"
}

func (*ExpressionStmt) isStmt() {}
func (*PrintStmt) isStmt()      {}
func (*VarStmt) isStmt()        {}
func (*BlockStmt) isStmt()      {}
func (*IfStmt) isStmt()         {}
func (*WhileStmt) isStmt()      {}
func (*FunctionStmt) isStmt()   {}
func (*ClassStmt) isStmt()      {}
func (*ReturnStmt) isStmt()     {}
