// parser.go — recursive-descent parser for Lox.
//
// Consumes the token stream from lexer.go and builds the AST defined in
// ast.go. The grammar is the classic Lox one: declarations (class, fun, var)
// over statements over a precedence-climbing expression ladder
// (assignment → or → and → equality → comparison → term → factor → unary →
// call → primary), plus anonymous function literals.
//
// Two points worth knowing:
//
//   - "for" never reaches the AST. The parser rewrites
//     `for (init; cond; incr) body` into `{ init; while (cond) { body incr } }`
//     so the evaluator's statement set stays closed.
//
//   - Error recovery is panic-mode: a syntax error unwinds to the nearest
//     declaration boundary, the parser synchronizes on a likely statement
//     start, and parsing continues so one run reports several errors. An
//     error caused by plain end-of-input is flagged Incomplete, which lets a
//     REPL keep prompting for continuation lines instead of rejecting the
//     fragment (the same probe loop the front end runs in cmd/lox-rocks).
package lox

// maxArgs mirrors the reference language limit on parameters and call
// arguments.
const maxArgs = 255

type Parser struct {
	tokens []Token
	pos    int
	errs   []error
}

func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// ParseSource scans and parses src in one step. On failure the statements
// parsed so far are still returned along with the first error encountered.
func ParseSource(src string) ([]Stmt, error) {
	tokens, err := ScanTokens(src)
	if err != nil {
		return nil, err
	}
	return NewParser(tokens).Parse()
}

// parseSignal unwinds a syntax error to the enclosing declaration boundary.
type parseSignal struct{ err error }

// Parse parses a whole program. All collected errors are kept internally;
// the first one is returned.
func (p *Parser) Parse() ([]Stmt, error) {
	var stmts []Stmt
	for !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	if len(p.errs) > 0 {
		return stmts, p.errs[0]
	}
	return stmts, nil
}

// ----- token plumbing -----

func (p *Parser) peek() Token     { return p.tokens[p.pos] }
func (p *Parser) previous() Token { return p.tokens[p.pos-1] }
func (p *Parser) isAtEnd() bool   { return p.peek().Type == EOF }

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(t TokenType) bool { return p.peek().Type == t }

func (p *Parser) checkNext(t TokenType) bool {
	if p.isAtEnd() || p.tokens[p.pos+1].Type == EOF {
		return false
	}
	return p.tokens[p.pos+1].Type == t
}

func (p *Parser) match(types ...TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) need(t TokenType, msg string) Token {
	if p.check(t) {
		return p.advance()
	}
	panic(parseSignal{p.errAt(p.peek(), msg)})
}

// errAt records a parse error blamed on tok. An error at EOF means the input
// simply stopped, which interactive callers treat as "keep typing".
func (p *Parser) errAt(tok Token, msg string) error {
	err := &ParseError{Line: tok.Line, Col: tok.Col, Msg: msg, Incomplete: tok.Type == EOF}
	p.errs = append(p.errs, err)
	return err
}

// synchronize skips tokens until a plausible statement boundary so parsing
// can resume after an error.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == SEMICOLON {
			return
		}
		switch p.peek().Type {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		p.advance()
	}
}

// ----- declarations -----

func (p *Parser) declaration() (s Stmt) {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(parseSignal); !ok {
				panic(r)
			}
			p.synchronize()
			s = nil
		}
	}()

	switch {
	case p.match(CLASS):
		return p.classDecl()
	// "fun" followed by a name is a declaration; a bare "fun (" starts an
	// anonymous function expression.
	case p.check(FUN) && p.checkNext(IDENT):
		p.advance()
		return p.funDecl("function")
	case p.match(VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() Stmt {
	name := p.need(IDENT, "expected class name")

	var super *VariableExpr
	if p.match(LESS) {
		superName := p.need(IDENT, "expected superclass name")
		super = &VariableExpr{Name: superName}
	}

	p.need(LBRACE, "expected '{' before class body")
	var methods []*FunctionStmt
	for !p.check(RBRACE) && !p.isAtEnd() {
		methods = append(methods, p.funDecl("method"))
	}
	p.need(RBRACE, "expected '}' after class body")

	return &ClassStmt{Name: name, Super: super, Methods: methods}
}

func (p *Parser) funDecl(kind string) *FunctionStmt {
	name := p.need(IDENT, "expected "+kind+" name")
	params, body := p.funParts(kind, "expected '(' after "+kind+" name")
	return &FunctionStmt{Name: name, Params: params, Body: body}
}

// funParts parses "(params) { body }", shared by declarations, methods, and
// anonymous function literals. openMsg is the error for a missing '(', which
// differs between the named and anonymous forms.
func (p *Parser) funParts(kind, openMsg string) ([]Token, []Stmt) {
	p.need(LPAREN, openMsg)
	var params []Token
	if !p.check(RPAREN) {
		for {
			if len(params) >= maxArgs {
				p.errAt(p.peek(), "can't have more than 255 parameters")
			}
			params = append(params, p.need(IDENT, "expected parameter name"))
			if !p.match(COMMA) {
				break
			}
		}
	}
	p.need(RPAREN, "expected ')' after parameters")
	p.need(LBRACE, "expected '{' before "+kind+" body")
	return params, p.block()
}

func (p *Parser) varDecl() Stmt {
	name := p.need(IDENT, "expected variable name")
	var init Expr
	if p.match(ASSIGN) {
		init = p.expression()
	}
	p.need(SEMICOLON, "expected ';' after variable declaration")
	return &VarStmt{Name: name, Init: init}
}

// ----- statements -----

func (p *Parser) statement() Stmt {
	switch {
	case p.match(FOR):
		return p.forStmt()
	case p.match(IF):
		return p.ifStmt()
	case p.match(PRINT):
		return p.printStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(LBRACE):
		return &BlockStmt{Stmts: p.block()}
	default:
		return p.exprStmt()
	}
}

// forStmt desugars the C-style loop into Block/While.
func (p *Parser) forStmt() Stmt {
	p.need(LPAREN, "expected '(' after 'for'")

	var init Stmt
	switch {
	case p.match(SEMICOLON):
		init = nil
	case p.match(VAR):
		init = p.varDecl()
	default:
		init = p.exprStmt()
	}

	var cond Expr
	if !p.check(SEMICOLON) {
		cond = p.expression()
	}
	p.need(SEMICOLON, "expected ';' after loop condition")

	var incr Expr
	if !p.check(RPAREN) {
		incr = p.expression()
	}
	p.need(RPAREN, "expected ')' after for clauses")

	body := p.statement()
	if incr != nil {
		body = &BlockStmt{Stmts: []Stmt{body, &ExpressionStmt{E: incr}}}
	}
	if cond == nil {
		cond = &LiteralExpr{Value: BoolVal(true)}
	}
	var loop Stmt = &WhileStmt{Cond: cond, Body: body}
	if init != nil {
		loop = &BlockStmt{Stmts: []Stmt{init, loop}}
	}
	return loop
}

func (p *Parser) ifStmt() Stmt {
	p.need(LPAREN, "expected '(' after 'if'")
	cond := p.expression()
	p.need(RPAREN, "expected ')' after if condition")
	then := p.statement()
	var els Stmt
	if p.match(ELSE) {
		els = p.statement()
	}
	return &IfStmt{Cond: cond, Then: then, Else: els}
}

func (p *Parser) printStmt() Stmt {
	keyword := p.previous()
	e := p.expression()
	p.need(SEMICOLON, "expected ';' after value")
	return &PrintStmt{Keyword: keyword, E: e}
}

func (p *Parser) returnStmt() Stmt {
	keyword := p.previous()
	var value Expr
	if !p.check(SEMICOLON) {
		value = p.expression()
	}
	p.need(SEMICOLON, "expected ';' after return value")
	return &ReturnStmt{Keyword: keyword, Value: value}
}

func (p *Parser) whileStmt() Stmt {
	p.need(LPAREN, "expected '(' after 'while'")
	cond := p.expression()
	p.need(RPAREN, "expected ')' after while condition")
	return &WhileStmt{Cond: cond, Body: p.statement()}
}

func (p *Parser) block() []Stmt {
	var stmts []Stmt
	for !p.check(RBRACE) && !p.isAtEnd() {
		if s := p.declaration(); s != nil {
			stmts = append(stmts, s)
		}
	}
	p.need(RBRACE, "expected '}' after block")
	return stmts
}

func (p *Parser) exprStmt() Stmt {
	e := p.expression()
	p.need(SEMICOLON, "expected ';' after expression")
	return &ExpressionStmt{E: e}
}

// ----- expressions -----

func (p *Parser) expression() Expr { return p.assignment() }

func (p *Parser) assignment() Expr {
	e := p.or()

	if p.match(ASSIGN) {
		equals := p.previous()
		value := p.assignment() // right-associative

		switch target := e.(type) {
		case *VariableExpr:
			return &AssignExpr{Name: target.Name, Value: value}
		case *GetExpr:
			return &SetExpr{Object: target.Object, Name: target.Name, Value: value}
		}
		// Report without unwinding; the parser is in a sane state.
		p.errAt(equals, "invalid assignment target")
	}
	return e
}

func (p *Parser) or() Expr {
	e := p.and()
	for p.match(OR) {
		op := p.previous()
		e = &LogicalExpr{Left: e, Op: op, Right: p.and()}
	}
	return e
}

func (p *Parser) and() Expr {
	e := p.equality()
	for p.match(AND) {
		op := p.previous()
		e = &LogicalExpr{Left: e, Op: op, Right: p.equality()}
	}
	return e
}

func (p *Parser) equality() Expr {
	e := p.comparison()
	for p.match(EQ, BANG_EQ) {
		op := p.previous()
		e = &BinaryExpr{Left: e, Op: op, Right: p.comparison()}
	}
	return e
}

func (p *Parser) comparison() Expr {
	e := p.term()
	for p.match(GREATER, GREATER_EQ, LESS, LESS_EQ) {
		op := p.previous()
		e = &BinaryExpr{Left: e, Op: op, Right: p.term()}
	}
	return e
}

func (p *Parser) term() Expr {
	e := p.factor()
	for p.match(PLUS, MINUS) {
		op := p.previous()
		e = &BinaryExpr{Left: e, Op: op, Right: p.factor()}
	}
	return e
}

func (p *Parser) factor() Expr {
	e := p.unary()
	for p.match(STAR, SLASH) {
		op := p.previous()
		e = &BinaryExpr{Left: e, Op: op, Right: p.unary()}
	}
	return e
}

func (p *Parser) unary() Expr {
	if p.match(BANG, MINUS) {
		op := p.previous()
		return &UnaryExpr{Op: op, Right: p.unary()}
	}
	return p.call()
}

func (p *Parser) call() Expr {
	e := p.primary()
	for {
		switch {
		case p.match(LPAREN):
			e = p.finishCall(e)
		case p.match(DOT):
			name := p.need(IDENT, "expected property name after '.'")
			e = &GetExpr{Object: e, Name: name}
		default:
			return e
		}
	}
}

func (p *Parser) finishCall(callee Expr) Expr {
	var args []Expr
	if !p.check(RPAREN) {
		for {
			if len(args) >= maxArgs {
				p.errAt(p.peek(), "can't have more than 255 arguments")
			}
			args = append(args, p.expression())
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren := p.need(RPAREN, "expected ')' after arguments")
	return &CallExpr{Callee: callee, Paren: paren, Args: args}
}

func (p *Parser) primary() Expr {
	switch {
	case p.match(FALSE):
		return &LiteralExpr{Value: BoolVal(false)}
	case p.match(TRUE):
		return &LiteralExpr{Value: BoolVal(true)}
	case p.match(NIL):
		return &LiteralExpr{Value: Nil}
	case p.match(NUMBER):
		return &LiteralExpr{Value: NumVal(p.previous().Literal.(float64))}
	case p.match(STRING):
		return &LiteralExpr{Value: StrVal(p.previous().Literal.(string))}
	case p.match(IDENT):
		return &VariableExpr{Name: p.previous()}
	case p.match(THIS):
		return &ThisExpr{Keyword: p.previous()}
	case p.match(SUPER):
		keyword := p.previous()
		p.need(DOT, "expected '.' after 'super'")
		method := p.need(IDENT, "expected superclass method name")
		return &SuperExpr{Keyword: keyword, Method: method}
	case p.match(FUN):
		fun := p.previous()
		params, body := p.funParts("function", "expected '(' after 'fun'")
		return &FunctionExpr{Fun: fun, Params: params, Body: body}
	case p.match(LPAREN):
		e := p.expression()
		p.need(RPAREN, "expected ')' after expression")
		return &GroupingExpr{Inner: e}
	default:
		panic(parseSignal{p.errAt(p.peek(), "expected expression")})
	}
}
