// lexer.go — hand-rolled scanner for Lox source.
//
// Produces the flat token stream consumed by the parser. Tokens carry their
// 1-based line/column so downstream passes (parser, resolver, interpreter)
// can report precise locations without re-scanning the source.
//
// Error policy: the first lexical error is kept and scanning continues, so
// the caller still receives the tokens scanned so far. An unterminated string
// that runs into EOF is flagged Incomplete, which the REPL uses to keep
// reading continuation lines instead of rejecting the input.
package lox

import (
	"strconv"
)

// Lexer walks the source byte-wise. Lox identifiers and operators are ASCII;
// arbitrary UTF-8 passes through untouched inside string literals and
// comments.
type Lexer struct {
	src    string
	start  int // start of the lexeme in progress
	pos    int
	line   int
	col    int // column of the next unread byte
	tokLn  int // line/col of the lexeme in progress
	tokCol int

	tokens []Token
	err    error // first error, if any
}

func NewLexer(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// ScanTokens scans the entire source and returns the token stream terminated
// by an EOF token. On error the tokens scanned so far are still returned.
func ScanTokens(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}

func (l *Lexer) Scan() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.pos
		l.tokLn, l.tokCol = l.line, l.col
		l.scanToken()
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Line: l.line, Col: l.col})
	return l.tokens, l.err
}

func (l *Lexer) isAtEnd() bool { return l.pos >= len(l.src) }

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) match(expected byte) bool {
	if l.isAtEnd() || l.src[l.pos] != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) peek() byte {
	if l.isAtEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekNext() byte {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) add(t TokenType) { l.addLit(t, nil) }

func (l *Lexer) addLit(t TokenType, literal any) {
	l.tokens = append(l.tokens, Token{
		Type:    t,
		Lexeme:  l.src[l.start:l.pos],
		Literal: literal,
		Line:    l.tokLn,
		Col:     l.tokCol,
	})
}

func (l *Lexer) fail(msg string, incomplete bool) {
	if l.err == nil {
		l.err = &LexError{Line: l.tokLn, Col: l.tokCol, Msg: msg, Incomplete: incomplete}
	}
}

func (l *Lexer) scanToken() {
	c := l.advance()
	switch c {
	case '(':
		l.add(LPAREN)
	case ')':
		l.add(RPAREN)
	case '{':
		l.add(LBRACE)
	case '}':
		l.add(RBRACE)
	case ',':
		l.add(COMMA)
	case '.':
		l.add(DOT)
	case ';':
		l.add(SEMICOLON)
	case '+':
		l.add(PLUS)
	case '-':
		l.add(MINUS)
	case '*':
		l.add(STAR)
	case '!':
		if l.match('=') {
			l.add(BANG_EQ)
		} else {
			l.add(BANG)
		}
	case '=':
		if l.match('=') {
			l.add(EQ)
		} else {
			l.add(ASSIGN)
		}
	case '<':
		if l.match('=') {
			l.add(LESS_EQ)
		} else {
			l.add(LESS)
		}
	case '>':
		if l.match('=') {
			l.add(GREATER_EQ)
		} else {
			l.add(GREATER)
		}
	case '/':
		if l.match('/') {
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.add(SLASH)
		}
	case ' ', '\r', '\t', '\n':
		// whitespace
	case '"':
		l.scanString()
	default:
		switch {
		case isDigit(c):
			l.scanNumber()
		case isAlpha(c):
			l.scanIdentifier()
		default:
			l.fail("unexpected character '"+string(c)+"'", false)
		}
	}
}

// scanString scans a double-quoted literal. Lox strings have no escape
// sequences and may span lines.
func (l *Lexer) scanString() {
	for l.peek() != '"' && !l.isAtEnd() {
		l.advance()
	}
	if l.isAtEnd() {
		l.fail("unterminated string", true)
		return
	}
	l.advance() // closing quote
	l.addLit(STRING, l.src[l.start+1:l.pos-1])
}

func (l *Lexer) scanNumber() {
	for isDigit(l.peek()) {
		l.advance()
	}
	// fractional part only when a digit follows the dot, so "1.foo" lexes
	// as NUMBER DOT IDENT
	if l.peek() == '.' && isDigit(l.peekNext()) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	n, err := strconv.ParseFloat(l.src[l.start:l.pos], 64)
	if err != nil {
		l.fail("invalid number literal", false)
		return
	}
	l.addLit(NUMBER, n)
}

func (l *Lexer) scanIdentifier() {
	for isAlphaNumeric(l.peek()) {
		l.advance()
	}
	if t, ok := keywords[l.src[l.start:l.pos]]; ok {
		l.add(t)
		return
	}
	l.add(IDENT)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }
