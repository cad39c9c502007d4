// Package parser implements the recursive-descent parser described in
// spec.md §4.1: it consumes a token slice and produces a list of
// top-level statements, reporting (and recovering from) syntax errors
// through pkg/diag so a single run can surface more than one.
//
// Grounded on original_source/jlox/Parser.java for the exact grammar and
// synchronization algorithm; not on the teacher's own pkg/parser, which
// wraps a tree-sitter CST and has no synchronizing recursive descent to
// adapt (see DESIGN.md).
package parser

import (
	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/diag"
	"github.com/davidkellis/lox-interp/pkg/token"
)

const maxParams = 255
const maxArgs = 8

// parseError is the internal sentinel thrown to unwind to declaration()'s
// synchronization point. It is never returned to callers of Parse.
type parseError struct{ msg string }

func (e *parseError) Error() string { return e.msg }

// Parser consumes tokens and reports syntax errors to sink.
type Parser struct {
	tokens  []token.Token
	current int
	sink    *diag.Sink
}

// New returns a Parser over tokens, reporting errors to sink.
func New(tokens []token.Token, sink *diag.Sink) *Parser {
	return &Parser{tokens: tokens, sink: sink}
}

// Parse consumes the whole token stream and returns the top-level
// statement list. It never panics or returns an error out of Parse
// itself: syntax errors are reported to the sink and the parser
// synchronizes to keep going, per spec.md §4.1.
func (p *Parser) Parse() []ast.Stmt {
	var stmts []ast.Stmt
	for !p.isAtEnd() {
		stmt, err := p.declaration()
		if err != nil {
			p.synchronize()
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}

//-----------------------------------------------------------------------------
// Token cursor primitives
//-----------------------------------------------------------------------------

func (p *Parser) isAtEnd() bool {
	return p.peek().Kind == token.EOF
}

func (p *Parser) peek() token.Token {
	return p.tokens[p.current]
}

func (p *Parser) peekAt(offset int) token.Token {
	idx := p.current + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.current-1]
}

func (p *Parser) advance() token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) check(kind token.Kind) bool {
	if p.isAtEnd() {
		return kind == token.EOF
	}
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(kind token.Kind, message string) (token.Token, error) {
	if p.check(kind) {
		return p.advance(), nil
	}
	return token.Token{}, p.errorAt(p.peek(), message)
}

// errorAt reports a diagnostic and returns the sentinel used to unwind to
// the nearest synchronization point.
func (p *Parser) errorAt(tok token.Token, message string) error {
	where := tok.Lexeme
	if tok.Kind == token.EOF {
		where = ""
	}
	p.sink.Reportf(diag.Parse, tok.Line, where, message)
	return &parseError{msg: message}
}

// errorNonFatal reports a diagnostic without unwinding: used where the
// rest of the already-parsed expression remains valid (invalid
// assignment targets, parameter/argument count overflow).
func (p *Parser) errorNonFatal(tok token.Token, message string) {
	where := tok.Lexeme
	if tok.Kind == token.EOF {
		where = ""
	}
	p.sink.Reportf(diag.Parse, tok.Line, where, message)
}

// synchronize discards tokens until it reaches a likely statement
// boundary, per spec.md §4.1: advance one token, then skip until just
// after a ';' or until the next token starts a new declaration/statement.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Kind == token.Semicolon {
			return
		}
		switch p.peek().Kind {
		case token.Class, token.Function, token.Var, token.For, token.If, token.While, token.Return:
			return
		}
		p.advance()
	}
}
