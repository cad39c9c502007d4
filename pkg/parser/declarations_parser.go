package parser

import (
	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/token"
)

// declaration := classDecl | funcDecl | varDecl | statement
//
// The `function` keyword may open either a named function declaration or
// an anonymous/arrow function expression. Disambiguate by peeking one
// token ahead: an IDENTIFIER means a named declaration, per spec.md
// §9's recommendation (a cleaner design than pushback).
//
// A parse error anywhere inside the declaration is caught here: the
// parser synchronizes and declaration returns (nil, nil), so an error in
// a block body does not discard the statements around it.
func (p *Parser) declaration() (stmt ast.Stmt, err error) {
	defer func() {
		if err != nil {
			p.synchronize()
			stmt, err = nil, nil
		}
	}()
	if p.check(token.Class) {
		p.advance()
		return p.classDeclaration()
	}
	if p.check(token.Function) && p.peekAt(1).Kind == token.Identifier {
		p.advance()
		return p.functionDeclaration("function")
	}
	if p.check(token.Var) {
		p.advance()
		return p.varDeclaration()
	}
	return p.statement()
}

// classDecl := "class" IDENT ("inherits" IDENT)? "{" method* "}"
func (p *Parser) classDeclaration() (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *ast.Variable
	if p.match(token.Inherits) {
		superName, err := p.consume(token.Identifier, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = &ast.Variable{Name: superName}
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	var methods []*ast.Method
	for !p.check(token.RightBrace) && !p.isAtEnd() {
		method, err := p.method()
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}

	if _, err := p.consume(token.RightBrace, "Expect '}' after class body."); err != nil {
		return nil, err
	}

	return &ast.Class{Name: name, Superclass: superclass, Methods: methods}, nil
}

// method := "static"? "function" IDENT function
func (p *Parser) method() (*ast.Method, error) {
	isStatic := p.match(token.Static)
	if _, err := p.consume(token.Function, "Expect 'function' keyword for method."); err != nil {
		return nil, err
	}
	fn, err := p.functionDeclaration("method")
	if err != nil {
		return nil, err
	}
	return &ast.Method{Function: fn.(*ast.FunctionStmt), IsStatic: isStatic}, nil
}

// funcDecl := "function" IDENT function
//
// Caller has already consumed the leading "function" keyword.
func (p *Parser) functionDeclaration(kind string) (ast.Stmt, error) {
	name, err := p.consume(token.Identifier, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}
	fn, isArrow, err := p.functionBody(kind)
	if err != nil {
		return nil, err
	}
	fn.Name = name.Lexeme
	if isArrow {
		if _, err := p.consume(token.Semicolon, "Expect ';' after arrow function body."); err != nil {
			return nil, err
		}
	}
	return &ast.FunctionStmt{Name: name, Fn: fn}, nil
}

// function := "(" params? ")" ( "=>" expression | block )
//
// Returns the parsed function plus whether its body is an arrow
// expression (the caller decides whether a trailing ';' is required).
func (p *Parser) functionBody(kind string) (*ast.Function, bool, error) {
	if _, err := p.consume(token.LeftParen, "Expect '(' after "+kind+" name."); err != nil {
		return nil, false, err
	}

	var params []token.Token
	if !p.check(token.RightParen) {
		for {
			if len(params) >= maxParams {
				p.errorNonFatal(p.peek(), "Cannot have more than 255 parameters.")
			}
			param, err := p.consume(token.Identifier, "Expect parameter name.")
			if err != nil {
				return nil, false, err
			}
			params = append(params, param)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	if _, err := p.consume(token.RightParen, "Expect ')' after parameters."); err != nil {
		return nil, false, err
	}

	if p.match(token.EqualGreater) {
		keyword := p.previous()
		expr, err := p.expression()
		if err != nil {
			return nil, false, err
		}
		body := []ast.Stmt{&ast.Return{Keyword: keyword, Value: expr}}
		return &ast.Function{Params: params, Body: body}, true, nil
	}

	if _, err := p.consume(token.LeftBrace, "Expect '{' before "+kind+" body."); err != nil {
		return nil, false, err
	}
	body, err := p.blockStatements()
	if err != nil {
		return nil, false, err
	}
	return &ast.Function{Params: params, Body: body}, false, nil
}

// varDecl := "var" varItem ("," varItem)* ";"
// varItem := IDENT (":" "const")? ("=" expression)?
func (p *Parser) varDeclaration() (ast.Stmt, error) {
	var names []token.Token
	var consts []bool
	var inits []ast.Expr

	for {
		name, err := p.consume(token.Identifier, "Expect variable name.")
		if err != nil {
			return nil, err
		}

		isConst := false
		if p.match(token.Colon) {
			if _, err := p.consume(token.Const, "Expect 'const' after ':'."); err != nil {
				return nil, err
			}
			isConst = true
		}

		var init ast.Expr
		if p.match(token.Equal) {
			init, err = p.expression()
			if err != nil {
				return nil, err
			}
		}

		names = append(names, name)
		consts = append(consts, isConst)
		inits = append(inits, init)

		if !p.match(token.Comma) {
			break
		}
	}

	if _, err := p.consume(token.Semicolon, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}

	return &ast.Var{Names: names, Consts: consts, Initializers: inits}, nil
}
