package parser

import (
	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/token"
)

// expression := assignment
func (p *Parser) expression() (ast.Expr, error) {
	return p.assignment()
}

// assignment := (call ".")? IDENT ( "=" | "+=" | "-=" | "*=" | "/=" ) assignment
//             | ternary
//
// Augmented assignment is desugared here: `x += e` becomes
// `Assign(name, Binary(Variable(name), op, e))` (or Set for a property
// target). Per spec.md §9's pinned Open Question, the synthesized
// binary token keeps the `+=`-style lexeme with the base operator kind.
func (p *Parser) assignment() (ast.Expr, error) {
	expr, err := p.ternary()
	if err != nil {
		return nil, err
	}

	if !p.match(token.Equal, token.PlusEqual, token.MinusEqual, token.StarEqual, token.SlashEqual) {
		return expr, nil
	}
	equals := p.previous()

	value, err := p.assignment()
	if err != nil {
		return nil, err
	}

	if baseKind, ok := augmentedBase(equals.Kind); ok {
		synthesized := token.New(baseKind, equals.Lexeme, nil, equals.Line)
		value = &ast.Binary{Left: expr, Op: synthesized, Right: value}
	}

	switch target := expr.(type) {
	case *ast.Variable:
		return &ast.Assign{Name: target.Name, Value: value}, nil
	case *ast.Get:
		return &ast.Set{Object: target.Object, Name: target.Name, Value: value}, nil
	default:
		p.errorNonFatal(equals, "Invalid assignment target.")
		return expr, nil
	}
}

// augmentedBase maps an augmented-assignment operator kind to the base
// binary operator kind used in the desugared node; ok is false for "=".
func augmentedBase(k token.Kind) (token.Kind, bool) {
	switch k {
	case token.PlusEqual:
		return token.Plus, true
	case token.MinusEqual:
		return token.Minus, true
	case token.StarEqual:
		return token.Star, true
	case token.SlashEqual:
		return token.Slash, true
	default:
		return 0, false
	}
}

// ternary := logic_or ( "?" ternary ":" ternary )*   (right-associative)
func (p *Parser) ternary() (ast.Expr, error) {
	cond, err := p.logicOr()
	if err != nil {
		return nil, err
	}
	if !p.match(token.Question) {
		return cond, nil
	}
	op := p.previous()

	thenExpr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(token.Colon, "Expect ':' in ternary expression."); err != nil {
		return nil, err
	}
	elseExpr, err := p.ternary()
	if err != nil {
		return nil, err
	}
	return &ast.Ternary{Op: op, Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

// logic_or := logic_and ( "or" logic_and )*
func (p *Parser) logicOr() (ast.Expr, error) {
	expr, err := p.logicAnd()
	if err != nil {
		return nil, err
	}
	for p.match(token.Or) {
		op := p.previous()
		right, err := p.logicAnd()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// logic_and := equality ( "and" equality )*
func (p *Parser) logicAnd() (ast.Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(token.And) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &ast.Logical{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// equality := comparison ( ("=="|"!=") comparison )*
func (p *Parser) equality() (ast.Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(token.EqualEqual, token.BangEqual) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// comparison := addition ( (">"|">="|"<"|"<=") addition )*
func (p *Parser) comparison() (ast.Expr, error) {
	expr, err := p.addition()
	if err != nil {
		return nil, err
	}
	for p.match(token.Greater, token.GreaterEqual, token.Less, token.LessEqual) {
		op := p.previous()
		right, err := p.addition()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// addition := multiplication ( ("+"|"-") multiplication )*
func (p *Parser) addition() (ast.Expr, error) {
	expr, err := p.multiplication()
	if err != nil {
		return nil, err
	}
	for p.match(token.Plus, token.Minus) {
		op := p.previous()
		right, err := p.multiplication()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// multiplication := unary ( ("*"|"/") unary )*
func (p *Parser) multiplication() (ast.Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(token.Star, token.Slash) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = &ast.Binary{Left: expr, Op: op, Right: right}
	}
	return expr, nil
}

// unary := ("-"|"!") unary | call
//
// Also handles spec.md §4.1's missing-left-operand recovery: a binary
// operator that can never start a unary expression ('+', '*', '/') is
// reported as an error after its right operand is parsed and discarded,
// producing no node.
func (p *Parser) unary() (ast.Expr, error) {
	if p.match(token.Bang, token.Minus) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &ast.Unary{Op: op, Right: right}, nil
	}

	if p.check(token.Plus) || p.check(token.Star) || p.check(token.Slash) {
		op := p.advance()
		if _, err := p.unary(); err != nil {
			return nil, err
		}
		return nil, p.errorAt(op, "Expect expression before binary operator '"+op.Lexeme+"'.")
	}

	return p.call()
}

// call := primary ( "(" args? ")" | "." IDENT )*
func (p *Parser) call() (ast.Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(token.LeftParen):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(token.Dot):
			name, err := p.consume(token.Identifier, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) (ast.Expr, error) {
	var args []ast.Expr
	if !p.check(token.RightParen) {
		for {
			if len(args) >= maxArgs {
				p.errorNonFatal(p.peek(), "Cannot have more than 8 arguments.")
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	closingParen, err := p.consume(token.RightParen, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return &ast.Call{Callee: callee, ClosingParen: closingParen, Args: args}, nil
}

// primary := NUMBER | STRING+ | "true" | "false" | "nil"
//          | "this" | "super" "." IDENT
//          | "(" expression ")" | IDENT | functionLiteral
func (p *Parser) primary() (ast.Expr, error) {
	switch {
	case p.match(token.False):
		return &ast.Literal{Value: false}, nil
	case p.match(token.True):
		return &ast.Literal{Value: true}, nil
	case p.match(token.Nil):
		return &ast.Literal{Value: nil}, nil
	case p.match(token.Number):
		return &ast.Literal{Value: p.previous().Literal}, nil
	case p.match(token.String):
		return p.stringLiteral()
	case p.match(token.This):
		return &ast.This{Keyword: p.previous()}, nil
	case p.match(token.Super):
		keyword := p.previous()
		if _, err := p.consume(token.Dot, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(token.Identifier, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return &ast.Super{Keyword: keyword, Method: method}, nil
	case p.match(token.LeftParen):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(token.RightParen, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return &ast.Grouping{Inner: expr}, nil
	case p.match(token.Identifier):
		return &ast.Variable{Name: p.previous()}, nil
	case p.match(token.Function):
		fn, _, err := p.functionBody("function")
		if err != nil {
			return nil, err
		}
		return fn, nil
	}

	return nil, p.errorAt(p.peek(), "Expect expression.")
}

// stringLiteral concatenates adjacent STRING tokens at parse time.
func (p *Parser) stringLiteral() (ast.Expr, error) {
	value, _ := p.previous().Literal.(string)
	for p.check(token.String) {
		next := p.advance()
		s, _ := next.Literal.(string)
		value += s
	}
	return &ast.Literal{Value: value}, nil
}
