package ast

import "github.com/davidkellis/lox-interp/pkg/token"

// Ident builds a synthesized identifier token, used where a test needs
// a token.Token (e.g. a Var name or Function param) without a parser
// round-trip.
func Ident(name string) token.Token {
	return token.New(token.Identifier, name, nil, 1)
}
