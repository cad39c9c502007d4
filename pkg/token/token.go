// Package token defines the lexical tokens produced by pkg/lexer and
// consumed by pkg/parser.
package token

import "fmt"

// Kind identifies a token's lexical category.
type Kind int

const (
	// single-character punctuation
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Comma
	Dot
	Semicolon
	Colon
	Question

	// one or two character operators
	Minus
	MinusEqual
	Plus
	PlusEqual
	Slash
	SlashEqual
	Star
	StarEqual
	Bang
	BangEqual
	Equal
	EqualEqual
	EqualGreater
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Break
	Class
	Const
	Continue
	Else
	False
	Function
	For
	If
	In
	Inherits
	Nil
	Or
	Return
	Super
	Static
	This
	True
	Var
	While

	EOF
)

var names = map[Kind]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Comma:        ",",
	Dot:          ".",
	Semicolon:    ";",
	Colon:        ":",
	Question:     "?",
	Minus:        "-",
	MinusEqual:   "-=",
	Plus:         "+",
	PlusEqual:    "+=",
	Slash:        "/",
	SlashEqual:   "/=",
	Star:         "*",
	StarEqual:    "*=",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	EqualGreater: "=>",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "and",
	Break:        "break",
	Class:        "class",
	Const:        "const",
	Continue:     "continue",
	Else:         "else",
	False:        "false",
	Function:     "function",
	For:          "for",
	If:           "if",
	In:           "in",
	Inherits:     "inherits",
	Nil:          "nil",
	Or:           "or",
	Return:       "return",
	Super:        "super",
	Static:       "static",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
	EOF:          "EOF",
}

func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved identifiers to their keyword kind.
var Keywords = map[string]Kind{
	"and":      And,
	"break":    Break,
	"class":    Class,
	"const":    Const,
	"continue": Continue,
	"else":     Else,
	"false":    False,
	"function": Function,
	"for":      For,
	"if":       If,
	"in":       In,
	"inherits": Inherits,
	"nil":      Nil,
	"or":       Or,
	"return":   Return,
	"super":    Super,
	"static":   Static,
	"this":     This,
	"true":     True,
	"var":      Var,
	"while":    While,
}

// Token is a single lexeme with its kind, source text, optional literal
// payload, and source line.
type Token struct {
	Kind    Kind
	Lexeme  string
	Literal interface{} // float64 for Number, string for String; nil otherwise
	Line    int
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q", t.Kind, t.Lexeme)
}

// New builds a synthesized token, useful for desugaring (augmented
// assignment) where the parser manufactures a token that never appeared
// in the source.
func New(kind Kind, lexeme string, literal interface{}, line int) Token {
	return Token{Kind: kind, Lexeme: lexeme, Literal: literal, Line: line}
}
