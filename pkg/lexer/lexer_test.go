package lexer

import (
	"testing"

	"github.com/davidkellis/lox-interp/pkg/diag"
	"github.com/davidkellis/lox-interp/pkg/token"
)

func scan(t *testing.T, src string) ([]token.Token, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	return New(src, sink).ScanTokens(), sink
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func assertKinds(t *testing.T, got []token.Token, want ...token.Kind) {
	t.Helper()
	gk := kinds(got)
	if len(gk) != len(want) {
		t.Fatalf("expected kinds %v, got %v", want, gk)
	}
	for i := range want {
		if gk[i] != want[i] {
			t.Fatalf("token %d: want %v, got %v", i, want[i], gk[i])
		}
	}
}

func TestScansOperatorsIncludingAugmentedAssignment(t *testing.T) {
	tokens, sink := scan(t, `+ - * / += -= *= /= = == != < <= > >= => ?`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	assertKinds(t, tokens,
		token.Plus, token.Minus, token.Star, token.Slash,
		token.PlusEqual, token.MinusEqual, token.StarEqual, token.SlashEqual,
		token.Equal, token.EqualEqual, token.BangEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.EqualGreater, token.Question, token.EOF,
	)
}

func TestKeywordsAreDistinguishedFromIdentifiers(t *testing.T) {
	tokens, sink := scan(t, `class inherits function static var this super and or if else while for break continue return nil true false foobar`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	assertKinds(t, tokens,
		token.Class, token.Inherits, token.Function, token.Static, token.Var,
		token.This, token.Super, token.And, token.Or, token.If, token.Else,
		token.While, token.For, token.Break, token.Continue, token.Return,
		token.Nil, token.True, token.False, token.Identifier, token.EOF,
	)
}

func TestLineCommentsAreSkippedButBlockCommentsNest(t *testing.T) {
	tokens, sink := scan(t, "1 // a comment\n/* outer /* inner */ still outer */ 2")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	assertKinds(t, tokens, token.Number, token.Number, token.EOF)
	if tokens[1].Line != 2 {
		t.Fatalf("expected the second number on line 2, got line %d", tokens[1].Line)
	}
}

func TestUnterminatedBlockCommentIsScanError(t *testing.T) {
	_, sink := scan(t, "/* never closed")
	if !sink.HasErrors() {
		t.Fatalf("expected an unterminated block comment error")
	}
}

func TestStringLiteralCapturesValueAndTracksNewlines(t *testing.T) {
	tokens, sink := scan(t, "\"line one\nline two\" 1")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	assertKinds(t, tokens, token.String, token.Number, token.EOF)
	if tokens[0].Literal != "line one\nline two" {
		t.Fatalf("got literal %q", tokens[0].Literal)
	}
	if tokens[1].Line != 2 {
		t.Fatalf("expected the token after the multi-line string to be on line 2, got %d", tokens[1].Line)
	}
}

func TestUnterminatedStringIsScanError(t *testing.T) {
	_, sink := scan(t, `"never closed`)
	if !sink.HasErrors() {
		t.Fatalf("expected an unterminated string error")
	}
}

func TestNumberLiteralParsesFloat(t *testing.T) {
	tokens, sink := scan(t, `3.14`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	assertKinds(t, tokens, token.Number, token.EOF)
	if tokens[0].Literal != 3.14 {
		t.Fatalf("got literal %v", tokens[0].Literal)
	}
}

func TestScanningContinuesPastAnErrorToken(t *testing.T) {
	tokens, sink := scan(t, "@ 1")
	if len(sink.All()) != 1 {
		t.Fatalf("expected exactly one scan error, got %v", sink.All())
	}
	assertKinds(t, tokens, token.Number, token.EOF)
}
