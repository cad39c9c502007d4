package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/diag"
	"github.com/davidkellis/lox-interp/pkg/lexer"
	"github.com/davidkellis/lox-interp/pkg/parser"
	"github.com/davidkellis/lox-interp/pkg/resolver"
	"github.com/davidkellis/lox-interp/pkg/runtime"
	"github.com/davidkellis/lox-interp/pkg/token"
)

// runSource drives the same lex -> parse -> resolve -> interpret
// pipeline cmd/interp uses, returning whatever reached stdout.
func runSource(t *testing.T, src string) (string, *diag.Sink, error) {
	t.Helper()
	sink := diag.NewSink()

	tokens := lexer.New(src, sink).ScanTokens()
	stmts := parser.New(tokens, sink).Parse()
	if sink.HasErrors() {
		return "", sink, nil
	}

	locals := resolver.New(sink).Resolve(stmts)
	if sink.HasErrors() {
		return "", sink, nil
	}

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""))
	interp.SetLocals(locals)
	err := interp.Interpret(stmts)
	return out.String(), sink, err
}

func TestScenarioArithmeticStringConcat(t *testing.T) {
	out, sink, err := runSource(t, `println("Hello agent " + 72 + "!");`)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "Hello agent 72!\n" {
		t.Fatalf("got %q", out)
	}
}

func TestScenarioClosuresOverShadowedNames(t *testing.T) {
	src := `
var q = 10;
{ function w() { println(q); } w(); var q = 12; w(); }
`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "10\n10\n" {
		t.Fatalf("got %q", out)
	}
}

func TestScenarioInheritanceAndSuper(t *testing.T) {
	src := `
class A { function __init__(){ this.v = 1; } function f(){ println(this.v);} }
class B inherits A { function __init__(){ super.__init__(); this.v = 2; } }
B().f();
`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "2\n" {
		t.Fatalf("got %q", out)
	}
}

func TestScenarioStaticMethods(t *testing.T) {
	out, sink, err := runSource(t, `class M { static function s(){ println("hi"); } } M.s();`)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "hi\n" {
		t.Fatalf("got %q", out)
	}
}

func TestScenarioCallingStaticMethodOnInstanceFails(t *testing.T) {
	src := `class M { static function s(){ println("hi"); } } M().s();`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected static errors: %v", sink.All())
	}
	if out != "" {
		t.Fatalf("expected no output before the error, got %q", out)
	}
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	_, message, ok := AsRuntimeError(err)
	if !ok || message != "Undefined property 's'." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestScenarioLoopControl(t *testing.T) {
	src := `for (var i=0; i<5; i+=1) { if (i==1) continue; if (i==3) break; println(i); }`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "0\n2\n" {
		t.Fatalf("got %q", out)
	}
}

func TestScenarioArrowIIFE(t *testing.T) {
	out, sink, err := runSource(t, `print((function () => "Hello, World!")());`)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "Hello, World!" {
		t.Fatalf("got %q", out)
	}
}

func TestScenarioAddingNumberAndBoolIsRuntimeError(t *testing.T) {
	out, sink, err := runSource(t, `1 + true;`)
	if sink.HasErrors() {
		t.Fatalf("unexpected static errors: %v", sink.All())
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
	if err == nil {
		t.Fatalf("expected a runtime error")
	}
	tok, message, ok := AsRuntimeError(err)
	if !ok || message != "Operands must be two numbers or two strings." {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Lexeme != "+" {
		t.Fatalf("expected the error token to be '+', got %q", tok.Lexeme)
	}
}

// TestEnvironmentRestoredAfterRuntimeError pins spec's invariant that
// Interpret leaves the active environment at globals whether or not it
// returned an error.
func TestEnvironmentRestoredAfterRuntimeError(t *testing.T) {
	sink := diag.NewSink()
	tokens := lexer.New(`{ var a = 1; 1 + true; }`, sink).ScanTokens()
	stmts := parser.New(tokens, sink).Parse()
	locals := resolver.New(sink).Resolve(stmts)

	var out bytes.Buffer
	interp := New(&out, strings.NewReader(""))
	interp.SetLocals(locals)
	if err := interp.Interpret(stmts); err == nil {
		t.Fatalf("expected a runtime error")
	}
	if interp.environment != interp.globals {
		t.Fatalf("active environment was not restored to globals after a runtime error")
	}
}

// TestClosureCaptureSharesMutations pins the closure-capture invariant:
// two closures over the same captured environment observe each other's
// mutations of a shared variable.
func TestClosureCaptureSharesMutations(t *testing.T) {
	src := `
var counter = 0;
function inc() { counter = counter + 1; }
function read() => counter;
inc(); inc(); inc();
println(read());
`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "3\n" {
		t.Fatalf("got %q", out)
	}
}

// TestClassArityMirrorsInitializer pins spec.md §8's class-equality
// invariant directly against runtime.ClassValue, without going through
// source text.
func TestClassArityMirrorsInitializer(t *testing.T) {
	withInit := &runtime.ClassValue{
		Name: "Point",
		Methods: map[string]*runtime.FunctionValue{
			"__init__": {Declaration: &ast.Function{Params: []token.Token{ast.Ident("x"), ast.Ident("y")}}},
		},
	}
	if got := withInit.Arity(); got != 2 {
		t.Fatalf("expected arity 2 from __init__, got %d", got)
	}

	noInit := &runtime.ClassValue{Name: "Empty", Methods: map[string]*runtime.FunctionValue{}}
	if got := noInit.Arity(); got != 0 {
		t.Fatalf("expected arity 0 with no initializer, got %d", got)
	}
}

func TestAugmentedAssignmentIsEquivalentToExpandedAssignment(t *testing.T) {
	src := `
var x = 5;
x += 3;
println(x);
`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "8\n" {
		t.Fatalf("got %q", out)
	}
}

func TestShortCircuitOr(t *testing.T) {
	src := `
var sideEffect = false;
function trip() { sideEffect = true; return true; }
var r = true or trip();
println(sideEffect);
`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "false\n" {
		t.Fatalf("expected 'or' to short-circuit and never call trip(), got %q", out)
	}
}

func TestShortCircuitAnd(t *testing.T) {
	src := `
var sideEffect = false;
function trip() { sideEffect = true; return true; }
var r = false and trip();
println(sideEffect);
`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "false\n" {
		t.Fatalf("expected 'and' to short-circuit and never call trip(), got %q", out)
	}
}

func TestStaticMethodResolvesOuterVariableCorrectly(t *testing.T) {
	// Regression test for the resolver/runtime hop-count parity fix:
	// a static method's body must see outer-scope variables at the
	// same hop-count the runtime environment chain actually has. The
	// block makes "outer" a local, so it is read through a hop-count.
	src := `
{
  var outer = "seen";
  class M { static function s() { println(outer); } }
  M.s();
}
`
	out, sink, err := runSource(t, src)
	if sink.HasErrors() || err != nil {
		t.Fatalf("unexpected errors: sink=%v err=%v", sink.All(), err)
	}
	if out != "seen\n" {
		t.Fatalf("got %q", out)
	}
}
