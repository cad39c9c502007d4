package resolver

import (
	"strings"
	"testing"

	"github.com/davidkellis/lox-interp/pkg/diag"
	"github.com/davidkellis/lox-interp/pkg/lexer"
	"github.com/davidkellis/lox-interp/pkg/parser"
)

// resolveSource lexes and parses src, then resolves it, returning the
// diagnostics the resolver itself reported. Scan/parse errors are
// treated as test setup failures, not the thing under test.
func resolveSource(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	scanSink := diag.NewSink()
	tokens := lexer.New(src, scanSink).ScanTokens()
	stmts := parser.New(tokens, scanSink).Parse()
	if scanSink.HasErrors() {
		t.Fatalf("unexpected scan/parse errors: %v", scanSink.All())
	}

	resolveSink := diag.NewSink()
	New(resolveSink).Resolve(stmts)
	return resolveSink.All()
}

func expectSingleError(t *testing.T, src, wantSubstring string) {
	t.Helper()
	diags := resolveSource(t, src)
	if len(diags) != 1 {
		t.Fatalf("expected exactly one static error, got %v", diags)
	}
	if !strings.Contains(diags[0].Message, wantSubstring) {
		t.Fatalf("expected error containing %q, got %q", wantSubstring, diags[0].Message)
	}
}

func expectNoErrors(t *testing.T, src string) {
	t.Helper()
	if diags := resolveSource(t, src); len(diags) != 0 {
		t.Fatalf("expected no static errors, got %v", diags)
	}
}

func TestReturnAtTopLevelIsStaticError(t *testing.T) {
	expectSingleError(t, `return 1;`, "Cannot return from top-level code.")
}

func TestThisOutsideClassIsStaticError(t *testing.T) {
	expectSingleError(t, `println(this);`, "Cannot use 'this' outside of a class.")
}

func TestThisInStaticMethodIsStaticError(t *testing.T) {
	expectSingleError(t, `class K { static function s() { println(this); } }`, "Cannot use 'this' in a static method.")
}

func TestReturnValueFromInitializerIsStaticError(t *testing.T) {
	expectSingleError(t, `class K { function __init__() { return 1; } }`, "Cannot return a value from an initializer.")
}

func TestBareReturnFromInitializerIsAllowed(t *testing.T) {
	expectNoErrors(t, `class K { function __init__() { return; } }`)
}

func TestSelfReferentialLocalInitializerIsStaticError(t *testing.T) {
	expectSingleError(t, `{ var x = x; }`, "Cannot read local variable in its own initializer.")
}

func TestDuplicateDeclarationInSameScopeIsStaticError(t *testing.T) {
	expectSingleError(t, `{ var x = 1; var x = 2; }`, "Variable with this name already declared in this scope.")
}

func TestDuplicateDeclarationInDifferentScopesIsAllowed(t *testing.T) {
	expectNoErrors(t, `var x = 1; { var x = 2; }`)
}

func TestBreakOutsideLoopIsStaticError(t *testing.T) {
	expectSingleError(t, `break;`, "Cannot use 'break' outside of a loop.")
}

func TestContinueOutsideLoopIsStaticError(t *testing.T) {
	expectSingleError(t, `continue;`, "Cannot use 'continue' outside of a loop.")
}

func TestBreakInsideLoopIsAllowed(t *testing.T) {
	expectNoErrors(t, `while (true) { break; }`)
}

func TestSuperOutsideClassIsStaticError(t *testing.T) {
	expectSingleError(t, `println(super.f());`, "Cannot use 'super' outside of a class.")
}

func TestSuperInClassWithNoSuperclassIsStaticError(t *testing.T) {
	expectSingleError(t, `class K { function f() { println(super.f()); } }`, "Cannot use 'super' in a class with no superclass.")
}

func TestSuperInSubclassIsAllowed(t *testing.T) {
	expectNoErrors(t, `
class A { function f() {} }
class B inherits A { function f() { super.f(); } }
`)
}

func TestStaticInitializerIsStaticError(t *testing.T) {
	expectSingleError(t, `class K { static function __init__() {} }`, "Initializer cannot be static.")
}

func TestSelfInheritanceIsStaticError(t *testing.T) {
	expectSingleError(t, `class K inherits K {}`, "A class cannot inherit from itself.")
}

// TestParamsShadowingOuterScopeIsAllowed pins that function parameters
// declare into a fresh scope, not the enclosing one, so a parameter
// reusing an outer name is not a duplicate-declaration error.
func TestParamsShadowingOuterScopeIsAllowed(t *testing.T) {
	expectNoErrors(t, `
var x = 1;
function f(x) { println(x); }
`)
}

// TestReturnInsideNestedFunctionIsAllowed pins that currentFunction
// tracking is saved/restored per function, so a return inside a
// function nested inside another function (or a method) is fine, and
// the outer context's return-legality is unaffected afterward.
func TestReturnInsideNestedFunctionIsAllowed(t *testing.T) {
	expectNoErrors(t, `
function outer() {
  function inner() { return 1; }
  return inner();
}
`)
}

// TestBreakInsideFunctionLiteralNestedInLoopIsStaticError pins that a
// loop does not extend through a function boundary: break/continue
// textually nested inside a loop but inside a separate function body
// must still be rejected, the same as if the loop weren't there.
func TestBreakInsideFunctionLiteralNestedInLoopIsStaticError(t *testing.T) {
	expectSingleError(t, `
while (true) {
  var inner = function () { break; };
}
`, "Cannot use 'break' outside of a loop.")
}

func TestContinueInsideFunctionLiteralNestedInLoopIsStaticError(t *testing.T) {
	expectSingleError(t, `
for (var i = 0; i < 1; i += 1) {
  var inner = function () { continue; };
}
`, "Cannot use 'continue' outside of a loop.")
}
