package interpreter

import (
	"github.com/davidkellis/lox-interp/pkg/runtime"
	"github.com/davidkellis/lox-interp/pkg/token"
)

// breakSignal, continueSignal, and returnSignal model spec.md §4.4's
// three non-local control flows as unexported error-typed structs,
// caught exactly at the sites that section names (while/for for
// Break/Continue, user-function call sites for Return). This is a
// direct adoption of the teacher's breakSignal/continueSignal/
// returnSignal pattern in pkg/interpreter/interpreter.go, minus
// raiseSignal: this language has no user-level raise/exception
// construct, only host runtime errors, which propagate as a plain
// *runtimeError.
type breakSignal struct{}

func (breakSignal) Error() string { return "break" }

type continueSignal struct{}

func (continueSignal) Error() string { return "continue" }

type returnSignal struct {
	value runtime.Value
}

func (returnSignal) Error() string { return "return" }

// runtimeError is the fourth, orthogonal signal of spec.md §4.4: it
// carries the offending token (for line info) and unwinds out of
// Interpret, which returns it to the driver to report via pkg/diag.
type runtimeError struct {
	token   token.Token
	message string
}

func (e *runtimeError) Error() string { return e.message }

// AsRuntimeError lets a driver (cmd/interp) recover the offending token
// and message from an error returned by Interpret, to report it through
// pkg/diag without pkg/interpreter needing to import pkg/diag itself.
func AsRuntimeError(err error) (tok token.Token, message string, ok bool) {
	if rt, match := err.(*runtimeError); match {
		return rt.token, rt.message, true
	}
	return token.Token{}, "", false
}
