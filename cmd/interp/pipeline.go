package main

import (
	"fmt"
	"io"

	"github.com/davidkellis/lox-interp/pkg/astprint"
	"github.com/davidkellis/lox-interp/pkg/config"
	"github.com/davidkellis/lox-interp/pkg/diag"
	"github.com/davidkellis/lox-interp/pkg/interpreter"
	"github.com/davidkellis/lox-interp/pkg/lexer"
	"github.com/davidkellis/lox-interp/pkg/parser"
	"github.com/davidkellis/lox-interp/pkg/resolver"
)

// runOptions carries the CLI flags that change what interpretSource
// does with a successfully-resolved program.
type runOptions struct {
	printAST  bool
	checkOnly bool
}

type pipelineResult int

const (
	resultOK pipelineResult = iota
	resultStaticError
	resultRuntimeError
)

func newInterpreter(cfg *config.Config, stdout io.Writer, stdin io.Reader) *interpreter.Interpreter {
	return interpreter.NewWithOptions(stdout, stdin, interpreter.Options{
		DisableInput: !cfg.Builtins.Input,
		DisableClock: !cfg.Builtins.Clock,
	})
}

// interpretSource runs one source chunk (a whole file, or one REPL
// line) through the full lexer → parser → resolver → interpreter
// pipeline, per spec.md §7: every scan/parse/static diagnostic
// accumulated in a single pass is reported before anything executes,
// and a runtime error is reported separately and stops that chunk.
func interpretSource(source string, interp *interpreter.Interpreter, opts runOptions, stdout, stderr io.Writer) pipelineResult {
	sink := diag.NewSink()

	lx := lexer.New(source, sink)
	tokens := lx.ScanTokens()

	p := parser.New(tokens, sink)
	stmts := p.Parse()

	if sink.HasErrors() {
		reportAll(sink, stderr)
		return resultStaticError
	}

	res := resolver.New(sink)
	locals := res.Resolve(stmts)

	if sink.HasErrors() {
		reportAll(sink, stderr)
		return resultStaticError
	}

	if opts.printAST {
		fmt.Fprintln(stdout, astprint.PrintProgram(stmts))
	}
	if opts.checkOnly {
		return resultOK
	}

	interp.SetLocals(locals)
	if err := interp.Interpret(stmts); err != nil {
		if tok, message, ok := interpreter.AsRuntimeError(err); ok {
			sink.Report(diag.Diagnostic{Kind: diag.Runtime, Line: tok.Line, Where: tok.Lexeme, Message: message})
			reportAll(sink, stderr)
			return resultRuntimeError
		}
		fmt.Fprintln(stderr, err)
		return resultRuntimeError
	}
	return resultOK
}

func reportAll(sink *diag.Sink, stderr io.Writer) {
	for _, d := range sink.All() {
		fmt.Fprintln(stderr, d.String())
	}
}
