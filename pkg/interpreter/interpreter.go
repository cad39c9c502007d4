// Package interpreter implements the tree-walking evaluator of
// spec.md §4.3: it walks the resolved AST, threading an Environment
// chain and the resolver's side-table, and performs dispatch, method
// binding, closure capture, and the non-local control signals of §4.4.
//
// Grounded on original_source/jlox/Interpreter.java for every
// evaluation rule; Go structuring (an Interpreter struct with
// evaluate/execute type-switch dispatch, non-local control modeled
// as unexported error-typed signal structs) is a direct adoption of the
// teacher's pkg/interpreter/interpreter.go shape.
package interpreter

import (
	"bufio"
	"io"

	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/resolver"
	"github.com/davidkellis/lox-interp/pkg/runtime"
	"github.com/davidkellis/lox-interp/pkg/token"
)

// Interpreter drives evaluation of a resolved program.
type Interpreter struct {
	globals     *runtime.Environment
	environment *runtime.Environment
	locals      resolver.Locals

	stdout io.Writer
	stdin  *bufio.Reader
}

// Options controls which of spec.md §6.2's built-ins get installed. A
// driver embedding this interpreter in a sandboxed context (no file or
// wall-clock access) can disable the I/O-performing ones; the zero
// value enables everything.
type Options struct {
	DisableInput bool
	DisableClock bool
}

// New returns an interpreter wired to stdout/stdin, with the globals
// environment preloaded with the built-ins of spec.md §6.2.
func New(stdout io.Writer, stdin io.Reader) *Interpreter {
	return NewWithOptions(stdout, stdin, Options{})
}

// NewWithOptions is New, with control over which built-ins are installed.
func NewWithOptions(stdout io.Writer, stdin io.Reader, opts Options) *Interpreter {
	globals := runtime.NewEnvironment(nil)
	i := &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      make(resolver.Locals),
		stdout:      stdout,
		stdin:       bufio.NewReader(stdin),
	}
	installBuiltins(globals, i, opts)
	return i
}

// Globals returns the globals environment, so a REPL driver can inspect
// or pre-seed it.
func (i *Interpreter) Globals() *runtime.Environment {
	return i.globals
}

// SetLocals installs the resolver's side-table for the program about to
// be interpreted.
func (i *Interpreter) SetLocals(locals resolver.Locals) {
	i.locals = locals
}

// Interpret executes a resolved program's top-level statements.
// Guarantees (per spec.md §8) that the active environment equals
// globals when it returns, on both success and runtime error.
func (i *Interpreter) Interpret(stmts []ast.Stmt) error {
	defer func() { i.environment = i.globals }()
	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) runtimeErr(tok token.Token, message string) error {
	return &runtimeError{token: tok, message: message}
}

//-----------------------------------------------------------------------------
// Statement execution
//-----------------------------------------------------------------------------

func (i *Interpreter) execute(stmt ast.Stmt) error {
	switch s := stmt.(type) {
	case *ast.Block:
		return i.executeBlock(s.Stmts, runtime.NewEnvironment(i.environment))
	case *ast.ExprStmt:
		_, err := i.evaluate(s.Expr)
		return err
	case *ast.Var:
		return i.executeVar(s)
	case *ast.FunctionStmt:
		fn := &runtime.FunctionValue{Name: s.Name.Lexeme, Declaration: s.Fn, Closure: i.environment}
		i.environment.Define(s.Name.Lexeme, fn)
		return nil
	case *ast.Class:
		return i.executeClass(s)
	case *ast.Break:
		return breakSignal{}
	case *ast.Continue:
		return continueSignal{}
	case *ast.Return:
		return i.executeReturn(s)
	case *ast.If:
		return i.executeIf(s)
	case *ast.While:
		return i.executeWhile(s)
	case *ast.For:
		return i.executeFor(s)
	default:
		panic("interpreter: unhandled statement type")
	}
}

// executeBlock runs stmts in env, restoring the previous environment on
// every exit path (normal completion, runtime error, or a non-local
// control signal) per spec.md §5.
func (i *Interpreter) executeBlock(stmts []ast.Stmt, env *runtime.Environment) error {
	previous := i.environment
	i.environment = env
	defer func() { i.environment = previous }()

	for _, stmt := range stmts {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// executeVar implements spec.md §4.3's Var rule: initializers are
// evaluated before their own name is defined, so a name never sees its
// own (or a same-statement sibling's unevaluated) initializer.
func (i *Interpreter) executeVar(s *ast.Var) error {
	for idx, name := range s.Names {
		var value runtime.Value = runtime.NilValue{}
		if s.Initializers[idx] != nil {
			v, err := i.evaluate(s.Initializers[idx])
			if err != nil {
				return err
			}
			value = v
		}
		i.environment.Define(name.Lexeme, value)
	}
	return nil
}

func (i *Interpreter) executeReturn(s *ast.Return) error {
	var value runtime.Value = runtime.NilValue{}
	if s.Value != nil {
		v, err := i.evaluate(s.Value)
		if err != nil {
			return err
		}
		value = v
	}
	return returnSignal{value: value}
}

func (i *Interpreter) executeIf(s *ast.If) error {
	cond, err := i.evaluate(s.Cond)
	if err != nil {
		return err
	}
	if runtime.IsTruthy(cond) {
		return i.execute(s.Then)
	}
	if s.Else != nil {
		return i.execute(s.Else)
	}
	return nil
}

func (i *Interpreter) executeWhile(s *ast.While) error {
	for {
		cond, err := i.evaluate(s.Cond)
		if err != nil {
			return err
		}
		if !runtime.IsTruthy(cond) {
			return nil
		}
		if err := i.execute(s.Body); err != nil {
			switch err.(type) {
			case breakSignal:
				return nil
			case continueSignal:
				continue
			default:
				return err
			}
		}
	}
}

// executeFor implements spec.md §4.3's For rule: a scope is pushed for
// the loop's init binding, and the increment runs after the body
// whether or not Continue fired, but not if Break fired.
func (i *Interpreter) executeFor(s *ast.For) error {
	previous := i.environment
	i.environment = runtime.NewEnvironment(previous)
	defer func() { i.environment = previous }()

	if s.Init != nil {
		if err := i.execute(s.Init); err != nil {
			return err
		}
	}

	for {
		if s.Cond != nil {
			cond, err := i.evaluate(s.Cond)
			if err != nil {
				return err
			}
			if !runtime.IsTruthy(cond) {
				return nil
			}
		}

		err := i.execute(s.Body)
		if err != nil {
			if _, ok := err.(breakSignal); ok {
				return nil
			}
			if _, ok := err.(continueSignal); !ok {
				return err
			}
		}

		if s.Increment != nil {
			if _, err := i.evaluate(s.Increment); err != nil {
				return err
			}
		}
	}
}

// executeClass implements spec.md §4.3's Class declaration rule: the
// name is bound to Nil up front so methods/the class body can refer to
// it recursively, the superclass (if any) gets its own "super" scope
// that every method closure captures, and the class value is assigned
// into the same slot once built.
func (i *Interpreter) executeClass(c *ast.Class) error {
	i.environment.Define(c.Name.Lexeme, runtime.NilValue{})

	var superclass *runtime.ClassValue
	if c.Superclass != nil {
		superVal, err := i.evaluate(c.Superclass)
		if err != nil {
			return err
		}
		sc, ok := superVal.(*runtime.ClassValue)
		if !ok {
			return i.runtimeErr(c.Superclass.Name, "Superclass must be a class.")
		}
		superclass = sc
	}

	classEnv := i.environment
	if superclass != nil {
		classEnv = runtime.NewEnvironment(i.environment)
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*runtime.FunctionValue)
	staticFields := make(map[string]runtime.Value)
	for _, m := range c.Methods {
		fn := &runtime.FunctionValue{
			Name:          m.Function.Name.Lexeme,
			Declaration:   m.Function.Fn,
			Closure:       classEnv,
			IsInitializer: m.Function.Name.Lexeme == "__init__",
		}
		if m.IsStatic {
			staticFields[m.Function.Name.Lexeme] = fn
		} else {
			methods[m.Function.Name.Lexeme] = fn
		}
	}

	classValue := &runtime.ClassValue{
		Name:         c.Name.Lexeme,
		Superclass:   superclass,
		Methods:      methods,
		StaticFields: staticFields,
	}
	i.environment.Define(c.Name.Lexeme, classValue)
	return nil
}
