// Package resolver implements the static scope-analysis pass of
// spec.md §4.2: it walks the parsed AST once, annotating each variable/
// this/super reference with the lexical hop-count needed to reach its
// binding, and reports the static errors misuse of return/this/super/
// break/continue would otherwise only surface at runtime (or not at
// all).
//
// Grounded on original_source/jlox/Resolver.java for the scope-stack
// algorithm and every static error condition; Go structuring (a
// Resolver struct carrying stack-shaped state across a recursive walk)
// follows the teacher's pkg/typechecker/checker.go pattern.
package resolver

import (
	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/diag"
	"github.com/davidkellis/lox-interp/pkg/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnMethod
	fnStaticMethod
	fnInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

// Locals is the resolution side-table: for each reference expression
// (Variable, Assign, This, Super) the resolver recorded, the number of
// enclosing environments to skip to reach its binding. Absence means
// the reference is global.
type Locals map[ast.Expr]int

// scope maps a name to whether it has finished being defined (false
// between declare and define, catching self-referential initializers).
type scope map[string]bool

// Resolver performs the static pass described in spec.md §4.2.
type Resolver struct {
	scopes          []scope
	locals          Locals
	sink            *diag.Sink
	currentFunction functionType
	currentClass    classType
	inLoop          bool
}

// New returns a Resolver reporting static errors to sink.
func New(sink *diag.Sink) *Resolver {
	return &Resolver{locals: make(Locals), sink: sink}
}

// Resolve walks the whole program and returns the completed side-table.
func (r *Resolver) Resolve(stmts []ast.Stmt) Locals {
	r.resolveStmts(stmts)
	return r.locals
}

func (r *Resolver) errorAt(tok token.Token, message string) {
	r.sink.Reportf(diag.Static, tok.Line, tok.Lexeme, message)
}

//-----------------------------------------------------------------------------
// Scope stack
//-----------------------------------------------------------------------------

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, scope{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	sc := r.scopes[len(r.scopes)-1]
	if _, ok := sc[name.Lexeme]; ok {
		r.errorAt(name, "Variable with this name already declared in this scope.")
	}
	sc[name.Lexeme] = false
}

func (r *Resolver) define(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = true
}

func (r *Resolver) defineToken(name token.Token) {
	r.define(name.Lexeme)
}

// resolveLocal scans scopes top-down (innermost first); the first scope
// containing name records a hop-count. No match means the reference is
// global and no entry is recorded.
func (r *Resolver) resolveLocal(expr ast.Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

//-----------------------------------------------------------------------------
// Statements
//-----------------------------------------------------------------------------

func (r *Resolver) resolveStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.Block:
		r.beginScope()
		r.resolveStmts(s.Stmts)
		r.endScope()
	case *ast.ExprStmt:
		r.resolveExpr(s.Expr)
	case *ast.Var:
		for i, name := range s.Names {
			r.declare(name)
			if s.Initializers[i] != nil {
				r.resolveExpr(s.Initializers[i])
			}
			r.define(name.Lexeme)
		}
	case *ast.FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name.Lexeme)
		r.resolveFunction(s.Fn, fnFunction)
	case *ast.Class:
		r.resolveClass(s)
	case *ast.Break:
		if !r.inLoop {
			r.errorAt(s.Keyword, "Cannot use 'break' outside of a loop.")
		}
	case *ast.Continue:
		if !r.inLoop {
			r.errorAt(s.Keyword, "Cannot use 'continue' outside of a loop.")
		}
	case *ast.Return:
		if r.currentFunction == fnNone {
			r.errorAt(s.Keyword, "Cannot return from top-level code.")
		}
		if s.Value != nil {
			if r.currentFunction == fnInitializer {
				r.errorAt(s.Keyword, "Cannot return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	case *ast.If:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *ast.While:
		r.resolveExpr(s.Cond)
		r.withLoop(func() { r.resolveStmt(s.Body) })
	case *ast.For:
		r.beginScope()
		r.withLoop(func() {
			if s.Init != nil {
				r.resolveStmt(s.Init)
			}
			if s.Cond != nil {
				r.resolveExpr(s.Cond)
			}
			if s.Increment != nil {
				r.resolveExpr(s.Increment)
			}
			r.resolveStmt(s.Body)
		})
		r.endScope()
	default:
		panic("resolver: unhandled statement type")
	}
}

func (r *Resolver) withLoop(fn func()) {
	prev := r.inLoop
	r.inLoop = true
	fn()
	r.inLoop = prev
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	prevFunction := r.currentFunction
	prevLoop := r.inLoop
	r.currentFunction = kind
	r.inLoop = false
	r.beginScope()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p.Lexeme)
	}
	r.resolveStmts(fn.Body)
	r.endScope()
	r.currentFunction = prevFunction
	r.inLoop = prevLoop
}

func (r *Resolver) resolveClass(c *ast.Class) {
	prevClass := r.currentClass
	r.currentClass = classClass
	r.declare(c.Name)
	r.define(c.Name.Lexeme)

	if c.Superclass != nil {
		if c.Superclass.Name.Lexeme == c.Name.Lexeme {
			r.errorAt(c.Superclass.Name, "A class cannot inherit from itself.")
		}
		r.currentClass = classSubclass
		r.resolveExpr(c.Superclass)
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	for _, m := range c.Methods {
		kind := fnMethod
		switch {
		case m.IsStatic && m.Function.Name.Lexeme == "__init__":
			r.errorAt(m.Function.Name, "Initializer cannot be static.")
			kind = fnStaticMethod
		case m.IsStatic:
			kind = fnStaticMethod
		case m.Function.Name.Lexeme == "__init__":
			kind = fnInitializer
		}
		// A static method's closure (executeClass) is classEnv itself,
		// with no "this" environment layer on top of it; only instance
		// methods get that extra layer, via Bind at call time. The scope
		// pushed here must mirror that exactly, or hop-counts computed
		// for names resolved past this point in a static method's body
		// would be off by one.
		if m.IsStatic {
			r.resolveFunction(m.Function.Fn, kind)
			continue
		}
		r.beginScope()
		r.scopes[len(r.scopes)-1]["this"] = true
		r.resolveFunction(m.Function.Fn, kind)
		r.endScope()
	}

	if c.Superclass != nil {
		r.endScope()
	}

	r.currentClass = prevClass
}

//-----------------------------------------------------------------------------
// Expressions
//-----------------------------------------------------------------------------

func (r *Resolver) resolveExpr(expr ast.Expr) {
	switch e := expr.(type) {
	case *ast.Variable:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.errorAt(e.Name, "Cannot read local variable in its own initializer.")
			}
		}
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Assign:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name.Lexeme)
	case *ast.Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *ast.This:
		switch {
		case r.currentClass == classNone:
			r.errorAt(e.Keyword, "Cannot use 'this' outside of a class.")
		case r.currentFunction == fnStaticMethod:
			r.errorAt(e.Keyword, "Cannot use 'this' in a static method.")
		}
		r.resolveLocal(e, "this")
	case *ast.Super:
		switch r.currentClass {
		case classNone:
			r.errorAt(e.Keyword, "Cannot use 'super' outside of a class.")
		case classClass:
			r.errorAt(e.Keyword, "Cannot use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, "super")
	case *ast.Ternary:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *ast.Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *ast.Unary:
		r.resolveExpr(e.Right)
	case *ast.Grouping:
		r.resolveExpr(e.Inner)
	case *ast.Literal:
		// no sub-expressions
	case *ast.Call:
		r.resolveExpr(e.Callee)
		for _, arg := range e.Args {
			r.resolveExpr(arg)
		}
	case *ast.Get:
		r.resolveExpr(e.Object)
	case *ast.Function:
		r.resolveFunction(e, fnFunction)
	default:
		panic("resolver: unhandled expression type")
	}
}
