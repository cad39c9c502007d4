// Package astprint renders parsed AST nodes back to a parenthesized,
// fully-explicit Lisp-like form, per spec.md §4.6. Used by the
// -print-ast CLI flag and by parser tests asserting on shape without
// hand-building expected trees.
//
// Grounded on original_source/jlox/ASTPrinter.java for the
// parenthesized rendering convention, generalized here to Go using the
// teacher's interpreter_stringify.go type-switch-over-Value idiom,
// applied to ast.Expr/ast.Stmt instead of runtime values.
package astprint

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/davidkellis/lox-interp/pkg/ast"
	"github.com/davidkellis/lox-interp/pkg/token"
)

// PrintExpr renders a single expression.
func PrintExpr(expr ast.Expr) string {
	var b strings.Builder
	writeExpr(&b, expr)
	return b.String()
}

// Print renders a single statement.
func Print(stmt ast.Stmt) string {
	var b strings.Builder
	writeStmt(&b, stmt)
	return b.String()
}

// PrintProgram renders a whole program, one statement per line.
func PrintProgram(stmts []ast.Stmt) string {
	var b strings.Builder
	for idx, s := range stmts {
		if idx > 0 {
			b.WriteByte('\n')
		}
		writeStmt(&b, s)
	}
	return b.String()
}

func parenthesize(b *strings.Builder, name string, parts ...interface{}) {
	b.WriteByte('(')
	b.WriteString(name)
	for _, p := range parts {
		b.WriteByte(' ')
		switch v := p.(type) {
		case ast.Expr:
			writeExpr(b, v)
		case ast.Stmt:
			writeStmt(b, v)
		case string:
			b.WriteString(v)
		default:
			fmt.Fprintf(b, "%v", v)
		}
	}
	b.WriteByte(')')
}

func writeExpr(b *strings.Builder, expr ast.Expr) {
	if expr == nil {
		b.WriteString("nil")
		return
	}
	switch e := expr.(type) {
	case *ast.Literal:
		b.WriteString(literalString(e.Value))
	case *ast.Grouping:
		parenthesize(b, "group", e.Inner)
	case *ast.Unary:
		parenthesize(b, e.Op.Lexeme, e.Right)
	case *ast.Binary:
		parenthesize(b, e.Op.Lexeme, e.Left, e.Right)
	case *ast.Logical:
		parenthesize(b, e.Op.Lexeme, e.Left, e.Right)
	case *ast.Ternary:
		parenthesize(b, "?:", e.Cond, e.Then, e.Else)
	case *ast.Variable:
		b.WriteString(e.Name.Lexeme)
	case *ast.Assign:
		parenthesize(b, "=", e.Name.Lexeme, e.Value)
	case *ast.Get:
		parenthesize(b, ".", e.Object, e.Name.Lexeme)
	case *ast.Set:
		parenthesize(b, "set", e.Object, e.Name.Lexeme, e.Value)
	case *ast.This:
		b.WriteString("this")
	case *ast.Super:
		parenthesize(b, "super", e.Method.Lexeme)
	case *ast.Call:
		parts := make([]interface{}, 0, len(e.Args)+1)
		parts = append(parts, e.Callee)
		for _, a := range e.Args {
			parts = append(parts, a)
		}
		parenthesize(b, "call", parts...)
	case *ast.Function:
		name := e.Name
		if name == "" {
			name = "anonymous"
		}
		b.WriteString("(function ")
		b.WriteString(name)
		b.WriteByte(' ')
		b.WriteString(paramString(e.Params))
		for _, s := range e.Body {
			b.WriteByte(' ')
			writeStmt(b, s)
		}
		b.WriteByte(')')
	default:
		b.WriteString("<?expr>")
	}
}

func writeStmt(b *strings.Builder, stmt ast.Stmt) {
	if stmt == nil {
		b.WriteString("nil")
		return
	}
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		writeExpr(b, s.Expr)
	case *ast.Block:
		b.WriteString("(block")
		for _, inner := range s.Stmts {
			b.WriteByte(' ')
			writeStmt(b, inner)
		}
		b.WriteByte(')')
	case *ast.Var:
		b.WriteString("(var")
		for idx, name := range s.Names {
			b.WriteByte(' ')
			b.WriteString(name.Lexeme)
			if s.Initializers[idx] != nil {
				b.WriteByte(' ')
				writeExpr(b, s.Initializers[idx])
			}
		}
		b.WriteByte(')')
	case *ast.FunctionStmt:
		b.WriteString("(function ")
		b.WriteString(s.Name.Lexeme)
		b.WriteByte(' ')
		b.WriteString(paramString(s.Fn.Params))
		for _, inner := range s.Fn.Body {
			b.WriteByte(' ')
			writeStmt(b, inner)
		}
		b.WriteByte(')')
	case *ast.Class:
		b.WriteString("(class ")
		b.WriteString(s.Name.Lexeme)
		if s.Superclass != nil {
			b.WriteString(" inherits ")
			b.WriteString(s.Superclass.Name.Lexeme)
		}
		for _, m := range s.Methods {
			b.WriteByte(' ')
			writeStmt(b, m.Function)
		}
		b.WriteByte(')')
	case *ast.Break:
		b.WriteString("(break)")
	case *ast.Continue:
		b.WriteString("(continue)")
	case *ast.Return:
		if s.Value != nil {
			parenthesize(b, "return", s.Value)
		} else {
			b.WriteString("(return)")
		}
	case *ast.If:
		if s.Else != nil {
			parenthesize(b, "if", s.Cond, s.Then, s.Else)
		} else {
			parenthesize(b, "if", s.Cond, s.Then)
		}
	case *ast.While:
		parenthesize(b, "while", s.Cond, s.Body)
	case *ast.For:
		b.WriteString("(for ")
		writeStmt(b, s.Init)
		b.WriteByte(' ')
		writeExpr(b, s.Cond)
		b.WriteByte(' ')
		writeExpr(b, s.Increment)
		b.WriteByte(' ')
		writeStmt(b, s.Body)
		b.WriteByte(')')
	default:
		b.WriteString("<?stmt>")
	}
}

func literalString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return strconv.Quote(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func paramString(params []token.Token) string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Lexeme
	}
	return "(" + strings.Join(names, " ") + ")"
}
