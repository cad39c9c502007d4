package interpreter

import (
	"io"
	"strings"
	"time"

	"github.com/davidkellis/lox-interp/pkg/runtime"
	"github.com/davidkellis/lox-interp/pkg/token"
)

// inputToken stands in for a source location on the I/O failure path of
// input(), which has no call-site token available inside a NativeFunc.
var inputToken = token.New(token.Identifier, "input", nil, 0)

// installBuiltins preloads the globals environment with spec.md §6.2's
// built-ins, grounded on original_source/jlox/Globals.java. clock and
// input are each skipped when opts disables them, per pkg/config's
// builtins.input/builtins.clock toggles.
func installBuiltins(globals *runtime.Environment, i *Interpreter, opts Options) {
	if !opts.DisableClock {
		globals.Define("clock", &runtime.NativeFunctionValue{
			Name:  "clock",
			Arity: 0,
			Impl: func(_ *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
				return runtime.NumberValue{Val: float64(time.Now().UnixNano()) / 1e9}, nil
			},
		})
	}

	if !opts.DisableInput {
		globals.Define("input", &runtime.NativeFunctionValue{
			Name:  "input",
			Arity: 0,
			Impl: func(ctx *runtime.NativeCallContext, _ []runtime.Value) (runtime.Value, error) {
				line, err := ctx.Stdin.ReadLine()
				if err != nil {
					return runtime.NilValue{}, i.runtimeErr(inputToken, "Failed to read from standard input.")
				}
				return runtime.StringValue{Val: line}, nil
			},
		})
	}

	globals.Define("print", &runtime.NativeFunctionValue{
		Name:  "print",
		Arity: 1,
		Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			ctx.Stdout.WriteString(Stringify(args[0]))
			return runtime.NilValue{}, nil
		},
	})

	globals.Define("println", &runtime.NativeFunctionValue{
		Name:  "println",
		Arity: 1,
		Impl: func(ctx *runtime.NativeCallContext, args []runtime.Value) (runtime.Value, error) {
			ctx.Stdout.WriteString(Stringify(args[0]) + "\n")
			return runtime.NilValue{}, nil
		},
	})
}

// nativeContext adapts the interpreter's actual I/O streams to the small
// writer/reader interfaces runtime.NativeFunc depends on, so pkg/runtime
// never needs to import bufio/io itself.
func (i *Interpreter) nativeContext() *runtime.NativeCallContext {
	return &runtime.NativeCallContext{
		Stdout: stdoutAdapter{w: i.stdout},
		Stdin:  stdinAdapter{r: i.stdin},
	}
}

type stdoutAdapter struct{ w io.Writer }

func (a stdoutAdapter) WriteString(s string) (int, error) {
	return io.WriteString(a.w, s)
}

type bufReader interface {
	ReadString(delim byte) (string, error)
}

type stdinAdapter struct{ r bufReader }

func (a stdinAdapter) ReadLine() (string, error) {
	line, err := a.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
