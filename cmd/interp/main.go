// Command interp is the CLI driver of spec.md §6.1: it runs a script
// file, or starts an interactive REPL when given none, via the
// lexer → parser → resolver → interpreter pipeline of pkg/lexer
// through pkg/interpreter.
//
// Grounded on the teacher's cmd/able/main.go run(args []string) int
// dispatch shape (os.Exit(run(os.Args[1:])), plain fmt.Fprintf error
// reporting to os.Stderr, no external CLI framework).
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"

	"github.com/davidkellis/lox-interp/pkg/config"
)

// Exit codes follow the sysexits.h convention the teacher's CLI also
// leans on for its own failure paths: 64 for a bad invocation, 65 for
// a source-level (scan/parse/static) error, 70 for an uncaught runtime
// error, 0 for success.
const (
	exitOK        = 0
	exitUsage     = 64
	exitDataError = 65
	exitSoftware  = 70
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("interp", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	printAST := fs.Bool("print-ast", false, "print the parsed syntax tree before evaluating it")
	checkOnly := fs.Bool("check", false, "parse and resolve only; report static errors without evaluating")
	configPath := fs.String("config", "", "path to a YAML configuration file")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: interp [-print-ast] [-check] [-config path] [script]")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return exitUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitUsage
	}

	opts := runOptions{printAST: *printAST, checkOnly: *checkOnly}

	rest := fs.Args()
	switch len(rest) {
	case 0:
		return runPrompt(cfg, opts, os.Stdin, os.Stdout)
	case 1:
		return runFile(rest[0], cfg, opts)
	default:
		fmt.Fprintln(os.Stderr, "usage: interp [-print-ast] [-check] [-config path] [script]")
		return exitUsage
	}
}

func runFile(path string, cfg *config.Config, opts runOptions) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "interp: cannot read %s: %v\n", path, err)
		return exitUsage
	}

	interp := newInterpreter(cfg, os.Stdout, os.Stdin)
	switch interpretSource(string(source), interp, opts, os.Stdout, os.Stderr) {
	case resultStaticError:
		return exitDataError
	case resultRuntimeError:
		return exitSoftware
	default:
		return exitOK
	}
}

func runPrompt(cfg *config.Config, opts runOptions, stdin *os.File, stdout *os.File) int {
	interp := newInterpreter(cfg, stdout, stdin)
	scanner := bufio.NewScanner(stdin)

	for {
		fmt.Fprint(stdout, cfg.Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			return exitOK
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		// A failed line never aborts the session; only its own
		// diagnostics are printed before returning to the prompt.
		interpretSource(line, interp, opts, stdout, os.Stderr)
	}
}
