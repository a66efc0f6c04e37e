// Command lox-rocks is the CLI front end for the interpreter: script runner,
// interactive REPL, and AST dumper.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	lox "github.com/DhruvPatel01/lox-rocks"
)

const (
	appName     = "lox-rocks"
	historyFile = ".lox_rocks_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

var banner = fmt.Sprintf("lox-rocks %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", lox.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch cmd := os.Args[1]; cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "ast":
		os.Exit(cmdAst(os.Args[2:]))
	case "version":
		fmt.Println(lox.Version)
	case "-h", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`lox-rocks %s

Usage:
  %s run <file.lox>    Run a script.
  %s repl              Start the REPL.
  %s ast <file.lox>    Parse a script and dump its AST.
  %s version           Print the version.

`, lox.Version, appName, appName, appName, appName)
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

// Exit codes follow sysexits: 65 (EX_DATAERR) for lex/parse/resolve failures,
// 70 (EX_SOFTWARE) for runtime failures.
func cmdRun(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <file.lox>\n", appName)
		return 2
	}
	file := args[0]

	srcBytes, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}
	src := string(srcBytes)
	name := filepath.Base(file)

	prog, err := lox.ParseSource(src)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithName(err, name, src).Error()))
		return 65
	}
	locals, err := lox.ResolveProgram(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithName(err, name, src).Error()))
		return 65
	}

	ip := lox.NewInterpreter()
	if err := ip.Interpret(prog, locals); err != nil {
		fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithName(err, name, src).Error()))
		return 70
	}
	return 0
}

// -----------------------------------------------------------------------------
// ast
// -----------------------------------------------------------------------------

func cmdAst(args []string) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s ast <file.lox>\n", appName)
		return 2
	}
	file := args[0]

	srcBytes, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}
	src := string(srcBytes)

	prog, perr := lox.ParseSource(src)
	if perr != nil {
		fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithName(perr, filepath.Base(file), src).Error()))
		return 65
	}
	fmt.Println(lox.FormatProgram(prog))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := lox.NewInterpreter()

	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			return 0
		}
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			default:
				fmt.Println("unknown command. Type :quit to exit.")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		prog, err := lox.ParseSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithName(err, "<repl>", code).Error()))
			continue
		}
		locals, err := lox.ResolveProgram(prog)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithName(err, "<repl>", code).Error()))
			continue
		}
		v, echo, err := ip.EvalProgram(prog, locals)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(lox.WrapErrorWithName(err, "<repl>", code).Error()))
			continue
		}
		if echo {
			fmt.Println(blue(lox.FormatValue(v)))
		}
	}
}

// readByParseProbe accumulates lines until the fragment parses, or until the
// parse error is a real one rather than "input ended too early". Returning
// ok=false means EOF (Ctrl+D).
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			// Ctrl+C: throw away what was typed so far.
			b.Reset()
			continue
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if _, perr := lox.ParseSource(src); perr != nil && lox.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
