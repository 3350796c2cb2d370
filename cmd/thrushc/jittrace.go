package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/thrushlang/thrushc/internal/driver"
)

// runJITTrace opens an interactive, liner-backed reader over the units
// `-jit -print jit-trace` just compiled. It is not a JIT execution
// engine — nothing is run, and under `-jit` the external link step is
// skipped — it is a navigation aid over the LLVM IR text each unit
// already produced, so a developer chasing a `-jit` run can jump
// straight to a function's IR without re-invoking the compiler.
// Grounded on the teacher's internal/repl/repl.go Start loop: liner
// setup, a history file under os.TempDir, and command completion are
// kept; the multi-line continuation heuristic is dropped since no
// jit-trace command spans lines.
func runJITTrace(units []*driver.Unit, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".thrushc_jittrace_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f) // history is a convenience, not required.
		f.Close()
	}

	line.SetCompleter(func(s string) (c []string) {
		for _, cmd := range []string{":list", ":dump", ":quit"} {
			if strings.HasPrefix(cmd, s) {
				c = append(c, cmd)
			}
		}
		return
	})

	fmt.Fprintln(out, bold("jit-trace"), "- :list units, :dump <unit> for its IR, :quit to stop")

loop:
	for {
		input, err := line.Prompt("jit-trace> ")
		if err == io.EOF {
			fmt.Fprintln(out)
			break loop
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch {
		case input == ":quit" || input == ":q":
			break loop
		case input == ":list":
			for _, u := range units {
				fmt.Fprintln(out, u.Path)
			}
		case strings.HasPrefix(input, ":dump"):
			dumpUnitIR(out, units, strings.TrimSpace(strings.TrimPrefix(input, ":dump")))
		default:
			fmt.Fprintf(out, "unknown command %q (try :list, :dump <unit>, :quit)\n", input)
		}
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

// dumpUnitIR prints one unit's rendered LLVM IR, matched by full path or
// base filename, so `:dump add.thrush` works regardless of how the file
// was passed on the command line.
func dumpUnitIR(out io.Writer, units []*driver.Unit, name string) {
	for _, u := range units {
		if name == "" || u.Path == name || filepath.Base(u.Path) == name {
			fmt.Fprintln(out, u.IR)
			return
		}
	}
	fmt.Fprintf(out, "no compiled unit named %q\n", name)
}

// hasPrint reports whether `-print <what>` was requested.
func hasPrint(print []string, what string) bool {
	for _, p := range print {
		if p == what {
			return true
		}
	}
	return false
}
