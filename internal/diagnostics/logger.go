package diagnostics

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	phaseStyle = color.New(color.FgBlue, color.Bold).SprintFunc()
	okStyle    = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// Logger prints informational progress lines (phase boundaries, a
// per-file completion line, and titled Dump bodies). It never sees Issues
// — those go through Diagnostician — so it can be silenced independently
// through NewLogger's silent argument.
type Logger struct {
	w      io.Writer
	silent bool
}

func NewLogger(w io.Writer, silent bool) *Logger {
	return &Logger{w: w, silent: silent}
}

func (l *Logger) Phase(name string) {
	if l.silent {
		return
	}
	fmt.Fprintf(l.w, "%s %s\n", phaseStyle("::"), name)
}

func (l *Logger) Done(name string) {
	if l.silent {
		return
	}
	fmt.Fprintf(l.w, "%s %s\n", okStyle("==>"), name)
}

func (l *Logger) Dump(title, body string) {
	if l.silent {
		return
	}
	fmt.Fprintf(l.w, "%s %s\n%s\n", phaseStyle("--"), title, body)
}
