package diagnostics

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	errorBanner   = color.New(color.FgRed, color.Bold).SprintFunc()
	warnBanner    = color.New(color.FgYellow, color.Bold).SprintFunc()
	bugBanner     = color.New(color.FgMagenta, color.Bold).SprintFunc()
	hintStyle     = color.New(color.FgCyan).SprintFunc()
	caretStyle    = color.New(color.FgRed, color.Bold).SprintFunc()
	codeStyle     = color.New(color.Faint).SprintFunc()
)

// Diagnostician is the shared collaborator threaded through every phase
// (spec.md §2, §7). It buffers Issues, renders them against the original
// source text, and exposes an error flag the driver consults between
// phases. It is not safe for concurrent use — a single Diagnostician
// belongs to one compilation unit on one goroutine, matching §5's
// single-threaded-per-unit model.
type Diagnostician struct {
	file    string
	lines   []string
	issues  []Issue
	nErrors int
	nBugs   int
}

func New(file string, source []byte) *Diagnostician {
	return &Diagnostician{
		file:  file,
		lines: strings.Split(string(source), "\n"),
	}
}

func (d *Diagnostician) Add(i Issue) {
	d.issues = append(d.issues, i)
	switch i.Kind {
	case Error:
		d.nErrors++
	case FrontEndBug:
		d.nBugs++
	}
}

func (d *Diagnostician) AddAll(issues []Issue) {
	for _, i := range issues {
		d.Add(i)
	}
}

// HasErrors reports whether any Error or FrontEndBug was recorded; the
// driver uses this to decide whether to skip subsequent phases.
func (d *Diagnostician) HasErrors() bool {
	return d.nErrors > 0 || d.nBugs > 0
}

func (d *Diagnostician) HasBugs() bool {
	return d.nBugs > 0
}

func (d *Diagnostician) Issues() []Issue {
	return d.issues
}

// Flush prints every buffered issue grouped by kind (front-end bugs
// first, then errors, then warnings, each group in encounter order), and clears the
// buffer so a later phase's issues aren't re-printed.
func (d *Diagnostician) Flush(w io.Writer) {
	var bugs, errs, warns []Issue
	for _, i := range d.issues {
		switch i.Kind {
		case FrontEndBug:
			bugs = append(bugs, i)
		case Error:
			errs = append(errs, i)
		default:
			warns = append(warns, i)
		}
	}
	for _, i := range bugs {
		d.render(w, i)
	}
	for _, i := range errs {
		d.render(w, i)
	}
	for _, i := range warns {
		d.render(w, i)
	}
	d.issues = nil
}

func (d *Diagnostician) render(w io.Writer, i Issue) {
	var banner string
	switch i.Kind {
	case Error:
		banner = errorBanner("error")
	case Warning:
		banner = warnBanner("warning")
	case FrontEndBug:
		banner = bugBanner("front-end bug")
	}

	fmt.Fprintf(w, "%s[%s]: %s\n", banner, codeStyle(i.Code), i.Message)
	if i.Kind == FrontEndBug {
		fmt.Fprintf(w, "  at %s:%d\n", i.File, i.Line)
	}
	if !i.Span.IsZero() {
		fmt.Fprintf(w, "  --> %s:%d\n", i.Span.File, i.Span.Line)
		if i.Span.Line-1 >= 0 && i.Span.Line-1 < len(d.lines) {
			srcLine := d.lines[i.Span.Line-1]
			fmt.Fprintf(w, "   | %s\n", srcLine)
			caretLen := i.Span.ByteEnd - i.Span.ByteStart
			if caretLen < 1 {
				caretLen = 1
			}
			pad := i.Span.ByteStart
			if pad < 0 {
				pad = 0
			}
			if pad > len(srcLine) {
				pad = len(srcLine)
			}
			fmt.Fprintf(w, "   | %s%s\n", strings.Repeat(" ", pad), caretStyle(strings.Repeat("^", caretLen)))
		}
	}
	if i.Hint != "" {
		fmt.Fprintf(w, "   = %s: %s\n", hintStyle("hint"), i.Hint)
	}
}
