// Package span locates constructs in the original source text.
package span

import "fmt"

// Span is a byte range on a single source line. Every AST node and every
// diagnostic carries one so the diagnostician can render a caret under the
// offending text.
type Span struct {
	File      string
	Line      int
	ByteStart int
	ByteEnd   int
}

// Zero is the span used by synthetic nodes that have no source origin.
var Zero = Span{}

func New(file string, line, start, end int) Span {
	return Span{File: file, Line: line, ByteStart: start, ByteEnd: end}
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%d:%d-%d", s.File, s.Line, s.ByteStart, s.ByteEnd)
}

// Merge produces a span covering both a and b. Both must belong to the same
// file and line; Merge does not attempt to join multi-line spans because
// the diagnostician only ever renders a single source line.
func Merge(a, b Span) Span {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}
	start, end := a.ByteStart, a.ByteEnd
	if b.ByteStart < start {
		start = b.ByteStart
	}
	if b.ByteEnd > end {
		end = b.ByteEnd
	}
	return Span{File: a.File, Line: a.Line, ByteStart: start, ByteEnd: end}
}
