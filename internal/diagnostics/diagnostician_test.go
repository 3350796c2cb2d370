package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/span"
)

func TestHasErrorsCountsErrorsAndBugsNotWarnings(t *testing.T) {
	d := New("t.trh", []byte("line one\nline two\n"))
	require.False(t, d.HasErrors())

	d.Add(NewWarning("LNT001", "unused variable", span.Span{File: "t.trh", Line: 1}))
	require.False(t, d.HasErrors())

	d.Add(NewError("TY001", "type mismatch", span.Span{File: "t.trh", Line: 2}))
	require.True(t, d.HasErrors())
}

func TestHasBugs(t *testing.T) {
	d := New("t.trh", []byte("x\n"))
	d.Add(NewBug("CODEGEN000", "unreachable", span.Span{}, "codegen.go", 42))
	require.True(t, d.HasBugs())
	require.True(t, d.HasErrors())
}

func TestFlushClearsBufferAndRendersSource(t *testing.T) {
	d := New("t.trh", []byte("let x = 1\n"))
	d.Add(NewError("TY001", "type mismatch", span.Span{File: "t.trh", Line: 1, ByteStart: 4, ByteEnd: 5}))

	var buf bytes.Buffer
	d.Flush(&buf)

	out := buf.String()
	require.Contains(t, out, "TY001")
	require.Contains(t, out, "type mismatch")
	require.Contains(t, out, "let x = 1")
	require.Empty(t, d.Issues())
}

func TestAddAll(t *testing.T) {
	d := New("t.trh", nil)
	d.AddAll([]Issue{
		NewError("TY001", "a", span.Span{}),
		NewWarning("LNT002", "b", span.Span{}),
	})
	require.Len(t, d.Issues(), 2)
}
