package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/driver"
)

func TestHasPrint(t *testing.T) {
	require.True(t, hasPrint([]string{"ast", "jit-trace"}, "jit-trace"))
	require.False(t, hasPrint([]string{"ast"}, "jit-trace"))
	require.False(t, hasPrint(nil, "jit-trace"))
}

func TestDumpUnitIRMatchesByBaseName(t *testing.T) {
	units := []*driver.Unit{
		{Path: "examples/add.thrush", IR: "define i32 @add() {\n}\n"},
	}
	var buf bytes.Buffer
	dumpUnitIR(&buf, units, "add.thrush")
	require.Contains(t, buf.String(), "define i32 @add()")
}

func TestDumpUnitIRReportsUnknownUnit(t *testing.T) {
	var buf bytes.Buffer
	dumpUnitIR(&buf, nil, "missing.thrush")
	require.Contains(t, buf.String(), "no compiled unit named")
}
