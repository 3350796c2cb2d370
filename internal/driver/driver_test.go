package driver

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/options"
)

func writeUnit(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "main.thrush")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestCompileFileSucceedsAndProducesIR(t *testing.T) {
	path := writeUnit(t, `fn main() -> s32 { return 0; }`)
	opts := options.Default()
	opts.BuildDir = filepath.Join(filepath.Dir(path), "build")
	opts.Emit = options.EmitLLVMIR
	var stderr bytes.Buffer
	log := diagnostics.NewLogger(&stderr, true)

	u, ok := CompileFile(path, opts, log, &stderr)
	require.True(t, ok, stderr.String())
	require.Contains(t, u.IR, "define")
	require.Contains(t, u.IR, "llvm.module.flags")
}

func TestCompileFileGatesOnParseError(t *testing.T) {
	path := writeUnit(t, `fn main( -> s32 { return 0; }`)
	opts := options.Default()
	opts.Emit = options.EmitLLVMIR
	var stderr bytes.Buffer
	log := diagnostics.NewLogger(&stderr, true)

	u, ok := CompileFile(path, opts, log, &stderr)
	require.False(t, ok)
	require.Empty(t, u.IR)
}

func TestCompileFileGatesOnAttributeConflict(t *testing.T) {
	path := writeUnit(t, "@constructor @destructor\nfn init() -> void { return; }")
	opts := options.Default()
	opts.Emit = options.EmitLLVMIR
	var stderr bytes.Buffer
	log := diagnostics.NewLogger(&stderr, true)

	u, ok := CompileFile(path, opts, log, &stderr)
	require.False(t, ok)
	require.True(t, u.Diag.HasErrors())
}

func TestCompileFileMissingFile(t *testing.T) {
	opts := options.Default()
	var stderr bytes.Buffer
	log := diagnostics.NewLogger(&stderr, true)

	u, ok := CompileFile(filepath.Join(t.TempDir(), "missing.thrush"), opts, log, &stderr)
	require.False(t, ok)
	require.Nil(t, u)
}

func TestResolveTargetDetectsDarwin(t *testing.T) {
	opts := options.Default()
	opts.Triple = "x86_64-apple-darwin"
	tgt := resolveTarget(opts)
	require.True(t, tgt.IsDarwin)
	require.True(t, tgt.HasPosixThread)
}
