package metadata

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/codegen"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/options"
	"github.com/thrushlang/thrushc/internal/parser"
	"github.com/thrushlang/thrushc/internal/symtab"
)

func moduleFromSource(t *testing.T, src string) *ir.Module {
	t.Helper()
	lx, err := lexer.New("t.trh", []byte(lexer.Normalize([]byte(src))))
	require.NoError(t, err)
	toks, lexIssues, err := lx.Lex()
	require.NoError(t, err)
	require.Empty(t, lexIssues)

	file, pissues := parser.ParseFile("t.trh", toks, symtab.New())
	require.Empty(t, pissues)

	mod, cissues := codegen.Generate(file)
	require.Empty(t, cissues)
	return mod
}

func TestSetupAddsModuleFlagsAndCompilerInfo(t *testing.T) {
	mod := moduleFromSource(t, `fn main() -> s32 { return 0; }`)

	opts := options.Default()
	Setup(mod, opts, TargetInfo{Arch: "x86_64", HasPosixThread: true})

	out := mod.String()
	require.Contains(t, out, "llvm.module.flags")
	require.Contains(t, out, "llvm.ident")
	require.Contains(t, out, compilerID)
	require.Contains(t, out, "build")
}

func TestSetupAttachesTargetCPUToFunctions(t *testing.T) {
	mod := moduleFromSource(t, `fn main() -> s32 { return 0; }`)

	opts := options.Default()
	opts.CPU = "skylake"
	Setup(mod, opts, TargetInfo{})

	fn := mod.Funcs[0]
	require.Contains(t, fn.FuncAttrs, ir.AttrPair{Key: "target-cpu", Value: "skylake"})
	require.Contains(t, fn.FuncAttrs, ir.AttrPair{Key: "tune-cpu", Value: "skylake"})
}

func TestSetupOmitsFramePointerWhenRequested(t *testing.T) {
	mod := moduleFromSource(t, `fn main() -> s32 { return 0; }`)

	opts := options.Default()
	opts.OmitFramePointer = true
	Setup(mod, opts, TargetInfo{})

	fn := mod.Funcs[0]
	require.NotContains(t, fn.FuncAttrs, ir.AttrPair{Key: "frame-pointer", Value: "all"})
}

func TestRelocReprAndCodeModelRepr(t *testing.T) {
	require.Equal(t, int64(0), relocRepr(options.RelocStatic))
	require.Equal(t, int64(1), relocRepr(options.RelocPIC))
	require.Equal(t, int64(0), codeModelRepr(options.CodeModelSmall))
	require.Equal(t, int64(4), codeModelRepr(options.CodeModelLarge))
}
