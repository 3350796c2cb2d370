package optimizer

import (
	"testing"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
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

func TestRunAddsInlineHintToSmallFunctions(t *testing.T) {
	mod := moduleFromSource(t, `fn small() -> s32 { return 1; }`)
	opts := options.Default()

	Run(mod, opts)

	fn := mod.Funcs[len(mod.Funcs)-1]
	require.Contains(t, fn.FuncAttrs, enum.FuncAttrInlineHint)
	require.Contains(t, fn.FuncAttrs, enum.FuncAttrNoRecurse)
}

func TestRunSkippedAtHighOptLevel(t *testing.T) {
	mod := moduleFromSource(t, `fn small() -> s32 { return 1; }`)
	opts := options.Default()
	opts.Opt = options.O3

	Run(mod, opts)

	fn := mod.Funcs[len(mod.Funcs)-1]
	require.NotContains(t, fn.FuncAttrs, enum.FuncAttrInlineHint)
}

func TestRunAttachesSanitizer(t *testing.T) {
	mod := moduleFromSource(t, `fn small() -> s32 { return 1; }`)
	opts := options.Default()
	opts.Sanitizer = options.SanitizeAddress

	Run(mod, opts)

	fn := mod.Funcs[len(mod.Funcs)-1]
	require.Contains(t, fn.FuncAttrs, enum.FuncAttrSanitizeAddress)
}

func TestSelectPipelinePrefersCustomPasses(t *testing.T) {
	opts := options.Default()
	opts.Opt = options.O2
	opts.CustomPasses = "my-pipeline"
	require.Equal(t, "my-pipeline", SelectPipeline(opts))

	opts.CustomPasses = ""
	require.Equal(t, "default<O2>", SelectPipeline(opts))
}

func TestSelfRecursiveFunctionIsNotMarkedNoRecurse(t *testing.T) {
	mod := moduleFromSource(t, `
		fn fact(n: s32) -> s32 {
			if n < 2 {
				return 1;
			}
			return n * fact(n - 1);
		}
	`)
	opts := options.Default()

	Run(mod, opts)

	fn := mod.Funcs[len(mod.Funcs)-1]
	require.NotContains(t, fn.FuncAttrs, enum.FuncAttrNoRecurse)
}
