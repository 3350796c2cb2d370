package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/parser"
	"github.com/thrushlang/thrushc/internal/symtab"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	lx, err := lexer.New("t.trh", []byte(lexer.Normalize([]byte(src))))
	require.NoError(t, err)
	toks, lexIssues, err := lx.Lex()
	require.NoError(t, err)
	require.Empty(t, lexIssues)

	file, pissues := parser.ParseFile("t.trh", toks, symtab.New())
	require.Empty(t, pissues)

	mod, cissues := Generate(file)
	require.Empty(t, cissues)
	return mod.String()
}

func TestGenerateSimpleFunction(t *testing.T) {
	ir := generate(t, `fn main() -> s32 { return 0; }`)
	require.Contains(t, ir, "define i32 @main()")
	require.Contains(t, ir, "ret i32 0")
}

func TestGenerateBinaryArithmetic(t *testing.T) {
	ir := generate(t, `fn add(a: s32, b: s32) -> s32 { return a + b; }`)
	require.Contains(t, ir, "define i32 @add(i32 %a, i32 %b)")
	require.Contains(t, ir, "add i32")
}

func TestGenerateMutualRecursionForwardDeclares(t *testing.T) {
	ir := generate(t, `
		fn is_even(n: s32) -> bool { return is_odd(n); }
		fn is_odd(n: s32) -> bool { return is_even(n); }
	`)
	require.Contains(t, ir, "@is_even")
	require.Contains(t, ir, "@is_odd")
	require.Contains(t, ir, "call i1 @is_odd")
}

func TestGenerateIfElseBranches(t *testing.T) {
	ir := generate(t, `
		fn abs(n: s32) -> s32 {
			if n < 0 {
				return -n;
			} else {
				return n;
			}
		}
	`)
	require.Contains(t, ir, "br i1")
	require.Contains(t, ir, "ret i32")
}

func TestGenerateWhileLoop(t *testing.T) {
	ir := generate(t, `
		fn count(n: s32) -> s32 {
			local i: s32 = 0;
			while i < n {
				i++;
			}
			return i;
		}
	`)
	require.Contains(t, ir, "br label")
}

func TestGenerateExternFunctionHasNoBody(t *testing.T) {
	ir := generate(t, `@extern fn puts(s: ptr) -> s32;`)
	require.Contains(t, ir, "declare i32 @puts(ptr)")
	require.NotContains(t, ir, "define i32 @puts")
}

func TestModuleForwardDeclaresHeapAllocator(t *testing.T) {
	ir := generate(t, `fn main() -> s32 { return 0; }`)
	require.Contains(t, ir, "declare ptr @malloc(i64")
	require.Contains(t, ir, "declare void @free(ptr")
}

func TestHeapAllocCallsMallocAndFreesAtScopeExit(t *testing.T) {
	ir := generate(t, `
		fn use_heap() -> s32 {
			local p: ptr<s32> = new heap s32;
			write p, 7;
			return 0;
		}
	`)
	require.Contains(t, ir, "call ptr @malloc")
	require.Contains(t, ir, "call void @free")
}

func TestHeapLocalFreedOnNormalBlockExit(t *testing.T) {
	ir := generate(t, `
		fn scoped() -> s32 {
			if true {
				local p: ptr<s32> = new heap s32;
				write p, 1;
			}
			return 0;
		}
	`)
	require.Contains(t, ir, "call ptr @malloc")
	require.Contains(t, ir, "call void @free")
}

func TestStackAllocDoesNotCallMalloc(t *testing.T) {
	ir := generate(t, `
		fn use_stack() -> s32 {
			local p: ptr<s32> = new s32;
			write p, 1;
			return 0;
		}
	`)
	require.NotContains(t, ir, "call ptr @malloc")
}

func TestConstructorWithPointerFieldUsesHeapAllocator(t *testing.T) {
	ir := generate(t, `
		struct Node {
			value: s32,
			next: ptr<s32>,
		}
		fn make() -> s32 {
			local n: Node = Node { value: 1, next: new heap s32 };
			return 0;
		}
	`)
	require.Contains(t, ir, "call ptr @malloc")
}
