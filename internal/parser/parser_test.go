package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/symtab"
)

func parse(t *testing.T, src string) (*ast.File, []string) {
	t.Helper()
	lx, err := lexer.New("t.trh", []byte(lexer.Normalize([]byte(src))))
	require.NoError(t, err)
	toks, lexIssues, err := lx.Lex()
	require.NoError(t, err)
	require.Empty(t, lexIssues)

	file, issues := ParseFile("t.trh", toks, symtab.New())
	msgs := make([]string, len(issues))
	for i, iss := range issues {
		msgs[i] = iss.Message
	}
	return file, msgs
}

func TestParsesSimpleFunction(t *testing.T) {
	file, issues := parse(t, `fn main() -> s32 { return 0; }`)
	require.Empty(t, issues)
	require.Len(t, file.Decls, 1)
	fn, ok := file.Decls[0].(*ast.Function)
	require.True(t, ok)
	require.Equal(t, "main", fn.Name)
	require.True(t, fn.IsEntry)
	require.Len(t, fn.Body.Stmts, 1)
}

func TestMutualRecursionResolvesAcrossDeclarationOrder(t *testing.T) {
	file, issues := parse(t, `
		fn is_even(n: s32) -> bool { return is_odd(n); }
		fn is_odd(n: s32) -> bool { return is_even(n); }
	`)
	require.Empty(t, issues)
	require.Len(t, file.Decls, 2)
}

func TestBinaryPrecedence(t *testing.T) {
	file, issues := parse(t, `fn f() -> s32 { return 1 + 2 * 3; }`)
	require.Empty(t, issues)
	fn := file.Decls[0].(*ast.Function)
	ret := fn.Body.Stmts[0].(*ast.Return)
	bin := ret.Value.(*ast.BinaryOp)
	require.Equal(t, "+", bin.Op)
	rhs := bin.Right.(*ast.BinaryOp)
	require.Equal(t, "*", rhs.Op)
}

func TestIfElifElse(t *testing.T) {
	file, issues := parse(t, `
		fn f(x: s32) -> s32 {
			if x > 0 {
				return 1;
			} elif x < 0 {
				return -1;
			} else {
				return 0;
			}
		}
	`)
	require.Empty(t, issues)
	fn := file.Decls[0].(*ast.Function)
	ifStmt := fn.Body.Stmts[0].(*ast.If)
	require.Len(t, ifStmt.Elifs, 1)
	require.NotNil(t, ifStmt.Else)
}

func TestStructConstructor(t *testing.T) {
	file, issues := parse(t, `
		struct Point { x: s32, y: s32 }
		fn f() -> void {
			local p = Point { x: 1, y: 2 };
			return;
		}
	`)
	require.Empty(t, issues)
	fn := file.Decls[1].(*ast.Function)
	local := fn.Body.Stmts[0].(*ast.Local)
	ctor := local.Value.(*ast.Constructor)
	require.Equal(t, "Point", ctor.StructName)
	require.Len(t, ctor.Fields, 2)
}

func TestBreakOutsideLoopErrors(t *testing.T) {
	_, issues := parse(t, `fn f() -> void { break; }`)
	require.NotEmpty(t, issues)
}

func TestWhileLoopParsesBody(t *testing.T) {
	file, issues := parse(t, `
		fn f() -> void {
			while true {
				break;
			}
		}
	`)
	require.Empty(t, issues)
	fn := file.Decls[0].(*ast.Function)
	w := fn.Body.Stmts[0].(*ast.While)
	require.IsType(t, &ast.Break{}, w.Body.Stmts[0])
}

func TestIntrinsicDeclaresWithoutBody(t *testing.T) {
	file, issues := parse(t, `fn puts(s: ptr) -> s32;`)
	require.Empty(t, issues)
	_, ok := file.Decls[0].(*ast.Intrinsic)
	require.True(t, ok)
}
