package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/parser"
	"github.com/thrushlang/thrushc/internal/symtab"
)

func parse(t *testing.T, src string) *ast.File {
	t.Helper()
	lx, err := lexer.New("t.trh", lexer.Normalize([]byte(src)))
	require.NoError(t, err)
	toks, lexIssues, err := lx.Lex()
	require.NoError(t, err)
	require.Empty(t, lexIssues)

	file, issues := parser.ParseFile("t.trh", toks, symtab.New())
	require.Empty(t, codes(issues))
	return file
}

func codes(issues []diagnostics.Issue) []string {
	out := make([]string, len(issues))
	for i, iss := range issues {
		out[i] = iss.Code
	}
	return out
}
