package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLintFileWarnsOnUnusedLocal(t *testing.T) {
	file := parse(t, `
fn main() -> s32 {
	local unused: s32 = 1;
	return 0;
}
`)
	issues := LintFile(file)
	require.Contains(t, codes(issues), "LNT001")
}

func TestLintFileWarnsOnUnusedParameter(t *testing.T) {
	file := parse(t, `
fn add(a: s32, b: s32) -> s32 {
	return a;
}
`)
	issues := LintFile(file)
	require.Contains(t, codes(issues), "LNT002")
}

func TestLintFileDoesNotWarnOnUsedLocal(t *testing.T) {
	file := parse(t, `
fn main() -> s32 {
	local x: s32 = 1;
	return x;
}
`)
	issues := LintFile(file)
	require.Empty(t, issues)
}

func TestLintFileSkipsPublicGlobals(t *testing.T) {
	file := parse(t, `
@public
fn helper() -> s32 {
	return 0;
}
`)
	issues := LintFile(file)
	require.Empty(t, issues)
}

func TestLintFileWarnsOnUnusedPrivateFunction(t *testing.T) {
	file := parse(t, `
fn helper() -> s32 {
	return 0;
}
fn main() -> s32 {
	return 0;
}
`)
	issues := LintFile(file)
	require.Contains(t, codes(issues), "LNT001")
}
