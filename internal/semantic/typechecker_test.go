package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckFileAcceptsMatchingReturnType(t *testing.T) {
	file := parse(t, `fn main() -> s32 { return 0; }`)
	require.Empty(t, CheckFile(file))
}

func TestCheckFileRejectsMismatchedReturnType(t *testing.T) {
	file := parse(t, `fn broken() -> bool { return 1; }`)
	issues := CheckFile(file)
	require.NotEmpty(t, issues)
	require.Equal(t, "TY003", issues[0].Code)
}

func TestCheckFileAllowsNarrowerIntegerWideningIntoWiderReturn(t *testing.T) {
	file := parse(t, `
fn widen(a: s16) -> s32 {
	return a;
}
`)
	require.Empty(t, CheckFile(file))
}

func TestCheckFileRejectsWrongArgumentCount(t *testing.T) {
	file := parse(t, `
fn add(a: s32, b: s32) -> s32 {
	return a;
}
fn main() -> s32 {
	return add(1);
}
`)
	issues := CheckFile(file)
	require.Contains(t, codes(issues), "TY005")
}

func TestCheckFileRequiresBoolCondition(t *testing.T) {
	file := parse(t, `
fn main() -> s32 {
	if 1 {
		return 0;
	}
	return 1;
}
`)
	issues := CheckFile(file)
	require.Contains(t, codes(issues), "TY002")
}

func TestCheckFileRejectsConstructorWithNonVoidReturn(t *testing.T) {
	file := parse(t, `
@constructor
fn init() -> s32 {
	return 0;
}
`)
	issues := CheckFile(file)
	require.Contains(t, codes(issues), "ATTR004")
}

func TestCheckFileAllowsVoidConstructor(t *testing.T) {
	file := parse(t, `
@constructor
fn init() -> void {
	return;
}
`)
	require.Empty(t, CheckFile(file))
}

func TestCheckFileAllowsNarrowerIntegerLiteralIntoU8Local(t *testing.T) {
	file := parse(t, `
fn main() -> s32 {
	local x: u8 = 5;
	return 0;
}
`)
	require.Empty(t, CheckFile(file))
}

func TestCheckFileAllowsLiteralArgumentIntoU32Param(t *testing.T) {
	file := parse(t, `
fn f(a: u32) -> void {
	return;
}
fn main() -> s32 {
	f(5);
	return 0;
}
`)
	require.Empty(t, CheckFile(file))
}

func TestCheckFileChecksStructFieldTypes(t *testing.T) {
	file := parse(t, `
struct Point {
	x: s32,
	y: s32,
}
fn main() -> s32 {
	local p: Point = Point { x: 1, y: 2 };
	return 0;
}
`)
	require.Empty(t, CheckFile(file))
}
