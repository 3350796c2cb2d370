package symtab

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/types"
)

func TestGlobalFunctionsAreFlat(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Declare(NSFunction, &Symbol{Name: "main", Type: types.Fn{Return: types.Void{}}}))
	err := tab.Declare(NSFunction, &Symbol{Name: "main", Type: types.Fn{Return: types.Void{}}})
	require.Error(t, err)
	var already *ErrAlreadyDeclared
	require.ErrorAs(t, err, &already)
}

func TestLocalShadowsGlobalWithoutOverwriting(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Declare(NSStatic, &Symbol{Name: "counter", Type: types.Int{Kind: types.S32}}))

	tab.BeginScope()
	require.NoError(t, tab.Declare(NSLocal, &Symbol{Name: "counter", Type: types.Int{Kind: types.S64}}))

	r := tab.Lookup("counter")
	require.True(t, r.Found)
	require.Equal(t, NSLocal, r.Namespace)
	require.Equal(t, types.Int{Kind: types.S64}, r.Symbol.Type)

	tab.EndScope()
	r = tab.Lookup("counter")
	require.True(t, r.Found)
	require.Equal(t, NSStatic, r.Namespace)
	require.Equal(t, types.Int{Kind: types.S32}, r.Symbol.Type)
}

func TestInnermostScopeWinsOnLookup(t *testing.T) {
	tab := New()
	tab.BeginScope()
	require.NoError(t, tab.Declare(NSLocal, &Symbol{Name: "x", Type: types.Int{Kind: types.S8}}))
	tab.BeginScope()
	require.NoError(t, tab.Declare(NSLocal, &Symbol{Name: "x", Type: types.Int{Kind: types.S64}}))

	r := tab.Lookup("x")
	require.True(t, r.Found)
	require.Equal(t, types.Int{Kind: types.S64}, r.Symbol.Type)

	tab.EndScope()
	r = tab.Lookup("x")
	require.Equal(t, types.Int{Kind: types.S8}, r.Symbol.Type)
}

func TestDuplicateLocalInSameScopeErrors(t *testing.T) {
	tab := New()
	tab.BeginScope()
	require.NoError(t, tab.Declare(NSLocal, &Symbol{Name: "x", Type: types.Int{Kind: types.S8}}))
	err := tab.Declare(NSLocal, &Symbol{Name: "x", Type: types.Int{Kind: types.S8}})
	require.Error(t, err)
}

func TestParametersAreFlatPerFunction(t *testing.T) {
	tab := New()
	tab.BeginParams()
	require.NoError(t, tab.Declare(NSParameter, &Symbol{Name: "a", Type: types.Int{Kind: types.S32}}))
	r := tab.Lookup("a")
	require.True(t, r.Found)
	require.Equal(t, NSParameter, r.Namespace)

	tab.EndParams()
	r = tab.Lookup("a")
	require.False(t, r.Found)
}

func TestStructsAreGlobalAndScoped(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Declare(NSStruct, &Symbol{Name: "Point", Type: types.Struct{Name: "Point"}}))

	tab.BeginScope()
	require.NoError(t, tab.Declare(NSStruct, &Symbol{Name: "Local", Type: types.Struct{Name: "Local"}}))
	require.True(t, tab.Lookup("Point").Found)
	require.True(t, tab.Lookup("Local").Found)
	tab.EndScope()

	require.True(t, tab.Lookup("Point").Found)
	require.False(t, tab.Lookup("Local").Found)
}

func TestUnknownNameNotFound(t *testing.T) {
	tab := New()
	require.False(t, tab.Lookup("nope").Found)
}

func TestParameterShadowsLocalAndGlobal(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Declare(NSStatic, &Symbol{Name: "v", Type: types.Int{Kind: types.S8}}))
	tab.BeginScope()
	require.NoError(t, tab.Declare(NSLocal, &Symbol{Name: "v", Type: types.Int{Kind: types.S16}}))
	tab.BeginParams()
	require.NoError(t, tab.Declare(NSParameter, &Symbol{Name: "v", Type: types.Int{Kind: types.S32}}))

	r := tab.Lookup("v")
	require.Equal(t, NSParameter, r.Namespace)
}
