package types

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestWideningIsOneDirectional(t *testing.T) {
	require.True(t, WidensTo(Int{Kind: S16}, Int{Kind: S32}))
	require.False(t, WidensTo(Int{Kind: S32}, Int{Kind: S16}))
}

func TestFloatWidening(t *testing.T) {
	require.True(t, WidensTo(Float{Kind: F32}, Float{Kind: F64}))
	require.False(t, WidensTo(Float{Kind: F64}, Float{Kind: F32}))
}

func TestConstIsIdempotent(t *testing.T) {
	inner := NewConst(Int{Kind: S32})
	doubled := NewConst(inner)
	require.Equal(t, inner, doubled)
}

func TestConstTransparentForEquality(t *testing.T) {
	require.True(t, Equal(NewConst(Int{Kind: S32}), Int{Kind: S32}))
}

func TestStructEqualityComparesFieldsAndModifiers(t *testing.T) {
	a := Struct{Name: "P", Fields: []Field{{"a", Int{S32}}, {"b", Int{S32}}}}
	b := Struct{Name: "P", Fields: []Field{{"a", Int{S32}}, {"b", Int{S64}}}}
	require.False(t, Equal(a, b))

	c := a
	c.Modifiers = StructModifiers{Packed: true}
	require.False(t, Equal(a, c))
}

func TestOpaquePointerEquality(t *testing.T) {
	require.True(t, Equal(Ptr{}, Ptr{}))
	require.False(t, Equal(Ptr{}, Ptr{Inner: Int{S8}}))
}

func TestFixedArrayRequiresSameSizeAndElement(t *testing.T) {
	require.True(t, Equal(FixedArray{Element: Int{S32}, Size: 4}, FixedArray{Element: Int{S32}, Size: 4}))
	require.False(t, Equal(FixedArray{Element: Int{S32}, Size: 4}, FixedArray{Element: Int{S32}, Size: 5}))
}

func TestGoCmpOnTypeTrees(t *testing.T) {
	a := Fn{Params: []Type{Int{S32}, Int{S32}}, Return: Int{S32}}
	b := Fn{Params: []Type{Int{S32}, Int{S32}}, Return: Int{S32}}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("unexpected diff (-want +got):\n%s", diff)
	}
}

func TestVoidOnlyEqualsVoid(t *testing.T) {
	require.True(t, IsVoid(Void{}))
	require.False(t, IsVoid(Int{S32}))
}
