package codegen

import (
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/thrushlang/thrushc/internal/types"
)

// llvmType maps a Thrush type to its LLVM IR representation, the
// "helper that maps Thrush types to LLVM types" spec.md §4.6 names.
func (c *Context) llvmType(t types.Type) irtypes.Type {
	switch v := types.Unwrap(c.resolveNamed(t)).(type) {
	case types.Int:
		return intType(v.Kind)
	case types.Float:
		if v.Kind == types.F32 {
			return irtypes.Float
		}
		return irtypes.Double
	case types.Bool:
		return irtypes.I1
	case types.Char:
		return irtypes.I8
	case types.Void:
		return irtypes.Void
	case types.Ptr:
		if v.Inner == nil {
			return irtypes.NewPointer(irtypes.I8)
		}
		return irtypes.NewPointer(c.llvmType(v.Inner))
	case types.Addr:
		return irtypes.NewPointer(irtypes.I8)
	case types.FixedArray:
		return irtypes.NewArray(uint64(v.Size), c.llvmType(v.Element))
	case types.Array:
		return irtypes.NewStruct(irtypes.NewPointer(c.llvmType(v.Base)), irtypes.I64)
	case types.Struct:
		fields := make([]irtypes.Type, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = c.llvmType(f.Type)
		}
		return irtypes.NewStruct(fields...)
	case types.Fn:
		params := make([]irtypes.Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = c.llvmType(p)
		}
		return irtypes.NewPointer(irtypes.NewFunc(c.llvmType(v.Return), params...))
	case types.Named:
		// Unresolved even after struct lookup: an enum or custom-type
		// alias the generator doesn't model structurally, represented
		// as an opaque pointer-sized integer.
		return irtypes.I64
	default:
		return irtypes.Void
	}
}

func intType(k types.IntKind) *irtypes.IntType {
	switch k {
	case types.S8, types.U8:
		return irtypes.I8
	case types.S16, types.U16:
		return irtypes.I16
	case types.S32, types.U32:
		return irtypes.I32
	case types.S64, types.U64, types.SSize, types.USize:
		return irtypes.I64
	default:
		return irtypes.I32
	}
}

func isSignedLLVM(t types.Type) bool {
	i, ok := types.Unwrap(t).(types.Int)
	return ok && i.Kind.Signed()
}
