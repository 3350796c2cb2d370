package codegen

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
)

// zeroValue returns t's zero constant, used for implicit `ret`s in
// void-unreachable paths and for static/const initializers before a
// real value is known.
func zeroValue(t irtypes.Type) constant.Constant {
	switch v := t.(type) {
	case *irtypes.IntType:
		return constant.NewInt(v, 0)
	case *irtypes.FloatType:
		return constant.NewFloat(v, 0)
	case *irtypes.PointerType:
		return constant.NewNull(v)
	case *irtypes.ArrayType:
		return constant.NewZeroInitializer(v)
	case *irtypes.StructType:
		return constant.NewZeroInitializer(v)
	default:
		return constant.NewZeroInitializer(t)
	}
}
