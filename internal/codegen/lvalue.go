package codegen

import (
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/types"
)

// addressOf computes e's storage address without loading through it,
// for the aggregate-access forms (Index, Property) that need a pointer
// operand for GetElementPtr rather than the value a plain compile would
// produce. ok is false when e has no addressable storage (e.g. a call
// result), in which case callers fall back to operating on the value.
func (c *Context) addressOf(e ast.Expr) (value.Value, types.Type, bool) {
	switch n := e.(type) {
	case *ast.Reference:
		s := c.lookup(n.Name)
		if s == nil {
			return nil, nil, false
		}
		return s.ptr, s.thTyp, true
	case *ast.DirectRef:
		s := c.lookup(n.Name)
		if s == nil {
			return nil, nil, false
		}
		return s.ptr, s.thTyp, true
	case *ast.Deref:
		v, t := c.compileRaw(n.X)
		pt, ok := types.Unwrap(t).(types.Ptr)
		if !ok {
			return nil, nil, false
		}
		return v, pt.Inner, true
	case *ast.Index:
		base, bt, ok := c.addressOf(n.Base)
		if !ok {
			return nil, nil, false
		}
		idx := c.compile(n.Idx, types.Int{Kind: types.S64})
		switch b := types.Unwrap(bt).(type) {
		case types.FixedArray:
			zero := constant.NewInt(irtypes.I64, 0)
			gep := c.block.NewGetElementPtr(c.llvmType(b), base, zero, idx)
			return gep, b.Element, true
		case types.Ptr:
			loaded := c.block.NewLoad(c.llvmType(b), base)
			gep := c.block.NewGetElementPtr(c.llvmType(b.Inner), loaded, idx)
			return gep, b.Inner, true
		}
		return nil, nil, false
	case *ast.Property:
		base, bt, ok := c.addressOf(n.Base)
		if !ok {
			return nil, nil, false
		}
		st, ok := types.Unwrap(bt).(types.Struct)
		if !ok {
			return nil, nil, false
		}
		for i, f := range st.Fields {
			if f.Name != n.Name {
				continue
			}
			zero := constant.NewInt(irtypes.I32, 0)
			idx := constant.NewInt(irtypes.I32, int64(i))
			gep := c.block.NewGetElementPtr(c.llvmType(st), base, zero, idx)
			return gep, f.Type, true
		}
		return nil, nil, false
	default:
		return nil, nil, false
	}
}
