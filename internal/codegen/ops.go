package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/types"
)

// compileBinary routes by operand type (integer/float/bool) as spec.md
// §4.6 describes, widening the narrower operand up to the wider one
// before emitting the instruction.
func (c *Context) compileBinary(n *ast.BinaryOp) (value.Value, types.Type) {
	lv, lt := c.compileRaw(n.Left)
	rv, rt := c.compileRaw(n.Right)

	if types.IsFloat(lt) || types.IsFloat(rt) {
		common := types.Float{Kind: types.F64}
		lv = c.implicitCast(lv, lt, common)
		rv = c.implicitCast(rv, rt, common)
		return c.compileFloatBinary(n.Op, lv, rv), resultType(n.Op, common)
	}
	if types.IsInt(lt) && types.IsInt(rt) {
		wide := lt
		if types.WidensTo(lt, rt) {
			wide = rt
		}
		lv = c.implicitCast(lv, lt, wide)
		rv = c.implicitCast(rv, rt, wide)
		return c.compileIntBinary(n.Op, lv, rv, isSignedLLVM(wide)), resultType(n.Op, wide)
	}
	// Bool/pointer/struct comparisons and logical connectives.
	return c.compileIntBinary(n.Op, lv, rv, false), resultType(n.Op, lt)
}

func resultType(op string, operand types.Type) types.Type {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return types.Bool{}
	default:
		return operand
	}
}

func (c *Context) compileIntBinary(op string, l, r value.Value, signed bool) value.Value {
	switch op {
	case "+":
		return c.block.NewAdd(l, r)
	case "-":
		return c.block.NewSub(l, r)
	case "*":
		return c.block.NewMul(l, r)
	case "/":
		if signed {
			return c.block.NewSDiv(l, r)
		}
		return c.block.NewUDiv(l, r)
	case "%":
		if signed {
			return c.block.NewSRem(l, r)
		}
		return c.block.NewURem(l, r)
	case "&":
		return c.block.NewAnd(l, r)
	case "|":
		return c.block.NewOr(l, r)
	case "^":
		return c.block.NewXor(l, r)
	case "<<":
		return c.block.NewShl(l, r)
	case ">>":
		if signed {
			return c.block.NewAShr(l, r)
		}
		return c.block.NewLShr(l, r)
	case "&&":
		return c.block.NewAnd(l, r)
	case "||":
		return c.block.NewOr(l, r)
	case "==":
		return c.block.NewICmp(enum.IPredEQ, l, r)
	case "!=":
		return c.block.NewICmp(enum.IPredNE, l, r)
	case "<":
		if signed {
			return c.block.NewICmp(enum.IPredSLT, l, r)
		}
		return c.block.NewICmp(enum.IPredULT, l, r)
	case "<=":
		if signed {
			return c.block.NewICmp(enum.IPredSLE, l, r)
		}
		return c.block.NewICmp(enum.IPredULE, l, r)
	case ">":
		if signed {
			return c.block.NewICmp(enum.IPredSGT, l, r)
		}
		return c.block.NewICmp(enum.IPredUGT, l, r)
	case ">=":
		if signed {
			return c.block.NewICmp(enum.IPredSGE, l, r)
		}
		return c.block.NewICmp(enum.IPredUGE, l, r)
	default:
		return l
	}
}

func (c *Context) compileFloatBinary(op string, l, r value.Value) value.Value {
	switch op {
	case "+":
		return c.block.NewFAdd(l, r)
	case "-":
		return c.block.NewFSub(l, r)
	case "*":
		return c.block.NewFMul(l, r)
	case "/":
		return c.block.NewFDiv(l, r)
	case "%":
		return c.block.NewFRem(l, r)
	case "==":
		return c.block.NewFCmp(enum.FPredOEQ, l, r)
	case "!=":
		return c.block.NewFCmp(enum.FPredONE, l, r)
	case "<":
		return c.block.NewFCmp(enum.FPredOLT, l, r)
	case "<=":
		return c.block.NewFCmp(enum.FPredOLE, l, r)
	case ">":
		return c.block.NewFCmp(enum.FPredOGT, l, r)
	case ">=":
		return c.block.NewFCmp(enum.FPredOGE, l, r)
	default:
		return l
	}
}

func (c *Context) compileUnary(n *ast.UnaryOp) (value.Value, types.Type) {
	v, t := c.compileRaw(n.X)
	switch n.Op {
	case "-":
		if types.IsFloat(t) {
			return c.block.NewFSub(constant.NewFloat(irtypes.Double, 0), v), t
		}
		return c.block.NewSub(constant.NewInt(intTypeOf(t), 0), v), t
	case "!":
		return c.block.NewXor(v, constant.NewInt(irtypes.I1, 1)), types.Bool{}
	case "~":
		return c.block.NewXor(v, constant.NewInt(intTypeOf(t), -1)), t
	case "++", "--":
		return c.compileIncDec(n, v, t)
	default:
		return v, t
	}
}

// compileIncDec handles both pre- and post-unary increment/decrement,
// storing the updated value back through the referenced slot.
func (c *Context) compileIncDec(n *ast.UnaryOp, v value.Value, t types.Type) (value.Value, types.Type) {
	ref, ok := n.X.(*ast.Reference)
	if !ok {
		return v, t
	}
	s := c.lookup(ref.Name)
	if s == nil {
		return v, t
	}
	var updated value.Value
	if types.IsFloat(t) {
		delta := constant.NewFloat(irtypes.Double, 1)
		if n.Op == "--" {
			updated = c.block.NewFSub(v, delta)
		} else {
			updated = c.block.NewFAdd(v, delta)
		}
	} else {
		one := constant.NewInt(intTypeOf(t), 1)
		if n.Op == "--" {
			updated = c.block.NewSub(v, one)
		} else {
			updated = c.block.NewAdd(v, one)
		}
	}
	c.block.NewStore(updated, s.ptr)
	if n.Postfix {
		return v, t
	}
	return updated, t
}

func (c *Context) compileCall(n *ast.Call) (value.Value, types.Type) {
	fn, ok := c.funcs[n.Callee]
	if !ok {
		return nil, nil
	}
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.compile(a, nil)
	}
	call := c.block.NewCall(fn, args...)
	return call, n.ExprType()
}

func (c *Context) compileIndirect(n *ast.Indirect) (value.Value, types.Type) {
	callee, ct := c.compileRaw(n.Callee)
	fnType, ok := types.Unwrap(ct).(types.Fn)
	args := make([]value.Value, len(n.Args))
	for i, a := range n.Args {
		args[i] = c.compile(a, nil)
	}
	call := c.block.NewCall(callee, args...)
	if ok {
		return call, fnType.Return
	}
	return call, nil
}

func (c *Context) compileIndex(n *ast.Index) (value.Value, types.Type) {
	if ptr, elemType, ok := c.addressOf(n); ok {
		return c.block.NewLoad(c.llvmType(elemType), ptr), elemType
	}
	// Indexing a non-addressable value (e.g. a call's return) still
	// needs its base materialized to extract the element.
	base, bt := c.compileRaw(n.Base)
	idx := c.compile(n.Idx, types.Int{Kind: types.S64})
	if fa, ok := types.Unwrap(bt).(types.FixedArray); ok {
		return c.block.NewExtractValue(base, uint64FromConst(idx)), fa.Element
	}
	return base, bt
}

func (c *Context) compileProperty(n *ast.Property) (value.Value, types.Type) {
	if ptr, fieldType, ok := c.addressOf(n); ok {
		return c.block.NewLoad(c.llvmType(fieldType), ptr), fieldType
	}
	base, bt := c.compileRaw(n.Base)
	st, ok := types.Unwrap(bt).(types.Struct)
	if !ok {
		return base, bt
	}
	for i, f := range st.Fields {
		if f.Name == n.Name {
			return c.block.NewExtractValue(base, uint64(i)), f.Type
		}
	}
	return base, bt
}

// uint64FromConst extracts a compile-time constant index for
// ExtractValue, which (unlike GetElementPtr) only accepts literal
// indices; a non-constant index into a non-addressable aggregate isn't
// representable and falls back to index 0.
func uint64FromConst(v value.Value) uint64 {
	if ci, ok := v.(*constant.Int); ok {
		return ci.X.Uint64()
	}
	return 0
}

// compileConstructor builds a struct value field by field. spec.md §4.6
// "Allocations" says aggregates with heap-allocated fields (found by a
// structural walk of the struct) back their scratch buffer with the
// heap allocator rather than a stack alloca; the buffer is still
// transient here (the constructor yields a value, not a pointer), so it
// is freed immediately after the fields are loaded out of it.
func (c *Context) compileConstructor(n *ast.Constructor) (value.Value, types.Type) {
	st, ok := c.structs[n.StructName]
	if !ok {
		return nil, nil
	}
	llType := c.llvmType(st)
	heap := structHasHeapField(st, nil)

	var a value.Value
	if heap {
		a = c.heapAlloc(llType)
	} else {
		a = c.block.NewAlloca(llType)
	}

	for _, f := range n.Fields {
		for i, declared := range st.Fields {
			if declared.Name != f.Name {
				continue
			}
			val := c.compile(f.Value, declared.Type)
			zero := constant.NewInt(irtypes.I32, 0)
			idx := constant.NewInt(irtypes.I32, int64(i))
			gep := c.block.NewGetElementPtr(llType, a, zero, idx)
			c.block.NewStore(val, gep)
		}
	}

	loaded := c.block.NewLoad(llType, a)
	if heap {
		c.block.NewCall(c.freeFn, c.block.NewBitCast(a, irtypes.NewPointer(irtypes.I8)))
	}
	return loaded, st
}

// structHasHeapField walks st's fields looking for a pointer-typed
// field, directly or nested inside another struct field, per spec.md
// §4.6's "detected by a structural walk of the struct". seen guards
// against revisiting the same named struct through mutual field
// references.
func structHasHeapField(st types.Struct, seen map[string]bool) bool {
	if seen == nil {
		seen = map[string]bool{}
	}
	if seen[st.Name] {
		return false
	}
	seen[st.Name] = true
	for _, f := range st.Fields {
		switch ft := types.Unwrap(f.Type).(type) {
		case types.Ptr:
			return true
		case types.Struct:
			if structHasHeapField(ft, seen) {
				return true
			}
		}
	}
	return false
}

// heapAlloc allocates elem's size from the heap via the forward-
// declared malloc, using the standard null-GEP sizeof idiom (GEP one
// element past a null pointer of elem's type, then ptrtoint) since
// llir builds IR without a target data layout to query directly.
func (c *Context) heapAlloc(elem irtypes.Type) value.Value {
	null := constant.NewNull(irtypes.NewPointer(elem))
	sizePtr := c.block.NewGetElementPtr(elem, null, constant.NewInt(irtypes.I64, 1))
	size := c.block.NewPtrToInt(sizePtr, irtypes.I64)
	raw := c.block.NewCall(c.mallocFn, size)
	return c.block.NewBitCast(raw, irtypes.NewPointer(elem))
}

func (c *Context) compileArrayLit(elements []ast.Expr, inferred types.Type) (value.Value, types.Type) {
	var elemType types.Type
	switch t := inferred.(type) {
	case types.Array:
		elemType = t.Base
	case types.FixedArray:
		elemType = t.Element
	}
	if elemType == nil && len(elements) > 0 {
		elemType = elements[0].ExprType()
	}
	llElem := c.llvmType(elemType)
	arrType := irtypes.NewArray(uint64(len(elements)), llElem)
	a := c.block.NewAlloca(arrType)
	for i, el := range elements {
		v := c.compile(el, elemType)
		zero := constant.NewInt(irtypes.I64, 0)
		idx := constant.NewInt(irtypes.I64, int64(i))
		gep := c.block.NewGetElementPtr(arrType, a, zero, idx)
		c.block.NewStore(v, gep)
	}
	return c.block.NewLoad(arrType, a), types.FixedArray{Element: elemType, Size: int64(len(elements))}
}

// compileAlloc lowers `new T` (stack) and `new heap T` (heap). The
// codegenLocal caller marks the bound slot for the heap case so the
// scope-exit deallocator frees it (spec.md §4.6 "Allocations"/
// "Deallocation").
func (c *Context) compileAlloc(n *ast.Alloc) (value.Value, types.Type) {
	elem := c.llvmType(n.Of)
	if n.Heap {
		return c.heapAlloc(elem), types.Ptr{Inner: n.Of}
	}
	a := c.block.NewAlloca(elem)
	return a, types.Ptr{Inner: n.Of}
}
