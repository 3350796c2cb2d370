package semantic

import (
	"fmt"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/types"
)

// TypeChecker re-derives every expression's type from the resolved AST
// and validates assignability, grounded on
// original_source/thrushc_typechecker/src/checking.rs's check_types: two
// types are compatible when they're structurally Equal, or when the
// right-hand side WidensTo the left-hand side within the same
// integer/float family (§4.5).
type TypeChecker struct {
	structs map[string]types.Struct
	enums   map[string]types.Type
	globals map[string]types.Type
	scopes  []map[string]types.Type
	issues  []diagnostics.Issue
}

func NewTypeChecker() *TypeChecker {
	return &TypeChecker{
		structs: map[string]types.Struct{},
		enums:   map[string]types.Type{},
		globals: map[string]types.Type{},
	}
}

// CheckFile type-checks every declaration in file, returning every
// TY00x diagnostic raised.
func CheckFile(file *ast.File) []diagnostics.Issue {
	tc := NewTypeChecker()
	tc.collectGlobals(file)
	for _, d := range file.Decls {
		tc.checkDecl(d)
	}
	return tc.issues
}

func (tc *TypeChecker) errorf(code string, sp span.Span, format string, args ...any) {
	tc.issues = append(tc.issues, diagnostics.NewError(code, fmt.Sprintf(format, args...), sp))
}

func (tc *TypeChecker) collectGlobals(file *ast.File) {
	for _, d := range file.Decls {
		switch n := d.(type) {
		case *ast.StructDecl:
			tc.structs[n.Name] = types.Struct{
				Name: n.Name, Fields: n.Fields,
				Modifiers: types.StructModifiers{Packed: n.Attributes != nil && n.Attributes.Has(attrs.Packed)},
			}
		}
	}
	for _, d := range file.Decls {
		switch n := d.(type) {
		case *ast.Function:
			tc.globals[n.Name] = types.Fn{Params: paramTypesOf(n.Params, tc.resolve), Return: tc.resolve(n.Return)}
		case *ast.AssemblerFunction:
			tc.globals[n.Name] = types.Fn{Params: paramTypesOf(n.Params, tc.resolve), Return: tc.resolve(n.Return)}
		case *ast.Intrinsic:
			tc.globals[n.Name] = types.Fn{Params: paramTypesOf(n.Params, tc.resolve), Return: tc.resolve(n.Return)}
		case *ast.ConstDecl:
			tc.globals[n.Name] = tc.resolve(n.Type)
		case *ast.StaticDecl:
			tc.globals[n.Name] = tc.resolve(n.Type)
		case *ast.EnumDecl:
			tc.enums[n.Name] = tc.resolve(n.Underlying)
		}
	}
}

func paramTypesOf(params []ast.Param, resolve func(types.Type) types.Type) []types.Type {
	out := make([]types.Type, len(params))
	for i, p := range params {
		out[i] = resolve(p.Type)
	}
	return out
}

// resolve replaces a types.Named reference with the struct it names, if
// known; unresolved names are left as-is (reported when first used in a
// position that requires a concrete type).
func (tc *TypeChecker) resolve(t types.Type) types.Type {
	if t == nil {
		return t
	}
	named, ok := t.(types.Named)
	if !ok {
		return t
	}
	if s, ok := tc.structs[named.Name]; ok {
		return s
	}
	if u, ok := tc.enums[named.Name]; ok {
		return u
	}
	return named
}

func (tc *TypeChecker) pushScope() { tc.scopes = append(tc.scopes, map[string]types.Type{}) }
func (tc *TypeChecker) popScope()  { tc.scopes = tc.scopes[:len(tc.scopes)-1] }

func (tc *TypeChecker) bind(name string, t types.Type) {
	if len(tc.scopes) == 0 {
		tc.pushScope()
	}
	tc.scopes[len(tc.scopes)-1][name] = t
}

func (tc *TypeChecker) lookup(name string) (types.Type, bool) {
	for i := len(tc.scopes) - 1; i >= 0; i-- {
		if t, ok := tc.scopes[i][name]; ok {
			return t, true
		}
	}
	if t, ok := tc.globals[name]; ok {
		return t, true
	}
	return nil, false
}

func (tc *TypeChecker) checkDecl(d ast.Decl) {
	switch n := d.(type) {
	case *ast.Function:
		ret := tc.resolve(n.Return)
		tc.checkConstructorReturnsVoid(n, ret)
		if n.Body == nil {
			return
		}
		tc.pushScope()
		for _, p := range n.Params {
			tc.bind(p.Name, tc.resolve(p.Type))
		}
		tc.checkBlock(n.Body, ret)
		tc.popScope()
	case *ast.ConstDecl:
		want := tc.resolve(n.Type)
		got := tc.inferExpected(n.Value, want)
		tc.assignable(want, got, n.Span())
	case *ast.StaticDecl:
		want := tc.resolve(n.Type)
		got := tc.inferExpected(n.Value, want)
		tc.assignable(want, got, n.Span())
	}
}

// checkConstructorReturnsVoid raises ATTR004 for a @constructor-tagged
// function that declares a non-void return type (spec.md §4.3's fourth
// illogical-attribute-combination rule): a constructor runs for its
// side effects at load time and has nowhere to deliver a return value
// to. The attribute checker (internal/semantic/attrchecker.go) only
// sees the attribute set, not the resolved return type, so this lives
// here where n.Return is already resolved.
func (tc *TypeChecker) checkConstructorReturnsVoid(n *ast.Function, ret types.Type) {
	if n.Attributes == nil || !n.Attributes.Has(attrs.Constructor) {
		return
	}
	if types.IsVoid(ret) {
		return
	}
	sp := n.Span()
	if a, ok := n.Attributes.Get(attrs.Constructor); ok {
		sp = a.Span
	}
	tc.errorf("ATTR004", sp, "a @constructor must return void, not %s", ret)
}

func (tc *TypeChecker) checkBlock(b *ast.Block, returnType types.Type) {
	for _, s := range b.Stmts {
		tc.checkStmt(s, returnType)
	}
}

func (tc *TypeChecker) checkStmt(s ast.Stmt, returnType types.Type) {
	switch n := s.(type) {
	case *ast.Local:
		want := tc.resolve(n.Type)
		got := types.Type(nil)
		if n.Value != nil {
			got = tc.inferExpected(n.Value, want)
		}
		if want == nil {
			want = got
		} else if got != nil {
			tc.assignable(want, got, n.Span())
		}
		tc.bind(n.Name, want)
	case *ast.LLI:
		if n.Value != nil {
			tc.infer(n.Value)
		}
		tc.bind(n.Name, tc.resolve(n.Type))
	case *ast.If:
		tc.requireBool(tc.infer(n.Cond), n.Cond.Span())
		tc.pushScope()
		tc.checkBlock(n.Then, returnType)
		tc.popScope()
		for _, el := range n.Elifs {
			tc.requireBool(tc.infer(el.Cond), el.Cond.Span())
			tc.pushScope()
			tc.checkBlock(el.Body, returnType)
			tc.popScope()
		}
		if n.Else != nil {
			tc.pushScope()
			tc.checkBlock(n.Else, returnType)
			tc.popScope()
		}
	case *ast.While:
		tc.requireBool(tc.infer(n.Cond), n.Cond.Span())
		tc.pushScope()
		tc.checkBlock(n.Body, returnType)
		tc.popScope()
	case *ast.Loop:
		tc.pushScope()
		tc.checkBlock(n.Body, returnType)
		tc.popScope()
	case *ast.For:
		tc.pushScope()
		if n.Init != nil {
			tc.checkStmt(n.Init, returnType)
		}
		if n.Cond != nil {
			tc.requireBool(tc.infer(n.Cond), n.Cond.Span())
		}
		if n.Action.Expr != nil {
			tc.infer(n.Action.Expr)
		}
		tc.checkBlock(n.Body, returnType)
		tc.popScope()
	case *ast.Return:
		if n.Value == nil {
			if !types.IsVoid(returnType) {
				tc.errorf("TY001", n.Span(), "missing return value for a function returning '%s'", returnType)
			}
			return
		}
		got := tc.inferExpected(n.Value, returnType)
		if types.IsVoid(returnType) {
			tc.errorf("TY001", n.Span(), "unexpected return value in a void function")
			return
		}
		tc.assignable(returnType, got, n.Span())
	case *ast.Block:
		tc.pushScope()
		tc.checkBlock(n, returnType)
		tc.popScope()
	case *ast.ExprStmt:
		tc.infer(n.X)
	}
}

func (tc *TypeChecker) requireBool(t types.Type, sp span.Span) {
	if t != nil && !types.Equal(t, types.Bool{}) {
		tc.errorf("TY002", sp, "expected 'bool' condition, got '%s'", t)
	}
}

// assignable validates rhs against lhs per the widening/equality rule
// checking.rs's check_types implements; Const is transparent on both
// sides (types.Equal already strips it).
func (tc *TypeChecker) assignable(lhs, rhs types.Type, sp span.Span) {
	if lhs == nil || rhs == nil {
		return
	}
	if types.Equal(lhs, rhs) {
		return
	}
	if types.IsNumeric(lhs) && types.IsNumeric(rhs) && types.WidensTo(rhs, lhs) {
		return
	}
	tc.errorf("TY003", sp, "expected '%s' type, got '%s' type", lhs, rhs)
}

// infer computes expr's type with no expected target in play, validating
// it along the way and recording the result on the node via SetType so
// later phases (codegen) don't need to re-derive it.
func (tc *TypeChecker) infer(e ast.Expr) types.Type {
	return tc.inferExpected(e, nil)
}

// inferExpected is infer, but lets a caller that already knows the
// target type (a declared local's type, a parameter's type, a return
// type, the other side of a binary operator) pass it down so a bare
// integer/float literal can adopt it directly instead of defaulting to
// S32/F64 regardless of context — assignable/WidensTo (internal/types/
// lattice.go) require matching signedness and width, so a literal that
// ignores its target is wrongly rejected into nearly any non-S32/F64
// destination (§4.5's "literal" rows presuppose exactly this).
func (tc *TypeChecker) inferExpected(e ast.Expr, expected types.Type) types.Type {
	if e == nil {
		return nil
	}
	t := tc.inferRaw(e, expected)
	if t != nil {
		e.SetType(t)
	}
	return t
}

// isLiteralExpr reports whether e is a bare integer/float literal node —
// the only expressions whose inferred type may still adopt a sibling
// operand's type after the fact (see the *ast.BinaryOp case below).
func isLiteralExpr(e ast.Expr) bool {
	switch e.(type) {
	case *ast.IntLiteral, *ast.FloatLiteral:
		return true
	default:
		return false
	}
}

// literalIntType picks an untyped integer literal's type: expected's
// integer kind when expected names one, else the default S32.
func literalIntType(expected types.Type) types.Type {
	if expected != nil {
		if it, ok := types.Unwrap(expected).(types.Int); ok {
			return it
		}
	}
	return types.Int{Kind: types.S32}
}

// literalFloatType is literalIntType's float counterpart; the default is F64.
func literalFloatType(expected types.Type) types.Type {
	if expected != nil {
		if ft, ok := types.Unwrap(expected).(types.Float); ok {
			return ft
		}
	}
	return types.Float{Kind: types.F64}
}

func (tc *TypeChecker) inferRaw(e ast.Expr, expected types.Type) types.Type {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return literalIntType(expected)
	case *ast.FloatLiteral:
		return literalFloatType(expected)
	case *ast.BoolLiteral:
		return types.Bool{}
	case *ast.StringLiteral:
		return types.Ptr{Inner: types.Int{Kind: types.U8}}
	case *ast.CharLiteral:
		return types.Char{}
	case *ast.NullPtr:
		return types.Ptr{}
	case *ast.Group:
		return tc.inferExpected(n.X, expected)
	case *ast.Reference:
		if t, ok := tc.lookup(n.Name); ok {
			return t
		}
		tc.errorf("TY004", n.Span(), "cannot determine the type of '%s'", n.Name)
		return nil
	case *ast.DirectRef:
		if t, ok := tc.lookup(n.Name); ok {
			return types.Ptr{Inner: t}
		}
		return nil
	case *ast.BinaryOp:
		// Infer the left side first (threading expected through, e.g.
		// for `return a + 1;`), then the right side against the left's
		// type so `a + 1` picks up a's width/signedness for the
		// literal. If the left side turned out to be the literal
		// instead (`1 + a`), re-infer it against the now-known right
		// type rather than leaving it stuck at its no-context default.
		lt := tc.inferExpected(n.Left, expected)
		rt := tc.inferExpected(n.Right, lt)
		if lt != nil && rt != nil && !types.Equal(lt, rt) {
			if isLiteralExpr(n.Left) && types.IsNumeric(rt) {
				lt = tc.inferExpected(n.Left, rt)
			} else if isLiteralExpr(n.Right) && types.IsNumeric(lt) {
				rt = tc.inferExpected(n.Right, lt)
			}
		}
		switch n.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			tc.assignable(lt, rt, n.Span())
			return types.Bool{}
		default:
			tc.assignable(lt, rt, n.Span())
			return lt
		}
	case *ast.UnaryOp:
		return tc.inferExpected(n.X, expected)
	case *ast.Call:
		fn, ok := tc.globals[n.Callee]
		var sig types.Fn
		if ok {
			sig, ok = fn.(types.Fn)
		}
		for i, a := range n.Args {
			var want types.Type
			if ok && i < len(sig.Params) {
				want = sig.Params[i]
			}
			at := tc.inferExpected(a, want)
			if ok && i < len(sig.Params) {
				tc.assignable(sig.Params[i], at, a.Span())
			}
		}
		if !ok {
			tc.errorf("TY004", n.Span(), "call to undeclared function '%s'", n.Callee)
			return nil
		}
		if !sig.Modifiers.Variadic && len(n.Args) != len(sig.Params) {
			tc.errorf("TY005", n.Span(), "'%s' expects %d argument(s), got %d", n.Callee, len(sig.Params), len(n.Args))
		}
		return sig.Return
	case *ast.Indirect:
		calleeType := tc.infer(n.Callee)
		for _, a := range n.Args {
			tc.infer(a)
		}
		if fn, ok := calleeType.(types.Fn); ok {
			return fn.Return
		}
		return nil
	case *ast.Index:
		base := tc.infer(n.Base)
		tc.infer(n.Idx)
		switch b := types.Unwrap(base).(type) {
		case types.Array:
			return b.Base
		case types.FixedArray:
			return b.Element
		case types.Ptr:
			return b.Inner
		}
		return nil
	case *ast.Property:
		base := tc.infer(n.Base)
		if st, ok := types.Unwrap(base).(types.Struct); ok {
			for _, f := range st.Fields {
				if f.Name == n.Name {
					return f.Type
				}
			}
			tc.errorf("TY004", n.Span(), "struct '%s' has no field '%s'", st.Name, n.Name)
		}
		return nil
	case *ast.Constructor:
		st, ok := tc.structs[n.StructName]
		if !ok {
			tc.errorf("TY004", n.Span(), "unknown struct '%s'", n.StructName)
			return nil
		}
		for _, f := range n.Fields {
			var want types.Type
			for _, declared := range st.Fields {
				if declared.Name == f.Name {
					want = declared.Type
					break
				}
			}
			ft := tc.inferExpected(f.Value, want)
			if want != nil {
				tc.assignable(want, ft, f.Value.Span())
			}
		}
		return st
	case *ast.ArrayLit:
		var elem types.Type
		for _, el := range n.Elements {
			t := tc.infer(el)
			if elem == nil {
				elem = t
			}
		}
		return types.Array{Base: elem}
	case *ast.FixedArrayLit:
		var elem types.Type
		for _, el := range n.Elements {
			t := tc.infer(el)
			if elem == nil {
				elem = t
			}
		}
		return types.FixedArray{Element: elem, Size: int64(len(n.Elements))}
	case *ast.Cast:
		tc.infer(n.X)
		return tc.resolve(n.To)
	case *ast.Alloc:
		return types.Ptr{Inner: tc.resolve(n.Of)}
	case *ast.Address:
		return types.Ptr{Inner: tc.infer(n.X)}
	case *ast.Write:
		target := tc.infer(n.Target)
		var want types.Type
		if pt, ok := types.Unwrap(target).(types.Ptr); ok {
			want = pt.Inner
		}
		value := tc.inferExpected(n.Value, want)
		if want != nil {
			tc.assignable(want, value, n.Span())
		}
		return types.Void{}
	case *ast.Load:
		x := tc.infer(n.X)
		if pt, ok := types.Unwrap(x).(types.Ptr); ok {
			return pt.Inner
		}
		return nil
	case *ast.Deref:
		x := tc.infer(n.X)
		if pt, ok := types.Unwrap(x).(types.Ptr); ok {
			return pt.Inner
		}
		return nil
	case *ast.Builtin:
		for _, a := range n.Args {
			tc.infer(a)
		}
		return types.Int{Kind: types.USize}
	case *ast.AsmValue:
		for _, a := range n.Args {
			tc.infer(a)
		}
		return types.Int{Kind: types.S32}
	case *ast.EnumValue:
		if u, ok := tc.enums[n.EnumName]; ok {
			return u
		}
		tc.errorf("TY004", n.Span(), "unknown enum '%s'", n.EnumName)
		return nil
	case *ast.Mut:
		return tc.infer(n.X)
	}
	return nil
}
