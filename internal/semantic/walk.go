package semantic

import "github.com/thrushlang/thrushc/internal/ast"

// walkStmt visits every expression reachable from s, recursing into
// nested blocks and control-flow bodies. Used by the linter to collect
// every name use in one pass without duplicating traversal logic per
// statement kind.
func walkStmt(s ast.Stmt, visit func(ast.Expr)) {
	switch n := s.(type) {
	case *ast.Block:
		for _, st := range n.Stmts {
			walkStmt(st, visit)
		}
	case *ast.Local:
		if n.Value != nil {
			walkExpr(n.Value, visit)
		}
	case *ast.If:
		walkExpr(n.Cond, visit)
		walkStmt(n.Then, visit)
		for _, el := range n.Elifs {
			walkExpr(el.Cond, visit)
			walkStmt(el.Body, visit)
		}
		if n.Else != nil {
			walkStmt(n.Else, visit)
		}
	case *ast.While:
		walkExpr(n.Cond, visit)
		walkStmt(n.Body, visit)
	case *ast.Loop:
		walkStmt(n.Body, visit)
	case *ast.For:
		if n.Init != nil {
			walkStmt(n.Init, visit)
		}
		if n.Cond != nil {
			walkExpr(n.Cond, visit)
		}
		if n.Action.Expr != nil {
			walkExpr(n.Action.Expr, visit)
		}
		walkStmt(n.Body, visit)
	case *ast.Return:
		if n.Value != nil {
			walkExpr(n.Value, visit)
		}
	case *ast.LLI:
		if n.Value != nil {
			walkExpr(n.Value, visit)
		}
	case *ast.ExprStmt:
		walkExpr(n.X, visit)
	}
}

// walkExpr visits e and every sub-expression it contains, depth-first.
func walkExpr(e ast.Expr, visit func(ast.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *ast.BinaryOp:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *ast.UnaryOp:
		walkExpr(n.X, visit)
	case *ast.Group:
		walkExpr(n.X, visit)
	case *ast.Call:
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	case *ast.Indirect:
		walkExpr(n.Callee, visit)
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	case *ast.Index:
		walkExpr(n.Base, visit)
		walkExpr(n.Idx, visit)
	case *ast.Property:
		walkExpr(n.Base, visit)
	case *ast.Constructor:
		for _, f := range n.Fields {
			walkExpr(f.Value, visit)
		}
	case *ast.ArrayLit:
		for _, el := range n.Elements {
			walkExpr(el, visit)
		}
	case *ast.FixedArrayLit:
		for _, el := range n.Elements {
			walkExpr(el, visit)
		}
	case *ast.Cast:
		walkExpr(n.X, visit)
	case *ast.Address:
		walkExpr(n.X, visit)
	case *ast.Write:
		walkExpr(n.Target, visit)
		walkExpr(n.Value, visit)
	case *ast.Load:
		walkExpr(n.X, visit)
	case *ast.Deref:
		walkExpr(n.X, visit)
	case *ast.Builtin:
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	case *ast.AsmValue:
		for _, a := range n.Args {
			walkExpr(a, visit)
		}
	case *ast.Mut:
		walkExpr(n.X, visit)
	}
}
