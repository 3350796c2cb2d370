package semantic

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/span"
)

// LintFile reports unused-symbol warnings (spec.md §4.3), grounded on
// original_source/.../semantic/linter/mod.rs's generate_scoped_warnings:
// every local, LLI, and non-public/non-extern global that is declared but
// never referenced earns one LNT001 warning, and every unused parameter
// earns one LNT002 warning.
func LintFile(file *ast.File) []diagnostics.Issue {
	var issues []diagnostics.Issue

	globalUses := map[string]bool{}
	for _, d := range file.Decls {
		walkDeclExprs(d, func(e ast.Expr) {
			switch n := e.(type) {
			case *ast.Call:
				globalUses[n.Callee] = true
			case *ast.Reference:
				globalUses[n.Name] = true
			case *ast.DirectRef:
				globalUses[n.Name] = true
			case *ast.EnumValue:
				globalUses[n.EnumName] = true
			}
		})
	}

	for _, d := range file.Decls {
		switch n := d.(type) {
		case *ast.Function:
			issues = append(issues, lintGlobal(n.Name, n.Span(), n.Attributes, n.IsEntry, globalUses)...)
			if n.Body != nil {
				issues = append(issues, lintParams(n.Params, n.Body, globalUses)...)
				issues = append(issues, lintBlock(n.Body)...)
			}
		case *ast.StaticDecl:
			issues = append(issues, lintGlobal(n.Name, n.Span(), n.Attributes, false, globalUses)...)
		case *ast.ConstDecl:
			issues = append(issues, lintGlobal(n.Name, n.Span(), n.Attributes, false, globalUses)...)
		}
	}
	return issues
}

// lintGlobal warns when a global function/static/const is never
// referenced anywhere in the unit and isn't exempt by visibility: the
// linter can't see other translation units, so @public/@extern symbols
// and the program entrypoint are assumed used externally.
func lintGlobal(name string, sp span.Span, attrSet *attrs.Set, isEntry bool, uses map[string]bool) []diagnostics.Issue {
	if isEntry || uses[name] {
		return nil
	}
	if attrSet != nil && (attrSet.Has(attrs.Public) || attrSet.Has(attrs.Extern)) {
		return nil
	}
	return []diagnostics.Issue{diagnostics.NewWarning("LNT001", "'"+name+"' is not used", sp)}
}

func walkDeclExprs(d ast.Decl, visit func(ast.Expr)) {
	switch n := d.(type) {
	case *ast.Function:
		if n.Body != nil {
			walkStmt(n.Body, visit)
		}
	case *ast.ConstDecl:
		walkExpr(n.Value, visit)
	case *ast.StaticDecl:
		walkExpr(n.Value, visit)
	case *ast.EnumDecl:
		for _, v := range n.Variants {
			if v.Value != nil {
				walkExpr(v.Value, visit)
			}
		}
	}
}

func lintParams(params []ast.Param, body *ast.Block, globalUses map[string]bool) []diagnostics.Issue {
	used := map[string]bool{}
	walkStmt(body, func(e ast.Expr) {
		if r, ok := e.(*ast.Reference); ok && r.Namespace == ast.NSParameter {
			used[r.Name] = true
		}
	})
	var issues []diagnostics.Issue
	for _, p := range params {
		if !used[p.Name] && !globalUses[p.Name] {
			issues = append(issues, diagnostics.NewWarning("LNT002", "parameter '"+p.Name+"' is not used", p.Span()))
		}
	}
	return issues
}

func lintBlock(b *ast.Block) []diagnostics.Issue {
	var issues []diagnostics.Issue
	var walk func(b *ast.Block)
	walk = func(b *ast.Block) {
		declared := map[string]ast.Node{}
		for _, s := range b.Stmts {
			switch n := s.(type) {
			case *ast.Local:
				declared[n.Name] = n
			case *ast.LLI:
				declared[n.Name] = n
			}
		}
		used := map[string]bool{}
		for _, s := range b.Stmts {
			walkStmt(s, func(e ast.Expr) {
				switch r := e.(type) {
				case *ast.Reference:
					used[r.Name] = true
				case *ast.DirectRef:
					used[r.Name] = true
				}
				_ = e
			})
			switch n := s.(type) {
			case *ast.If:
				walk(n.Then)
				for _, el := range n.Elifs {
					walk(el.Body)
				}
				if n.Else != nil {
					walk(n.Else)
				}
			case *ast.While:
				walk(n.Body)
			case *ast.Loop:
				walk(n.Body)
			case *ast.For:
				walk(n.Body)
			case *ast.Block:
				walk(n)
			}
		}
		for name, node := range declared {
			if !used[name] {
				code := "LNT001"
				kind := "local"
				if _, ok := node.(*ast.LLI); ok {
					kind = "LLI"
				}
				issues = append(issues, diagnostics.NewWarning(code, kind+" '"+name+"' is not used", node.Span()))
			}
		}
	}
	walk(b)
	return issues
}
