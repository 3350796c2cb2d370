package parser

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/symtab"
	"github.com/thrushlang/thrushc/internal/token"
)

// toNamespaceTag maps a symtab lookup's namespace onto the NamespaceTag
// recorded in ast.Reference (spec.md §3.4: "carries the resolved
// namespace tag and scope index").
func toNamespaceTag(ns symtab.Namespace) ast.NamespaceTag {
	switch ns {
	case symtab.NSFunction:
		return ast.NSFunction
	case symtab.NSAssemblerFunction:
		return ast.NSAssemblerFunction
	case symtab.NSIntrinsic:
		return ast.NSIntrinsic
	case symtab.NSStruct:
		return ast.NSStruct
	case symtab.NSEnum:
		return ast.NSEnum
	case symtab.NSCustomType:
		return ast.NSCustomType
	case symtab.NSConstant:
		return ast.NSConstant
	case symtab.NSStatic:
		return ast.NSStatic
	case symtab.NSLocal:
		return ast.NSLocal
	case symtab.NSLLI:
		return ast.NSLLI
	case symtab.NSParameter:
		return ast.NSParameter
	}
	return ast.NSUnresolved
}

// parseExpr is the entry point of the precedence-climbing expression
// grammar (spec.md §4.4), lowest precedence first.
func (p *Parser) parseExpr() ast.Expr { return p.parseOr() }

func (p *Parser) parseOr() ast.Expr {
	left := p.parseAnd()
	for p.check(token.OROR) {
		op := p.advance()
		right := p.parseAnd()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseAnd() ast.Expr {
	left := p.parseEquality()
	for p.check(token.ANDAND) {
		op := p.advance()
		right := p.parseEquality()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for p.check(token.EQ) || p.check(token.NEQ) {
		op := p.advance()
		right := p.parseRelational()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseBitOr()
	for p.check(token.LT) || p.check(token.LE) || p.check(token.GT) || p.check(token.GE) {
		op := p.advance()
		right := p.parseBitOr()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseBitOr() ast.Expr {
	left := p.parseBitXor()
	for p.check(token.PIPE) {
		op := p.advance()
		right := p.parseBitXor()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseBitXor() ast.Expr {
	left := p.parseBitAnd()
	for p.check(token.CARET) {
		op := p.advance()
		right := p.parseBitAnd()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseBitAnd() ast.Expr {
	left := p.parseShift()
	for p.check(token.AMP) {
		op := p.advance()
		right := p.parseShift()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseShift() ast.Expr {
	left := p.parseAdditive()
	for p.check(token.SHL) || p.check(token.SHR) {
		op := p.advance()
		right := p.parseAdditive()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for p.check(token.PLUS) || p.check(token.MINUS) {
		op := p.advance()
		right := p.parseMultiplicative()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseCast()
	for p.check(token.STAR) || p.check(token.SLASH) || p.check(token.PERCENT) {
		op := p.advance()
		right := p.parseCast()
		left = &ast.BinaryOp{Op: op.Lexeme, Left: left, Right: right, Span_: span.Merge(left.Span(), right.Span())}
	}
	return left
}

// parseCast binds `as Type` tighter than arithmetic so `a + b as s64`
// reads as `a + (b as s64)`, matching the original's cast precedence.
func (p *Parser) parseCast() ast.Expr {
	x := p.parseUnary()
	for p.check(token.AS) {
		p.advance()
		to := p.parseType()
		x = &ast.Cast{X: x, To: to, Span_: x.Span()}
	}
	return x
}

func (p *Parser) parseUnary() ast.Expr {
	switch p.cur().Kind {
	case token.MINUS, token.BANG, token.TILDE:
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryOp{Op: op.Lexeme, X: x, Span_: span.Merge(op.Span, x.Span())}
	case token.INCREMENT, token.DECREMENT:
		op := p.advance()
		x := p.parseUnary()
		return &ast.UnaryOp{Op: op.Lexeme, X: x, Postfix: false, Span_: span.Merge(op.Span, x.Span())}
	case token.ADDRESS:
		op := p.advance()
		x := p.parseUnary()
		return &ast.Address{X: x, Span_: span.Merge(op.Span, x.Span())}
	case token.LOAD:
		op := p.advance()
		x := p.parseUnary()
		return &ast.Load{X: x, Span_: span.Merge(op.Span, x.Span())}
	case token.DEREF, token.STAR:
		op := p.advance()
		x := p.parseUnary()
		return &ast.Deref{X: x, Span_: span.Merge(op.Span, x.Span())}
	case token.MUT:
		op := p.advance()
		x := p.parseUnary()
		return &ast.Mut{X: x, Span_: span.Merge(op.Span, x.Span())}
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary expression followed by any chain of
// calls, indexes, property accesses, and postfix ++/--.
func (p *Parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur().Kind {
		case token.LPAREN:
			x = p.finishCallOrIndirect(x)
		case token.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			end, _ := p.expect(token.RBRACKET, "PAR003", "expected ']' after index expression")
			x = &ast.Index{Base: x, Idx: idx, Span_: span.Merge(x.Span(), end.Span)}
		case token.DOT:
			p.advance()
			nameTok, _ := p.expect(token.IDENTIFIER, "PAR003", "expected field/variant name after '.'")
			if ref, ok := x.(*ast.Reference); ok && ref.Namespace == ast.NSEnum {
				x = &ast.EnumValue{EnumName: ref.Name, Variant: nameTok.Lexeme, Span_: span.Merge(x.Span(), nameTok.Span)}
				continue
			}
			x = &ast.Property{Base: x, Name: nameTok.Lexeme, Span_: span.Merge(x.Span(), nameTok.Span)}
		case token.INCREMENT, token.DECREMENT:
			op := p.advance()
			x = &ast.UnaryOp{Op: op.Lexeme, X: x, Postfix: true, Span_: span.Merge(x.Span(), op.Span)}
		default:
			return x
		}
	}
}

// finishCallOrIndirect parses a trailing `(args)` after callee, emitting
// a direct Call when callee is an unresolved/function-namespace
// Reference (so Callee can stay a plain name) and an Indirect call
// otherwise (spec.md §4.4: calling through a function-pointer value).
func (p *Parser) finishCallOrIndirect(callee ast.Expr) ast.Expr {
	p.advance() // '('
	var args []ast.Expr
	for !p.check(token.RPAREN) && !p.atEnd() {
		args = append(args, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	end, _ := p.expect(token.RPAREN, "PAR003", "expected ')' after call arguments")
	sp := span.Merge(callee.Span(), end.Span)
	if ref, ok := callee.(*ast.Reference); ok {
		switch ref.Namespace {
		case ast.NSFunction, ast.NSAssemblerFunction, ast.NSIntrinsic, ast.NSUnresolved:
			return &ast.Call{Callee: ref.Name, Args: args, Span_: sp}
		}
	}
	return &ast.Indirect{Callee: callee, Args: args, Span_: sp}
}

func (p *Parser) parsePrimary() ast.Expr {
	t := p.cur()
	switch t.Kind {
	case token.INTEGER:
		p.advance()
		return &ast.IntLiteral{Text: t.Lexeme, Span_: t.Span}
	case token.FLOAT:
		p.advance()
		return &ast.FloatLiteral{Text: t.Lexeme, Span_: t.Span}
	case token.STRING:
		p.advance()
		return &ast.StringLiteral{Value: t.Lexeme, Span_: t.Span}
	case token.CHAR:
		p.advance()
		r := rune(0)
		for _, c := range t.Lexeme {
			r = c
			break
		}
		return &ast.CharLiteral{Value: r, Span_: t.Span}
	case token.TRUE:
		p.advance()
		return &ast.BoolLiteral{Value: true, Span_: t.Span}
	case token.FALSE:
		p.advance()
		return &ast.BoolLiteral{Value: false, Span_: t.Span}
	case token.NULLPTR:
		p.advance()
		return &ast.NullPtr{Span_: t.Span}
	case token.LPAREN:
		p.advance()
		x := p.parseExpr()
		end, _ := p.expect(token.RPAREN, "PAR003", "expected ')' to close parenthesized expression")
		return &ast.Group{X: x, Span_: span.Merge(t.Span, end.Span)}
	case token.LBRACKET:
		return p.parseArrayLit()
	case token.NEW:
		return p.parseAlloc()
	case token.WRITE:
		return p.parseWrite()
	case token.ASMVALUE:
		return p.parseAsmValue()
	case token.IDENTIFIER:
		return p.parseIdentOrConstructor()
	default:
		p.errorAt("PAR003", t.Span, "expected an expression, found '"+t.Lexeme+"'")
		p.advance()
		return &ast.NullPtr{Span_: t.Span}
	}
}

func (p *Parser) parseArrayLit() ast.Expr {
	start := p.advance().Span // '['
	var elems []ast.Expr
	for !p.check(token.RBRACKET) && !p.atEnd() {
		elems = append(elems, p.parseExpr())
		if !p.match(token.COMMA) {
			break
		}
	}
	end, _ := p.expect(token.RBRACKET, "PAR003", "expected ']' to close array literal")
	return &ast.ArrayLit{Elements: elems, Span_: span.Merge(start, end.Span)}
}

func (p *Parser) parseAlloc() ast.Expr {
	start := p.advance().Span // 'new'
	heap := false
	if p.check(token.IDENTIFIER) && p.cur().Lexeme == "heap" {
		p.advance()
		heap = true
	}
	ty := p.parseType()
	return &ast.Alloc{Of: ty, Heap: heap, Span_: start}
}

func (p *Parser) parseWrite() ast.Expr {
	start := p.advance().Span // 'write'
	target := p.parseExpr()
	p.expect(token.COMMA, "PAR003", "expected ',' between write target and value")
	value := p.parseExpr()
	return &ast.Write{Target: target, Value: value, Span_: span.Merge(start, value.Span())}
}

func (p *Parser) parseAsmValue() ast.Expr {
	start := p.advance().Span // 'asmvalue'
	bodyTok, _ := p.expect(token.STRING, "PAR003", "expected assembly body string")
	p.expect(token.COMMA, "PAR003", "expected ',' after assembly body")
	constraintsTok, _ := p.expect(token.STRING, "PAR003", "expected constraints string")
	var args []ast.Expr
	if p.match(token.LPAREN) {
		for !p.check(token.RPAREN) && !p.atEnd() {
			args = append(args, p.parseExpr())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN, "PAR003", "expected ')' after asmvalue arguments")
	}
	return &ast.AsmValue{Body: bodyTok.Lexeme, Constraints: constraintsTok.Lexeme, Args: args, Span_: start}
}

// parseIdentOrConstructor resolves a bare identifier against the symbol
// table, producing a Constructor when the name is a struct immediately
// followed by '{', and a resolved Reference otherwise. Like most C-family
// grammars, a struct literal directly inside an `if`/`while` condition is
// ambiguous with the following block and is not supported; callers needing
// one must parenthesize it.
func (p *Parser) parseIdentOrConstructor() ast.Expr {
	nameTok := p.advance()
	lookup := p.tab.Lookup(nameTok.Lexeme)
	if lookup.Found && lookup.Namespace == symtab.NSStruct && p.check(token.LBRACE) {
		return p.finishConstructor(nameTok.Lexeme, nameTok.Span)
	}
	ns := ast.NSUnresolved
	scopeIdx := 0
	if lookup.Found {
		ns = toNamespaceTag(lookup.Namespace)
		scopeIdx = lookup.ScopeIndex
	} else {
		p.warnAt("PAR007", nameTok.Span, "undeclared name '"+nameTok.Lexeme+"'")
	}
	return &ast.Reference{Name: nameTok.Lexeme, Namespace: ns, ScopeIndex: scopeIdx, Span_: nameTok.Span}
}

func (p *Parser) finishConstructor(name string, start span.Span) ast.Expr {
	p.advance() // '{'
	var fields []ast.FieldInit
	for !p.check(token.RBRACE) && !p.atEnd() {
		fNameTok, _ := p.expect(token.IDENTIFIER, "PAR003", "expected field name in constructor")
		p.expect(token.COLON, "PAR003", "expected ':' after field name")
		value := p.parseExpr()
		fields = append(fields, ast.FieldInit{Name: fNameTok.Lexeme, Value: value})
		if !p.match(token.COMMA) {
			break
		}
	}
	end, _ := p.expect(token.RBRACE, "PAR003", "expected '}' to close constructor")
	return &ast.Constructor{StructName: name, Fields: fields, Span_: span.Merge(start, end.Span)}
}
