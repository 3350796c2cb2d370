package parser

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/symtab"
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// parseBlock assumes the current token is '{' and parses statements
// until the matching '}', pushing and popping a lexical scope around the
// body (spec.md §4.2's scope-push-per-block discipline).
func (p *Parser) parseBlock() *ast.Block {
	start, _ := p.expect(token.LBRACE, "PAR002", "expected '{'")
	p.tab.BeginScope()
	defer p.tab.EndScope()

	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.atEnd() {
		if s := p.parseStmt(); s != nil {
			stmts = append(stmts, s)
		}
	}
	end, _ := p.expect(token.RBRACE, "PAR002", "expected '}' to close block")
	return &ast.Block{Stmts: stmts, Span_: span.Merge(start.Span, end.Span)}
}

func (p *Parser) parseStmt() ast.Stmt {
	switch p.cur().Kind {
	case token.LOCAL:
		return p.parseLocal()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.LOOP:
		return p.parseLoop()
	case token.FOR:
		return p.parseFor()
	case token.BREAK:
		return p.parseBreak()
	case token.CONTINUE:
		return p.parseContinue()
	case token.RETURN:
		return p.parseReturn()
	case token.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprOrLLIStmt()
	}
}

func (p *Parser) parseLocal() ast.Stmt {
	start := p.advance().Span // 'local'
	mutable := p.match(token.MUT)
	nameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected local name")
	var ty types.Type
	if p.match(token.COLON) {
		ty = p.parseType()
	}
	var value ast.Expr
	if p.match(token.ASSIGN) {
		value = p.parseExpr()
	}
	end, _ := p.expect(token.SEMICOLON, "PAR002", "expected ';' after local declaration")
	l := &ast.Local{
		Name: nameTok.Lexeme, Type: ty, Value: value, Mutable: mutable,
		Metadata: ast.Metadata{Mutable: mutable}, Span_: span.Merge(start, end.Span),
	}
	if err := p.tab.Declare(symtab.NSLocal, &symtab.Symbol{Name: nameTok.Lexeme, Type: ty, Mutable: mutable, Span: l.Span_}); err != nil {
		p.errorAt("PAR007", l.Span_, err.Error())
	}
	return l
}

func (p *Parser) parseIf() ast.Stmt {
	start := p.advance().Span // 'if'
	cond := p.parseExpr()
	then := p.parseBlock()
	var elifs []ast.ElifBranch
	for p.check(token.ELIF) {
		p.advance()
		c := p.parseExpr()
		b := p.parseBlock()
		elifs = append(elifs, ast.ElifBranch{Cond: c, Body: b})
	}
	var elseBlock *ast.Block
	if p.match(token.ELSE) {
		elseBlock = p.parseBlock()
	}
	endSpan := then.Span_
	if elseBlock != nil {
		endSpan = elseBlock.Span_
	} else if len(elifs) > 0 {
		endSpan = elifs[len(elifs)-1].Body.Span_
	}
	return &ast.If{Cond: cond, Then: then, Elifs: elifs, Else: elseBlock, Span_: span.Merge(start, endSpan)}
}

func (p *Parser) parseWhile() ast.Stmt {
	start := p.advance().Span // 'while'
	cond := p.parseExpr()
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return &ast.While{Cond: cond, Body: body, Span_: span.Merge(start, body.Span_)}
}

func (p *Parser) parseLoop() ast.Stmt {
	start := p.advance().Span // 'loop'
	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return &ast.Loop{Body: body, Span_: span.Merge(start, body.Span_)}
}

func (p *Parser) parseFor() ast.Stmt {
	start := p.advance().Span // 'for'
	p.tab.BeginScope()
	defer p.tab.EndScope()

	var init *ast.Local
	if p.check(token.LOCAL) {
		if l, ok := p.parseLocal().(*ast.Local); ok {
			init = l
		}
	} else {
		p.expect(token.SEMICOLON, "PAR002", "expected ';' in for-loop initializer")
	}
	cond := p.parseExpr()
	p.expect(token.SEMICOLON, "PAR002", "expected ';' after for-loop condition")
	action := p.parseForAction()

	p.loopDepth++
	body := p.parseBlock()
	p.loopDepth--
	return &ast.For{Init: init, Cond: cond, Action: action, Body: body, Span_: span.Merge(start, body.Span_)}
}

func (p *Parser) parseForAction() ast.ForAction {
	if p.match(token.INCREMENT, token.DECREMENT) {
		op := p.toks[p.pos-1].Lexeme
		x := p.parseUnaryTarget()
		return ast.ForAction{Pre: true, Expr: &ast.UnaryOp{Op: op, X: x, Postfix: false}}
	}
	x := p.parseUnaryTarget()
	if p.match(token.INCREMENT, token.DECREMENT) {
		op := p.toks[p.pos-1].Lexeme
		return ast.ForAction{Pre: false, Expr: &ast.UnaryOp{Op: op, X: x, Postfix: true}}
	}
	return ast.ForAction{Expr: x}
}

// parseUnaryTarget parses just enough of the primary/postfix grammar to
// serve as the operand of a for-loop induction action.
func (p *Parser) parseUnaryTarget() ast.Expr {
	return p.parsePostfix()
}

func (p *Parser) parseBreak() ast.Stmt {
	t := p.advance()
	if p.loopDepth == 0 {
		p.errorAt("PAR005", t.Span, "'break' outside of a loop")
	}
	end, _ := p.expect(token.SEMICOLON, "PAR002", "expected ';' after 'break'")
	return &ast.Break{Span_: span.Merge(t.Span, end.Span)}
}

func (p *Parser) parseContinue() ast.Stmt {
	t := p.advance()
	if p.loopDepth == 0 {
		p.errorAt("PAR005", t.Span, "'continue' outside of a loop")
	}
	end, _ := p.expect(token.SEMICOLON, "PAR002", "expected ';' after 'continue'")
	return &ast.Continue{Span_: span.Merge(t.Span, end.Span)}
}

func (p *Parser) parseReturn() ast.Stmt {
	t := p.advance()
	if !p.inFunction {
		p.errorAt("PAR006", t.Span, "'return' outside of a function body")
	}
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.parseExpr()
	}
	end, _ := p.expect(token.SEMICOLON, "PAR002", "expected ';' after 'return'")
	return &ast.Return{Value: value, Span_: span.Merge(t.Span, end.Span)}
}

// parseExprOrLLIStmt parses an expression followed by ';' as an
// expression statement. It never produces an LLI binding: the parser has
// no LLI syntax, so no statement form yields an ast.LLI.
func (p *Parser) parseExprOrLLIStmt() ast.Stmt {
	start := p.cur().Span
	x := p.parseExpr()
	end, _ := p.expect(token.SEMICOLON, "PAR002", "expected ';' after expression statement")
	return &ast.ExprStmt{X: x, Span_: span.Merge(start, end.Span)}
}

