package parser

import (
	"strings"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/symtab"
	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

// passOneForwardDeclare scans the whole token stream once, fully parsing
// every declaration's signature and registering it in the symbol table,
// but deferring function/assembler-function bodies to stub entries that
// passTwoBodies fills in afterwards (spec.md §4.2).
func (p *Parser) passOneForwardDeclare() []*stub {
	var stubs []*stub
	for !p.atEnd() {
		attrSet := p.parseAttributes()
		switch p.cur().Kind {
		case token.FN:
			stubs = append(stubs, p.declareFunction(attrSet))
		case token.STRUCT:
			stubs = append(stubs, p.declareStruct(attrSet))
		case token.ENUM:
			stubs = append(stubs, p.declareEnum(attrSet))
		case token.CONST:
			stubs = append(stubs, p.declareConst(attrSet))
		case token.STATIC:
			stubs = append(stubs, p.declareStatic(attrSet))
		case token.ASM:
			if s := p.declareGlobalAssembler(); s != nil {
				stubs = append(stubs, s)
			}
		case token.EOF:
			return stubs
		default:
			p.errorAt("PAR001", p.cur().Span, "expected a top-level declaration, found '"+p.cur().Lexeme+"'")
			p.advance()
			p.synchronize()
		}
	}
	return stubs
}

// passTwoBodies walks the recorded stubs in file order, parsing each
// deferred function/assembler-function body with every global name
// already visible in the symbol table.
func (p *Parser) passTwoBodies(stubs []*stub) []ast.Decl {
	decls := make([]ast.Decl, 0, len(stubs))
	for _, st := range stubs {
		decls = append(decls, st.decl)
		if st.bodyStart < 0 {
			continue
		}
		p.pos = st.bodyStart
		switch d := st.decl.(type) {
		case *ast.Function:
			p.inFunction = true
			p.tab.BeginParams()
			for _, param := range d.Params {
				p.tab.Declare(symtab.NSParameter, &symtab.Symbol{Name: param.Name, Type: param.Type, Span: param.Span_})
			}
			d.Body = p.parseBlock()
			p.tab.EndParams()
			p.inFunction = false
		case *ast.AssemblerFunction:
			d.AsmBody = p.rawTokenText(st.bodyStart, st.bodyEnd)
		}
	}
	return decls
}

// skipBalanced assumes the current token is LBRACE and advances past the
// matching RBRACE, returning the [start, end) token index range of the
// block including both braces.
func (p *Parser) skipBalanced() (int, int) {
	start := p.pos
	depth := 0
	for !p.atEnd() {
		switch p.cur().Kind {
		case token.LBRACE:
			depth++
		case token.RBRACE:
			depth--
			if depth == 0 {
				p.advance()
				return start, p.pos
			}
		}
		p.advance()
	}
	return start, p.pos
}

// rawTokenText reconstructs a best-effort source rendering of the token
// range [start, end) by joining lexemes with single spaces, used for
// inline-assembly bodies where the original whitespace/formatting
// doesn't matter to the downstream assembler.
func (p *Parser) rawTokenText(start, end int) string {
	var b strings.Builder
	for i := start; i < end && i < len(p.toks); i++ {
		if i > start {
			b.WriteByte(' ')
		}
		b.WriteString(p.toks[i].Lexeme)
	}
	return b.String()
}

func (p *Parser) parseParams() []ast.Param {
	p.expect(token.LPAREN, "PAR002", "expected '(' to begin parameter list")
	var params []ast.Param
	for !p.check(token.RPAREN) && !p.atEnd() {
		nameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected parameter name")
		p.expect(token.COLON, "PAR002", "expected ':' after parameter name")
		ty := p.parseType()
		params = append(params, ast.Param{Name: nameTok.Lexeme, Type: ty, Span_: nameTok.Span})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN, "PAR002", "expected ')' to end parameter list")
	return params
}

func paramTypes(params []ast.Param) []types.Type {
	out := make([]types.Type, len(params))
	for i, pa := range params {
		out[i] = pa.Type
	}
	return out
}

// declareFunction parses a function's full signature and, depending on
// what follows, classifies it as a normal Function (`{ ... }` body), an
// Intrinsic (bare `;`, declare-only), or an AssemblerFunction (`asm { ...
// }` raw body) — spec.md §3.1's three declaration shapes sharing one
// header grammar.
func (p *Parser) declareFunction(attrSet *attrs.Set) *stub {
	start := p.advance().Span // 'fn'
	nameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected function name after 'fn'")
	params := p.parseParams()
	ret := types.Type(types.Void{})
	if p.match(token.ARROW) {
		ret = p.parseType()
	}
	fnType := types.Fn{Params: paramTypes(params), Return: ret}

	switch {
	case p.match(token.SEMICOLON):
		d := &ast.Intrinsic{Name: nameTok.Lexeme, Params: params, Return: ret, Attributes: attrSet, Span_: span.Merge(start, nameTok.Span)}
		p.declareSym(symtab.NSIntrinsic, nameTok.Lexeme, fnType, d)
		return &stub{decl: d, bodyStart: -1}
	case p.match(token.ASM):
		st, en := p.skipBalanced()
		d := &ast.AssemblerFunction{Name: nameTok.Lexeme, Params: params, Return: ret, Attributes: attrSet, Span_: span.Merge(start, nameTok.Span)}
		p.declareSym(symtab.NSAssemblerFunction, nameTok.Lexeme, fnType, d)
		return &stub{decl: d, bodyStart: st, bodyEnd: en, asmRaw: true}
	default:
		d := &ast.Function{
			Name: nameTok.Lexeme, Params: params, Return: ret, Attributes: attrSet,
			IsEntry: nameTok.Lexeme == "main", Span_: span.Merge(start, nameTok.Span),
		}
		p.declareSym(symtab.NSFunction, nameTok.Lexeme, fnType, d)
		if !p.check(token.LBRACE) {
			p.errorAt("PAR002", p.cur().Span, "expected '{' to begin function body")
			return &stub{decl: d, bodyStart: -1}
		}
		st, en := p.skipBalanced()
		return &stub{decl: d, bodyStart: st, bodyEnd: en}
	}
}

func (p *Parser) declareSym(ns symtab.Namespace, name string, ty types.Type, decl ast.Decl) {
	if err := p.tab.Declare(ns, &symtab.Symbol{Name: name, Type: ty, Decl: decl, Span: decl.Span()}); err != nil {
		p.errorAt("PAR007", decl.Span(), err.Error())
	}
}

func (p *Parser) declareStruct(attrSet *attrs.Set) *stub {
	start := p.advance().Span // 'struct'
	nameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected struct name")
	p.expect(token.LBRACE, "PAR002", "expected '{' to begin struct body")
	var fields []types.Field
	for !p.check(token.RBRACE) && !p.atEnd() {
		fNameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected field name")
		p.expect(token.COLON, "PAR002", "expected ':' after field name")
		fields = append(fields, types.Field{Name: fNameTok.Lexeme, Type: p.parseType()})
		if !p.match(token.COMMA) {
			break
		}
	}
	end, _ := p.expect(token.RBRACE, "PAR002", "expected '}' to end struct body")
	d := &ast.StructDecl{Name: nameTok.Lexeme, Fields: fields, Attributes: attrSet, Span_: span.Merge(start, end.Span)}
	structType := types.Struct{Name: nameTok.Lexeme, Fields: fields, Modifiers: types.StructModifiers{Packed: attrSet.Has(attrs.Packed)}}
	p.declareSym(symtab.NSStruct, nameTok.Lexeme, structType, d)
	return &stub{decl: d, bodyStart: -1}
}

func (p *Parser) declareEnum(attrSet *attrs.Set) *stub {
	start := p.advance().Span // 'enum'
	nameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected enum name")
	underlying := types.Type(types.Int{Kind: types.S32})
	if p.match(token.COLON) {
		underlying = p.parseType()
	}
	p.expect(token.LBRACE, "PAR002", "expected '{' to begin enum body")
	var variants []ast.EnumVariant
	for !p.check(token.RBRACE) && !p.atEnd() {
		vNameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected variant name")
		var value ast.Expr
		if p.match(token.ASSIGN) {
			value = p.parseExpr()
		}
		variants = append(variants, ast.EnumVariant{Name: vNameTok.Lexeme, Value: value})
		if !p.match(token.COMMA) {
			break
		}
	}
	end, _ := p.expect(token.RBRACE, "PAR002", "expected '}' to end enum body")
	d := &ast.EnumDecl{Name: nameTok.Lexeme, Underlying: underlying, Variants: variants, Attributes: attrSet, Span_: span.Merge(start, end.Span)}
	p.declareSym(symtab.NSEnum, nameTok.Lexeme, underlying, d)
	return &stub{decl: d, bodyStart: -1}
}

func (p *Parser) declareConst(attrSet *attrs.Set) *stub {
	start := p.advance().Span // 'const'
	nameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected constant name")
	p.expect(token.COLON, "PAR002", "expected ':' after constant name")
	ty := p.parseType()
	p.expect(token.ASSIGN, "PAR002", "expected '=' in constant declaration")
	value := p.parseExpr()
	end, _ := p.expect(token.SEMICOLON, "PAR002", "expected ';' after constant declaration")
	d := &ast.ConstDecl{Name: nameTok.Lexeme, Type: ty, Value: value, Attributes: attrSet, Span_: span.Merge(start, end.Span)}
	p.declareSym(symtab.NSConstant, nameTok.Lexeme, types.NewConst(ty), d)
	return &stub{decl: d, bodyStart: -1}
}

func (p *Parser) declareStatic(attrSet *attrs.Set) *stub {
	start := p.advance().Span // 'static'
	nameTok, _ := p.expect(token.IDENTIFIER, "PAR002", "expected static name")
	p.expect(token.COLON, "PAR002", "expected ':' after static name")
	ty := p.parseType()
	p.expect(token.ASSIGN, "PAR002", "expected '=' in static declaration")
	value := p.parseExpr()
	end, _ := p.expect(token.SEMICOLON, "PAR002", "expected ';' after static declaration")
	d := &ast.StaticDecl{Name: nameTok.Lexeme, Type: ty, Value: value, Attributes: attrSet, Span_: span.Merge(start, end.Span)}
	p.declareSym(symtab.NSStatic, nameTok.Lexeme, ty, d)
	return &stub{decl: d, bodyStart: -1}
}

func (p *Parser) declareGlobalAssembler() *stub {
	start := p.advance().Span // 'asm'
	if !p.check(token.LBRACE) {
		p.errorAt("PAR002", p.cur().Span, "expected '{' to begin global assembler block")
		return nil
	}
	st, en := p.skipBalanced()
	body := p.rawTokenText(st+1, en-1)
	d := &ast.GlobalAssembler{Body: body, Span_: span.Merge(start, p.toks[en-1].Span)}
	return &stub{decl: d, bodyStart: -1}
}
