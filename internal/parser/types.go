package parser

import (
	"strconv"

	"github.com/thrushlang/thrushc/internal/token"
	"github.com/thrushlang/thrushc/internal/types"
)

var primitiveIntKinds = map[token.Kind]types.IntKind{
	token.S8: types.S8, token.S16: types.S16, token.S32: types.S32,
	token.S64: types.S64, token.SSIZE: types.SSize,
	token.U8: types.U8, token.U16: types.U16, token.U32: types.U32,
	token.U64: types.U64, token.U128: types.U128, token.USIZE: types.USize,
}

var primitiveFloatKinds = map[token.Kind]types.FloatKind{
	token.F32: types.F32, token.F64: types.F64, token.F128: types.F128,
	token.FX8680: types.FX8680, token.FPPC128: types.FPPC128,
}

// parseType parses a type annotation. Custom names (structs, enums, type
// aliases) become types.Named, resolved later by the semantic phase once
// every declaration is visible (spec.md §4.5).
func (p *Parser) parseType() types.Type {
	mut := false
	if p.match(token.MUT) {
		mut = true
	}
	base := p.parseTypeAtom()
	if mut {
		return base
	}
	return types.NewConst(base)
}

func (p *Parser) parseTypeAtom() types.Type {
	t := p.cur()
	if ik, ok := primitiveIntKinds[t.Kind]; ok {
		p.advance()
		return types.Int{Kind: ik}
	}
	if fk, ok := primitiveFloatKinds[t.Kind]; ok {
		p.advance()
		return types.Float{Kind: fk}
	}
	switch {
	case t.Kind == token.BOOL:
		p.advance()
		return types.Bool{}
	case t.Kind == token.CHAR_TYPE:
		p.advance()
		return types.Char{}
	case t.Kind == token.VOID:
		p.advance()
		return types.Void{}
	case t.Kind == token.ADDR:
		p.advance()
		return types.Addr{}
	case t.Kind == token.PTR:
		p.advance()
		if p.match(token.LT) {
			inner := p.parseType()
			p.expect(token.GT, "PAR003", "expected '>' to close pointer type")
			return types.Ptr{Inner: inner}
		}
		return types.Ptr{}
	case t.Kind == token.LBRACKET:
		p.advance()
		elem := p.parseType()
		if p.match(token.SEMICOLON) {
			sizeTok, ok := p.expect(token.INTEGER, "PAR003", "expected array size after ';'")
			p.expect(token.RBRACKET, "PAR003", "expected ']' to close fixed array type")
			size := int64(0)
			if ok {
				size, _ = strconv.ParseInt(sizeTok.Lexeme, 10, 64)
			}
			return types.FixedArray{Element: elem, Size: size}
		}
		p.expect(token.RBRACKET, "PAR003", "expected ']' to close array type")
		return types.Array{Base: elem}
	case t.Kind == token.FN:
		p.advance()
		p.expect(token.LPAREN, "PAR003", "expected '(' in function type")
		var params []types.Type
		for !p.check(token.RPAREN) && !p.atEnd() {
			params = append(params, p.parseType())
			if !p.match(token.COMMA) {
				break
			}
		}
		p.expect(token.RPAREN, "PAR003", "expected ')' in function type")
		ret := types.Type(types.Void{})
		if p.match(token.ARROW) {
			ret = p.parseType()
		}
		return types.Fn{Params: params, Return: ret}
	case t.Kind == token.IDENTIFIER:
		p.advance()
		return types.Named{Name: t.Lexeme}
	default:
		p.errorAt("PAR003", t.Span, "expected a type, found '"+t.Lexeme+"'")
		p.advance()
		return types.Void{}
	}
}
