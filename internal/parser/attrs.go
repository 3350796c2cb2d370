package parser

import (
	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/token"
)

// attrNames maps an `@name` lexeme to its attrs.Kind (spec.md §3.5's
// attribute grammar: `@name` or `@name("payload")`).
var attrNames = map[string]attrs.Kind{
	"public":         attrs.Public,
	"extern":         attrs.Extern,
	"inline":         attrs.Inline,
	"alwaysinline":   attrs.AlwaysInline,
	"inlinehint":     attrs.InlineHint,
	"noinline":       attrs.NoInline,
	"convention":     attrs.Convention,
	"linkage":        attrs.Linkage,
	"hot":            attrs.Hot,
	"nounwind":       attrs.NoUnwind,
	"optfuzzing":     attrs.OptFuzzing,
	"minsize":        attrs.MinSize,
	"weakstack":      attrs.WeakStack,
	"strongstack":    attrs.StrongStack,
	"precisefloats":  attrs.PreciseFloats,
	"packed":         attrs.Packed,
	"heap":           attrs.Heap,
	"ignore":         attrs.Ignore,
	"constructor":    attrs.Constructor,
	"destructor":     attrs.Destructor,
	"asmsyntax":      attrs.AsmSyntax,
	"asmsideeffects": attrs.AsmSideEffects,
	"asmalignstack":  attrs.AsmAlignStack,
	"asmthrow":       attrs.AsmThrow,
}

// parseAttributes consumes zero or more `@name` / `@name("payload")`
// clauses preceding a declaration.
func (p *Parser) parseAttributes() *attrs.Set {
	var list []attrs.Attribute
	for p.check(token.AT) {
		start := p.advance().Span // consume '@'
		nameTok, ok := p.expect(token.IDENTIFIER, "PAR004", "expected attribute name after '@'")
		if !ok {
			continue
		}
		kind, known := attrNames[nameTok.Lexeme]
		if !known {
			p.warnAt("PAR004", nameTok.Span, "unknown attribute '"+nameTok.Lexeme+"'")
			continue
		}
		a := attrs.Attribute{Kind: kind, Span: span.Merge(start, nameTok.Span)}
		if p.match(token.LPAREN) {
			if p.check(token.STRING) || p.check(token.IDENTIFIER) {
				payload := p.advance()
				a.String = payload.Lexeme
			}
			p.expect(token.RPAREN, "PAR004", "expected ')' after attribute payload")
		}
		list = append(list, a)
	}
	return attrs.NewSet(list...)
}
