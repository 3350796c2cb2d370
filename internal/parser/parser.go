// Package parser implements Thrush's two-pass recursive-descent parser
// (spec.md §4.2): a forward-declaration pass registers every top-level
// name and signature in the symbol table before any function body is
// parsed, so mutually recursive functions resolve regardless of
// declaration order; a second pass then parses each body in turn.
package parser

import (
	"fmt"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/symtab"
	"github.com/thrushlang/thrushc/internal/token"
)

// Parser walks a flat token slice produced by internal/lexer.
type Parser struct {
	file   string
	toks   []token.Token
	pos    int
	tab    *symtab.Table
	issues []diagnostics.Issue

	// loopDepth tracks nested While/Loop/For bodies so Break/Continue can
	// be rejected outside of one (spec.md §4.6 invariant).
	loopDepth int
	// inFunction is set while a function body is being parsed, so a
	// `return` outside of one can be rejected; return values are checked
	// against the signature later, by the semantic phase.
	inFunction bool
}

// stub records a forward-declared top-level declaration's body token
// range, deferred to pass two.
type stub struct {
	decl       ast.Decl
	bodyStart  int // index into toks of the body's opening brace, or -1
	bodyEnd    int // index one past the matching closing brace
	asmRaw     bool
}

// New creates a Parser over toks, sharing tab as the destination symbol
// table (callers typically pass a fresh *symtab.Table per compilation
// unit).
func New(file string, toks []token.Token, tab *symtab.Table) *Parser {
	return &Parser{file: file, toks: toks, tab: tab}
}

// Issues returns every diagnostic recorded while parsing.
func (p *Parser) Issues() []diagnostics.Issue { return p.issues }

// ---- token navigation ----

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(offset int) token.Token {
	i := p.pos + offset
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) check(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) match(ks ...token.Kind) bool {
	for _, k := range ks {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) atEnd() bool { return p.cur().Kind == token.EOF }

func (p *Parser) expect(k token.Kind, code, msg string) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errorAt(code, p.cur().Span, msg+fmt.Sprintf(" (found %q)", p.cur().Lexeme))
	return p.cur(), false
}

func (p *Parser) errorAt(code string, sp span.Span, msg string) {
	p.issues = append(p.issues, diagnostics.NewError(code, msg, sp))
}

func (p *Parser) warnAt(code string, sp span.Span, msg string) {
	p.issues = append(p.issues, diagnostics.NewWarning(code, msg, sp))
}

// synchronize recovers from a parse error by skipping tokens until the
// next plausible statement or declaration start, so a single malformed
// construct doesn't cascade into spurious follow-on errors (spec.md §5:
// "record and continue rather than abort the unit").
func (p *Parser) synchronize() {
	for !p.atEnd() {
		if p.cur().Kind == token.SEMICOLON {
			p.advance()
			return
		}
		switch p.cur().Kind {
		case token.FN, token.STRUCT, token.ENUM, token.CONST, token.STATIC,
			token.ASM, token.RBRACE, token.LOCAL, token.IF, token.WHILE,
			token.LOOP, token.FOR, token.RETURN, token.BREAK, token.CONTINUE:
			return
		}
		p.advance()
	}
}

// ParseFile runs the full two-pass parse of one translation unit.
func ParseFile(file string, toks []token.Token, tab *symtab.Table) (*ast.File, []diagnostics.Issue) {
	p := New(file, toks, tab)
	stubs := p.passOneForwardDeclare()
	decls := p.passTwoBodies(stubs)
	return &ast.File{Path: file, Decls: decls}, p.issues
}
