// Package driver orchestrates the per-unit pipeline (spec.md §2, §7):
// lex, parse, run semantic analyses, lower to LLVM IR, decorate with
// metadata/optimizer attributes, then emit requested artifacts. It owns
// error gating between phases — a non-empty error set at a phase
// boundary skips every later phase for that unit — and is the one
// caller of internal/lexer, internal/parser, internal/semantic,
// internal/codegen, internal/metadata, and internal/optimizer for a
// given file.
package driver

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/codegen"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/lexer"
	"github.com/thrushlang/thrushc/internal/metadata"
	"github.com/thrushlang/thrushc/internal/optimizer"
	"github.com/thrushlang/thrushc/internal/options"
	"github.com/thrushlang/thrushc/internal/parser"
	"github.com/thrushlang/thrushc/internal/semantic"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/symtab"
	"github.com/thrushlang/thrushc/internal/token"
)

// Unit is the per-file result of CompileFile: whichever artifacts were
// produced before the pipeline either completed or was gated off by
// errors.
type Unit struct {
	Path      string
	Tokens    []token.Token
	AST       *ast.File
	IR        string // rendered LLVM IR, set once codegen succeeds
	ObjectOut string // path written when Emit==EmitObject and object emission succeeds

	Diag *diagnostics.Diagnostician
}

// CompileFile runs one .thrush (or .🐦) unit end to end against opts,
// logging phase boundaries through log and flushing diagnostics as soon
// as each phase finishes (spec.md §7: "errors from one phase are visible
// before the next phase decides whether to proceed").
func CompileFile(path string, opts *options.Options, log *diagnostics.Logger, stderr io.Writer) (*Unit, bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "error: cannot read %s: %v\n", path, err)
		return nil, false
	}

	u := &Unit{Path: path, Diag: diagnostics.New(path, src)}

	// ---- lexer ----
	log.Phase("lexing " + path)
	l, err := lexer.New(path, src)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return u, false
	}
	toks, issues, err := l.Lex()
	u.Tokens = toks
	u.Diag.AddAll(issues)
	if err != nil {
		// A lexer Panic (TooBigFile/TooManyTokens): hard stop, per §4.1.
		if p, ok := err.(*lexer.Panic); ok {
			u.Diag.Add(diagnostics.NewError(p.Code, p.Message, span.Span{File: path}))
		}
		u.Diag.Flush(stderr)
		return u, false
	}
	u.Diag.Flush(stderr)
	if u.Diag.HasErrors() {
		return u, false
	}
	if contains(opts.Emit, options.EmitTokens) {
		dumpTokens(opts.BuildDir, path, toks)
	}

	// ---- parser + symbol table ----
	log.Phase("parsing " + path)
	tab := symtab.New()
	file, pissues := parser.ParseFile(path, toks, tab)
	u.AST = file
	u.Diag.AddAll(pissues)
	u.Diag.Flush(stderr)
	if u.Diag.HasErrors() {
		return u, false
	}
	if contains(opts.Emit, options.EmitAST) {
		dumpAST(opts.BuildDir, path, file)
	}

	// ---- semantic analyses: attribute checker, linter, type checker ----
	log.Phase("semantic analysis " + path)
	for _, d := range file.Decls {
		applicant, set, ok := semantic.ApplicantOf(d)
		if !ok {
			continue
		}
		u.Diag.AddAll(semantic.CheckAttributes(applicant, set))
	}
	u.Diag.AddAll(semantic.LintFile(file))
	u.Diag.AddAll(semantic.CheckFile(file))
	u.Diag.Flush(stderr)
	if u.Diag.HasErrors() {
		return u, false
	}

	// ---- codegen ----
	log.Phase("codegen " + path)
	mod, cissues := codegen.Generate(file)
	u.Diag.AddAll(cissues)
	u.Diag.Flush(stderr)
	if u.Diag.HasErrors() {
		return u, false
	}

	// ---- metadata + optimizer ----
	log.Phase("metadata " + path)
	metadata.Setup(mod, opts, resolveTarget(opts))
	log.Phase("optimizing " + path)
	optimizer.Run(mod, opts)

	u.IR = mod.String()
	log.Done(path)

	// ---- emission ----
	if err := emit(u, opts); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return u, false
	}

	return u, true
}

func contains(e options.Emit, want options.Emit) bool { return e == want }

// resolveTarget builds the metadata.TargetInfo the options don't fully
// capture on their own; host-triple/target-detection logic is the
// external "target" collaborator spec.md §1 leaves unspecified, so this
// is a minimal stand-in covering the fields internal/metadata consults.
func resolveTarget(opts *options.Options) metadata.TargetInfo {
	triple := opts.Triple
	return metadata.TargetInfo{
		Triple:         triple,
		Arch:           opts.Target,
		IsDarwin:       strings.Contains(triple, "darwin") || strings.Contains(triple, "apple"),
		HasPosixThread: !strings.Contains(triple, "windows"),
	}
}

func dumpTokens(buildDir, path string, toks []token.Token) {
	var b strings.Builder
	for _, t := range toks {
		fmt.Fprintf(&b, "%s\n", t.String())
	}
	writeArtifact(buildDir, path, "tokens", b.String())
}

func dumpAST(buildDir, path string, file *ast.File) {
	var b strings.Builder
	for _, d := range file.Decls {
		fmt.Fprintf(&b, "%T\n", d)
	}
	writeArtifact(buildDir, path, "ast", b.String())
}

func writeArtifact(buildDir, path, ext, content string) {
	if buildDir == "" {
		return
	}
	_ = os.MkdirAll(buildDir, 0o755)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	out := filepath.Join(buildDir, base+"."+ext)
	_ = os.WriteFile(out, []byte(content), 0o644)
}
