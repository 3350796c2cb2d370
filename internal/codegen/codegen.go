// Package codegen lowers a validated Thrush AST into LLVM IR (spec.md
// §4.6), grounded on
// _examples/other_examples/…dshills-alas__internal-codegen-llvm.go.go
// for how to drive github.com/llir/llvm (module/function/block
// construction, alloca-per-local, explicit terminators) and on
// original_source/src/back_end/llvm_codegen/codegen.rs for the control-
// flow block shapes (if/elif chain, while/loop back-edge pruning, for's
// pre/post induction ordering).
package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/diagnostics"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/types"
)

// loopTargets is the per-loop (start/cond, exit) block pair the
// generator keeps a stack of, so Break/Continue can resolve to the
// innermost enclosing loop (spec.md §4.6). scopeDepth records how many
// scopes were open when the loop's body began, so Break/Continue know
// how many nested scopes they are unwinding through and can deallocate
// each one's heap-allocated locals before branching.
type loopTargets struct {
	continueTo *ir.Block
	breakTo    *ir.Block
	scopeDepth int
}

// slot is a named storage location inside the current function: either
// a stack alloca (the common case) or, for a DirectRef binding, the raw
// pointer value itself with no backing alloca. heap marks a slot whose
// value is a pointer obtained from the heap allocator (spec.md §4.6
// "Allocations"), so the deallocator knows to free it at scope exit.
type slot struct {
	ptr   value.Value
	elem  irtypes.Type
	thTyp types.Type
	heap  bool
}

// scope is one lexical block's bindings, mirroring the parser's
// symtab.scope (§3.4) so end-of-block teardown can walk exactly the
// names declared in it. order preserves declaration order so the
// deallocator frees in a deterministic sequence.
type scope struct {
	vars  map[string]*slot
	order []string
}

// Context is the single mutable state threaded through one unit's code
// generation, matching spec.md §4.6/§5's "single mutable CodeGenContext,
// not reentrant".
type Context struct {
	Module *ir.Module

	funcs   map[string]*ir.Func
	globals map[string]*slot
	structs map[string]types.Struct

	fn        *ir.Func
	block     *ir.Block
	retType   types.Type
	scopes    []*scope
	loopStack []loopTargets

	// mallocFn/freeFn are the forward-declared heap allocator pair
	// spec.md §4.6 "Allocations"/"Deallocation" names, wired the same
	// way every other extern prototype is forward-declared
	// (declareFunc), grounded on sokoide-llvm5/codegen/generator.go's
	// `declare i8* @malloc(i64)` / `declare void @free(i8*)` textual
	// forward declarations.
	mallocFn *ir.Func
	freeFn   *ir.Func

	issues []diagnostics.Issue
}

// New creates an empty module ready for forward declaration, with the
// heap allocator pair already forward-declared so compileAlloc and the
// deallocator can call them from any function.
func New(name string) *Context {
	m := ir.NewModule()
	m.SourceFilename = name
	c := &Context{
		Module:  m,
		funcs:   map[string]*ir.Func{},
		globals: map[string]*slot{},
		structs: map[string]types.Struct{},
	}
	c.mallocFn = m.NewFunc("malloc", irtypes.NewPointer(irtypes.I8), ir.NewParam("size", irtypes.I64))
	c.freeFn = m.NewFunc("free", irtypes.Void, ir.NewParam("ptr", irtypes.NewPointer(irtypes.I8)))
	return c
}

func (c *Context) bug(sp span.Span, file string, line int, msg string) {
	c.issues = append(c.issues, diagnostics.NewBug("CODEGEN000", msg, sp, file, line))
}

func (c *Context) Issues() []diagnostics.Issue { return c.issues }

// Generate runs the full pipeline: forward declaration, then body
// emission for every function, in that order so mutually recursive
// functions resolve regardless of textual position (mirroring the
// parser's own two-pass shape).
func Generate(file *ast.File) (*ir.Module, []diagnostics.Issue) {
	c := New(file.Path)
	c.collectStructs(file)
	c.forwardDeclare(file)
	for _, d := range file.Decls {
		c.codegenDeclaration(d)
	}
	return c.Module, c.issues
}

func (c *Context) collectStructs(file *ast.File) {
	for _, d := range file.Decls {
		if sd, ok := d.(*ast.StructDecl); ok {
			c.structs[sd.Name] = types.Struct{Name: sd.Name, Fields: sd.Fields}
		}
	}
}

func (c *Context) resolveNamed(t types.Type) types.Type {
	if named, ok := t.(types.Named); ok {
		if s, ok := c.structs[named.Name]; ok {
			return s
		}
	}
	return t
}

// forwardDeclare adds every function prototype, global, and constant to
// the module before any body is emitted (spec.md §4.6 "Forward
// declaration").
func (c *Context) forwardDeclare(file *ast.File) {
	for _, d := range file.Decls {
		switch n := d.(type) {
		case *ast.Function:
			c.declareFunc(n.Name, n.Params, n.Return, attrSetVariadic(n.Attributes))
		case *ast.AssemblerFunction:
			c.declareFunc(n.Name, n.Params, n.Return, attrSetVariadic(n.Attributes))
		case *ast.Intrinsic:
			c.declareFunc(n.Name, n.Params, n.Return, attrSetVariadic(n.Attributes))
		case *ast.StaticDecl:
			c.declareGlobal(n.Name, n.Type)
		case *ast.ConstDecl:
			c.declareGlobal(n.Name, n.Type)
		}
	}
}

func (c *Context) declareFunc(name string, params []ast.Param, ret types.Type, variadic bool) {
	retType := c.llvmType(ret)
	llParams := make([]*ir.Param, len(params))
	for i, p := range params {
		llParams[i] = ir.NewParam(p.Name, c.llvmType(p.Type))
	}
	fn := c.Module.NewFunc(name, retType, llParams...)
	if variadic {
		fn.Sig.Variadic = true
	}
	c.funcs[name] = fn
}

func (c *Context) declareGlobal(name string, t types.Type) {
	elem := c.llvmType(t)
	zero := zeroValue(elem)
	g := c.Module.NewGlobalDef(name, zero)
	c.globals[name] = &slot{ptr: g, elem: elem, thTyp: t}
}

// ---- declarations ----

func (c *Context) codegenDeclaration(d ast.Decl) {
	switch n := d.(type) {
	case *ast.Function:
		c.codegenFunction(n)
	case *ast.AssemblerFunction:
		// Inline assembly bodies are opaque text captured verbatim by
		// the parser (see internal/parser/decl.go's rawTokenText); the
		// generator does not attempt to translate it into LLVM IR and
		// leaves the declared prototype as extern, to be resolved by
		// the external assembler/linker step.
	case *ast.GlobalAssembler:
		// same as above, at module scope.
	}
}

func (c *Context) codegenFunction(n *ast.Function) {
	if n.Body == nil {
		return // @extern function: prototype only.
	}
	fn := c.funcs[n.Name]
	c.fn = fn
	c.retType = n.Return
	entry := fn.NewBlock("entry")
	c.block = entry

	c.pushScope()
	for i, p := range n.Params {
		pt := c.llvmType(p.Type)
		a := c.block.NewAlloca(pt)
		a.SetName(p.Name + ".addr")
		c.block.NewStore(fn.Params[i], a)
		c.bind(p.Name, &slot{ptr: a, elem: pt, thTyp: p.Type})
	}

	c.codegenBlock(n.Body)
	c.popScope()

	if c.block.Term == nil {
		if types.IsVoid(n.Return) {
			c.block.NewRet(nil)
		} else {
			c.block.NewRet(zeroValue(c.llvmType(n.Return)))
		}
	}
	c.fn = nil
	c.block = nil
}

// ---- blocks & scopes ----

func (c *Context) pushScope() { c.scopes = append(c.scopes, &scope{vars: map[string]*slot{}}) }
func (c *Context) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }

func (c *Context) bind(name string, s *slot) {
	top := c.scopes[len(c.scopes)-1]
	if _, exists := top.vars[name]; !exists {
		top.order = append(top.order, name)
	}
	top.vars[name] = s
}

func (c *Context) lookup(name string) *slot {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if s, ok := c.scopes[i].vars[name]; ok {
			return s
		}
	}
	if s, ok := c.globals[name]; ok {
		return s
	}
	return nil
}

func (c *Context) codegenBlock(b *ast.Block) {
	c.pushScope()
	for _, s := range b.Stmts {
		if c.block.Term != nil {
			break // a prior statement already terminated this block.
		}
		c.codegenStmt(s)
	}
	// If the block already terminated (return/break/continue), that
	// statement's own deallocation already walked this scope (and, for
	// a return, every enclosing one) — this is the "flag suppresses
	// double-emission" spec.md §4.6 "Deallocation" names. Only a normal
	// fall-through needs this scope's own heap locals freed here.
	if c.block.Term == nil {
		c.deallocScope(c.scopes[len(c.scopes)-1])
	}
	c.popScope()
}

// deallocScope emits a free for every heap-tracked slot bound directly
// in sc, in declaration order, reloading the current pointer value from
// its backing alloca first since the slot itself is a mutable local.
func (c *Context) deallocScope(sc *scope) {
	for _, name := range sc.order {
		s := sc.vars[name]
		if !s.heap {
			continue
		}
		ptrVal := c.block.NewLoad(s.elem, s.ptr)
		c.block.NewCall(c.freeFn, c.block.NewBitCast(ptrVal, irtypes.NewPointer(irtypes.I8)))
	}
}

// deallocScopesFrom frees every heap-tracked local in scopes [from,
// len(c.scopes)), innermost first — used by `return`, which exits every
// scope currently open in the function at once rather than just the
// one the statement lexically sits in.
func (c *Context) deallocScopesFrom(from int) {
	for i := len(c.scopes) - 1; i >= from; i-- {
		c.deallocScope(c.scopes[i])
	}
}

// attrSetVariadic reports whether fn's LLVM prototype should be marked
// vararg: spec.md §4.6 reserves this for @ignore functions (typically
// extern C functions like printf whose full signature isn't declared).
func attrSetVariadic(set *attrs.Set) bool {
	return set != nil && set.Has(attrs.Ignore)
}
