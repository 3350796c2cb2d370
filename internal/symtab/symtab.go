// Package symtab implements the multi-namespace scoped symbol table
// spec.md §3.4 describes: a stack of lexical scopes plus several global
// namespaces, with lookup returning a single discriminated result that
// names which namespace matched (spec.md §9's suggested cleanup over the
// original's tuple-of-options).
package symtab

import (
	"fmt"

	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/span"
	"github.com/thrushlang/thrushc/internal/types"
)

// Namespace identifies one of the partitions listed in spec.md §3.4's
// table.
type Namespace int

const (
	NSFunction Namespace = iota
	NSAssemblerFunction
	NSIntrinsic
	NSStruct
	NSEnum
	NSCustomType
	NSConstant
	NSStatic
	NSLocal
	NSLLI
	NSParameter
)

// globalOnly reports whether this namespace is looked up as "global only"
// (functions/assembler funcs/intrinsics) rather than scoped.
func (n Namespace) globalOnly() bool {
	return n == NSFunction || n == NSAssemblerFunction || n == NSIntrinsic
}

func (n Namespace) flatParams() bool {
	return n == NSParameter
}

// Symbol is one entry in the table: a name bound to a type (for
// value-like namespaces) and/or a declaration node.
type Symbol struct {
	Name      string
	Namespace Namespace
	Type      types.Type
	Decl      ast.Decl
	Span      span.Span
	Mutable   bool
}

// scope is one lexical level: a block, loop, or function body.
type scope struct {
	locals map[string]*Symbol
	llis   map[string]*Symbol
}

func newScope() *scope {
	return &scope{locals: map[string]*Symbol{}, llis: map[string]*Symbol{}}
}

// Table is the whole symbol table for one compilation unit. It is not
// safe for concurrent use, matching spec.md §5's single-threaded model.
type Table struct {
	functions   map[string]*Symbol
	asmFuncs    map[string]*Symbol
	intrinsics  map[string]*Symbol
	structs     []map[string]*Symbol // index 0 = global; scoped layers pushed/popped alongside scopes
	enums       []map[string]*Symbol
	customTypes []map[string]*Symbol
	constants   []map[string]*Symbol
	statics     []map[string]*Symbol

	scopes []*scope
	params map[string]*Symbol
}

func New() *Table {
	t := &Table{
		functions:   map[string]*Symbol{},
		asmFuncs:    map[string]*Symbol{},
		intrinsics:  map[string]*Symbol{},
		structs:     []map[string]*Symbol{{}},
		enums:       []map[string]*Symbol{{}},
		customTypes: []map[string]*Symbol{{}},
		constants:   []map[string]*Symbol{{}},
		statics:     []map[string]*Symbol{{}},
		params:      map[string]*Symbol{},
	}
	return t
}

// BeginScope pushes a new lexical scope. Every block, loop, and
// control-flow construct calls this on entry (spec.md §4.2, §4.6).
func (t *Table) BeginScope() {
	t.scopes = append(t.scopes, newScope())
	t.structs = append(t.structs, map[string]*Symbol{})
	t.enums = append(t.enums, map[string]*Symbol{})
	t.customTypes = append(t.customTypes, map[string]*Symbol{})
	t.constants = append(t.constants, map[string]*Symbol{})
	t.statics = append(t.statics, map[string]*Symbol{})
}

// EndScope pops the innermost lexical scope. Called on every exit path,
// including error paths (spec.md §5).
func (t *Table) EndScope() {
	if len(t.scopes) == 0 {
		return
	}
	n := len(t.scopes) - 1
	t.scopes = t.scopes[:n]
	t.structs = t.structs[:len(t.structs)-1]
	t.enums = t.enums[:len(t.enums)-1]
	t.customTypes = t.customTypes[:len(t.customTypes)-1]
	t.constants = t.constants[:len(t.constants)-1]
	t.statics = t.statics[:len(t.statics)-1]
}

// ScopeDepth reports the current nesting depth (0 = global only).
func (t *Table) ScopeDepth() int { return len(t.scopes) }

// BeginParams/EndParams bracket a function's flat parameter namespace,
// cleared at function exit (spec.md §3.4's "parameters: per-function,
// flat" row, and §5: "acquire on entry, clear on return").
func (t *Table) BeginParams() { t.params = map[string]*Symbol{} }
func (t *Table) EndParams()   { t.params = map[string]*Symbol{} }

// ErrAlreadyDeclared matches spec.md §3.4's invariant: "no two
// declarations in the same scope/namespace share a name".
type ErrAlreadyDeclared struct {
	Name      string
	Namespace Namespace
}

func (e *ErrAlreadyDeclared) Error() string {
	return fmt.Sprintf("%q is already declared in this scope", e.Name)
}

// Declare binds name into ns at the appropriate level (global for
// globalOnly namespaces, current scope otherwise), failing if the name
// is already bound in that same scope/namespace.
func (t *Table) Declare(ns Namespace, sym *Symbol) error {
	sym.Namespace = ns
	switch ns {
	case NSFunction:
		return declareFlat(t.functions, sym)
	case NSAssemblerFunction:
		return declareFlat(t.asmFuncs, sym)
	case NSIntrinsic:
		return declareFlat(t.intrinsics, sym)
	case NSParameter:
		return declareFlat(t.params, sym)
	case NSStruct:
		return declareLayer(t.structs, t.layerIndex(), sym)
	case NSEnum:
		return declareLayer(t.enums, t.layerIndex(), sym)
	case NSCustomType:
		return declareLayer(t.customTypes, t.layerIndex(), sym)
	case NSConstant:
		return declareLayer(t.constants, t.layerIndex(), sym)
	case NSStatic:
		return declareLayer(t.statics, t.layerIndex(), sym)
	case NSLocal:
		return t.declareScoped(func(s *scope) map[string]*Symbol { return s.locals }, sym)
	case NSLLI:
		return t.declareScoped(func(s *scope) map[string]*Symbol { return s.llis }, sym)
	}
	return fmt.Errorf("unknown namespace %v", ns)
}

// layerIndex returns the index into the scoped-global slices (structs,
// enums, ...) that corresponds to "global" when no scope is open, or the
// innermost open scope otherwise.
func (t *Table) layerIndex() int {
	if len(t.structs) == 0 {
		return 0
	}
	return len(t.structs) - 1
}

func declareFlat(m map[string]*Symbol, sym *Symbol) error {
	if _, exists := m[sym.Name]; exists {
		return &ErrAlreadyDeclared{Name: sym.Name, Namespace: sym.Namespace}
	}
	m[sym.Name] = sym
	return nil
}

func declareLayer(layers []map[string]*Symbol, idx int, sym *Symbol) error {
	if _, exists := layers[idx][sym.Name]; exists {
		return &ErrAlreadyDeclared{Name: sym.Name, Namespace: sym.Namespace}
	}
	layers[idx][sym.Name] = sym
	return nil
}

func (t *Table) declareScoped(pick func(*scope) map[string]*Symbol, sym *Symbol) error {
	if len(t.scopes) == 0 {
		t.BeginScope()
	}
	s := t.scopes[len(t.scopes)-1]
	m := pick(s)
	if _, exists := m[sym.Name]; exists {
		return &ErrAlreadyDeclared{Name: sym.Name, Namespace: sym.Namespace}
	}
	m[sym.Name] = sym
	return nil
}

// Result is the discriminated lookup outcome spec.md §9 recommends in
// place of a tuple-of-options: which namespace matched and, for scoped
// kinds, the matching scope index (innermost = highest index).
type Result struct {
	Found      bool
	Namespace  Namespace
	ScopeIndex int
	Symbol     *Symbol
}

// Lookup searches every namespace in the order spec.md §3.4's table
// prescribes: parameters and locals/LLIs innermost-first, then scoped
// globals (structs/enums/custom types/constants/statics) innermost-first
// then global, then the flat global-only namespaces. A local shadowing a
// global is distinguished by ScopeIndex/Namespace rather than by
// overwriting the global entry.
func (t *Table) Lookup(name string) Result {
	if sym, ok := t.params[name]; ok {
		return Result{Found: true, Namespace: NSParameter, Symbol: sym}
	}
	for i := len(t.scopes) - 1; i >= 0; i-- {
		if sym, ok := t.scopes[i].locals[name]; ok {
			return Result{Found: true, Namespace: NSLocal, ScopeIndex: i, Symbol: sym}
		}
		if sym, ok := t.scopes[i].llis[name]; ok {
			return Result{Found: true, Namespace: NSLLI, ScopeIndex: i, Symbol: sym}
		}
	}
	if r, ok := lookupLayers(t.structs, name, NSStruct); ok {
		return r
	}
	if r, ok := lookupLayers(t.enums, name, NSEnum); ok {
		return r
	}
	if r, ok := lookupLayers(t.customTypes, name, NSCustomType); ok {
		return r
	}
	if r, ok := lookupLayers(t.constants, name, NSConstant); ok {
		return r
	}
	if r, ok := lookupLayers(t.statics, name, NSStatic); ok {
		return r
	}
	if sym, ok := t.functions[name]; ok {
		return Result{Found: true, Namespace: NSFunction, Symbol: sym}
	}
	if sym, ok := t.asmFuncs[name]; ok {
		return Result{Found: true, Namespace: NSAssemblerFunction, Symbol: sym}
	}
	if sym, ok := t.intrinsics[name]; ok {
		return Result{Found: true, Namespace: NSIntrinsic, Symbol: sym}
	}
	return Result{}
}

func lookupLayers(layers []map[string]*Symbol, name string, ns Namespace) (Result, bool) {
	for i := len(layers) - 1; i >= 0; i-- {
		if sym, ok := layers[i][name]; ok {
			return Result{Found: true, Namespace: ns, ScopeIndex: i, Symbol: sym}, true
		}
	}
	return Result{}, false
}
