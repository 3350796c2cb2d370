package codegen

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/types"
)

func (c *Context) codegenStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.Local:
		c.codegenLocal(n)
	case *ast.LLI:
		c.codegenLLI(n)
	case *ast.If:
		c.codegenIf(n)
	case *ast.While:
		c.codegenWhile(n)
	case *ast.Loop:
		c.codegenLoop(n)
	case *ast.For:
		c.codegenFor(n)
	case *ast.Break:
		c.codegenBreak()
	case *ast.Continue:
		c.codegenContinue()
	case *ast.Return:
		c.codegenReturn(n)
	case *ast.Block:
		c.codegenBlock(n)
	case *ast.ExprStmt:
		c.compile(n.X, nil)
	}
}

func (c *Context) codegenLocal(n *ast.Local) {
	elem := c.llvmType(n.Type)
	a := c.block.NewAlloca(elem)
	a.SetName(n.Name)
	heap := false
	if alloc, ok := n.Value.(*ast.Alloc); ok {
		heap = alloc.Heap
	}
	c.bind(n.Name, &slot{ptr: a, elem: elem, thTyp: n.Type, heap: heap})
	if n.Value != nil {
		v := c.compile(n.Value, n.Type)
		c.block.NewStore(v, a)
	}
}

// codegenLLI binds a name directly to a raw codegen primitive without
// the usual alloca+store ceremony, per spec.md §3.3's escape hatch for
// low-level-instruction statements.
func (c *Context) codegenLLI(n *ast.LLI) {
	elem := c.llvmType(n.Type)
	if n.Value != nil {
		v := c.compile(n.Value, n.Type)
		c.bind(n.Name, &slot{ptr: v, elem: elem, thTyp: n.Type})
		return
	}
	a := c.block.NewAlloca(elem)
	a.SetName(n.Name)
	c.bind(n.Name, &slot{ptr: a, elem: elem, thTyp: n.Type})
}

// codegenIf builds then/elseif-cond/elseif-body/else/merge blocks,
// flattening the elif chain iteratively: each elif's condition branches
// forward either to the next elif or straight to the merge block,
// skipping an empty final else block entirely (spec.md §4.6).
func (c *Context) codegenIf(n *ast.If) {
	fn := c.fn
	merge := fn.NewBlock("if.end")
	thenBlock := fn.NewBlock("if.then")

	firstTarget := merge
	switch {
	case len(n.Elifs) > 0:
		firstTarget = fn.NewBlock("if.elseif")
	case n.Else != nil:
		firstTarget = fn.NewBlock("if.else")
	}

	cond := c.compile(n.Cond, types.Bool{})
	c.block.NewCondBr(cond, thenBlock, firstTarget)

	c.block = thenBlock
	c.codegenBlock(n.Then)
	if c.block.Term == nil {
		c.block.NewBr(merge)
	}

	cur := firstTarget
	for i, el := range n.Elifs {
		c.block = cur
		bodyBlock := fn.NewBlock("if.elseif.body")
		nextTarget := merge
		if i < len(n.Elifs)-1 {
			nextTarget = fn.NewBlock("if.elseif")
		} else if n.Else != nil {
			nextTarget = fn.NewBlock("if.else")
		}
		cond := c.compile(el.Cond, types.Bool{})
		c.block.NewCondBr(cond, bodyBlock, nextTarget)

		c.block = bodyBlock
		c.codegenBlock(el.Body)
		if c.block.Term == nil {
			c.block.NewBr(merge)
		}
		cur = nextTarget
	}

	if n.Else != nil {
		c.block = cur
		c.codegenBlock(n.Else)
		if c.block.Term == nil {
			c.block.NewBr(merge)
		}
	}

	c.block = merge
}

func (c *Context) codegenWhile(n *ast.While) {
	fn := c.fn
	condBlock := fn.NewBlock("while.cond")
	bodyBlock := fn.NewBlock("while.body")
	exitBlock := fn.NewBlock("while.end")

	c.block.NewBr(condBlock)

	c.block = condBlock
	cond := c.compile(n.Cond, types.Bool{})
	c.block.NewCondBr(cond, bodyBlock, exitBlock)

	c.block = bodyBlock
	c.loopStack = append(c.loopStack, loopTargets{continueTo: condBlock, breakTo: exitBlock, scopeDepth: len(c.scopes)})
	c.codegenBlock(n.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	if c.block.Term == nil {
		c.block.NewBr(condBlock)
	}

	c.block = exitBlock
}

func (c *Context) codegenLoop(n *ast.Loop) {
	fn := c.fn
	startBlock := fn.NewBlock("loop.start")
	exitBlock := fn.NewBlock("loop.end")

	c.block.NewBr(startBlock)
	c.block = startBlock
	c.loopStack = append(c.loopStack, loopTargets{continueTo: startBlock, breakTo: exitBlock, scopeDepth: len(c.scopes)})
	c.codegenBlock(n.Body)
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	if c.block.Term == nil {
		c.block.NewBr(startBlock)
	}

	c.block = exitBlock
}

func (c *Context) codegenFor(n *ast.For) {
	c.pushScope()
	fn := c.fn
	if n.Init != nil {
		c.codegenLocal(n.Init)
	}
	condBlock := fn.NewBlock("for.cond")
	bodyBlock := fn.NewBlock("for.body")
	exitBlock := fn.NewBlock("for.end")

	c.block.NewBr(condBlock)
	c.block = condBlock
	if n.Cond != nil {
		cond := c.compile(n.Cond, types.Bool{})
		c.block.NewCondBr(cond, bodyBlock, exitBlock)
	} else {
		c.block.NewBr(bodyBlock)
	}

	c.block = bodyBlock
	c.loopStack = append(c.loopStack, loopTargets{continueTo: condBlock, breakTo: exitBlock, scopeDepth: len(c.scopes)})
	if n.Action.Pre && n.Action.Expr != nil {
		c.compile(n.Action.Expr, nil)
	}
	c.codegenBlock(n.Body)
	if !n.Action.Pre && n.Action.Expr != nil && c.block.Term == nil {
		c.compile(n.Action.Expr, nil)
	}
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
	if c.block.Term == nil {
		c.block.NewBr(condBlock)
	}

	c.block = exitBlock
	c.popScope()
}

func (c *Context) codegenBreak() {
	if len(c.loopStack) == 0 {
		return // caught earlier by the parser (PAR005); defensive no-op.
	}
	top := c.loopStack[len(c.loopStack)-1]
	c.deallocScopesFrom(top.scopeDepth)
	c.block.NewBr(top.breakTo)
}

func (c *Context) codegenContinue() {
	if len(c.loopStack) == 0 {
		return
	}
	top := c.loopStack[len(c.loopStack)-1]
	c.deallocScopesFrom(top.scopeDepth)
	c.block.NewBr(top.continueTo)
}

// codegenReturn frees every heap-tracked local still in scope before
// emitting the terminator (spec.md §4.6 "Deallocation": "on every
// ... return, a deallocator walks the current scope's allocated
// symbols and emits frees for heap-allocated ones"). A return unwinds
// every scope open in the function at once, not just the block it
// lexically sits in, so it walks the whole scope stack rather than the
// single top scope a normal block exit frees.
func (c *Context) codegenReturn(n *ast.Return) {
	if n.Value == nil {
		c.deallocScopesFrom(0)
		c.block.NewRet(nil)
		return
	}
	v := c.compile(n.Value, c.retType)
	c.deallocScopesFrom(0)
	c.block.NewRet(v)
}
