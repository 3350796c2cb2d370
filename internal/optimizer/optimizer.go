// Package optimizer runs the pre-pass attribute optimizers (function,
// parameter, sanitizer) and selects/dispatches the LLVM pass pipeline,
// grounded on
// original_source/thrushc_llvm_codegen/src/optimizer.rs's LLVMOptimizer,
// LLVMFunctionOptimizer, LLVMParameterOptimizer, and LLVMSanitizer
// (spec.md §4.7).
//
// github.com/llir/llvm is a pure-Go IR *builder*: it has no linked LLVM
// to run real optimization passes against, the way inkwell's
// Module::run_passes does. The per-function/per-parameter/sanitizer
// optimizers below are attribute-setting passes and need nothing beyond
// the IR tree, so they're implemented natively here exactly like the
// original. The canned default<On>/custom-pass pipelines, which do need
// a real LLVM, are instead dispatched to the external `opt` binary
// (internal/driver's runOptPasses), the same way linking is delegated to an
// external clang/gcc subprocess per spec.md §1/§6 — `opt` is named here,
// not reimplemented.
package optimizer

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/thrushlang/thrushc/internal/options"
)

const (
	maxOptInstructionsLen        = 5
	considerableBasicBlocksLen   = 5
	considerableInstructionsLen  = 250
)

// Run executes every pre-pass optimizer in the order metadata.rs'
// sibling optimizer.rs does: sanitizer decoration first, then (unless
// disabled, and never at -opt O3 where the canned pipeline subsumes it)
// the function and parameter optimizers.
func Run(m *ir.Module, opts *options.Options) {
	runSanitizer(m, opts.Sanitizer)

	if !opts.DisableDefaultOpt && !opts.Opt.IsHigh() {
		runFunctionOptimizer(m)
		runParameterOptimizer(m)
	}
}

// ---- function optimizer ----

// runFunctionOptimizer attaches inlinehint/optsize/norecurse to every
// defined (non-declaration) function based on simple size metrics, per
// LLVMFunctionOptimizer::visit_function_once.
func runFunctionOptimizer(m *ir.Module) {
	for _, fn := range m.Funcs {
		if len(fn.Blocks) == 0 {
			continue // extern prototype, no body to size up.
		}

		blocksCount := len(fn.Blocks)
		instrCount := 0
		selfRecursive := false
		for _, b := range fn.Blocks {
			instrCount += len(b.Insts)
			for _, inst := range b.Insts {
				if call, ok := inst.(*ir.InstCall); ok {
					if callee, ok := call.Callee.(*ir.Func); ok && callee == fn {
						selfRecursive = true
					}
				}
			}
		}

		if instrCount < maxOptInstructionsLen {
			fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrInlineHint)
		} else if blocksCount >= considerableBasicBlocksLen && instrCount >= considerableInstructionsLen {
			fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrOptSize, enum.FuncAttrMinSize)
		}

		if !selfRecursive {
			fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrNoRecurse)
		}
	}
}

// ---- parameter optimizer ----

// runParameterOptimizer attaches dereferenceable/align to every pointer
// parameter and noundef to every parameter of a non-variadic function,
// and marks self-recursive
// calls as tail calls where the callee matches the enclosing function,
// per LLVMParameterOptimizer.
func runParameterOptimizer(m *ir.Module) {
	for _, fn := range m.Funcs {
		if len(fn.Blocks) == 0 {
			continue
		}
		variadic := fn.Sig.Variadic

		for _, p := range fn.Params {
			_, isPtr := p.Type().(*irtypes.PointerType)
			if isPtr {
				p.Attrs = append(p.Attrs, ir.AttrDereferenceable{N: 1})
				p.Attrs = append(p.Attrs, ir.AttrAlign{Align: 1})
			}
			if !variadic {
				p.Attrs = append(p.Attrs, enum.ParamAttrNoUndef)
			}
		}

		markSelfRecursiveTailCalls(fn)
	}
}

func markSelfRecursiveTailCalls(fn *ir.Func) {
	for _, b := range fn.Blocks {
		for _, inst := range b.Insts {
			call, ok := inst.(*ir.InstCall)
			if !ok {
				continue
			}
			if callee, ok := call.Callee.(*ir.Func); ok && callee == fn {
				call.Tail = enum.TailTail
			}
		}
	}
}

// ---- sanitizer ----

// runSanitizer attaches the function-level sanitize_* attribute for the
// active --sanitizer choice to every function in the module, per
// LLVMSanitizer::apply. options.NoSanitizer makes this a no-op, matching
// LLVMSanitizerOptimization::is_neither's early return. The address,
// hwaddress, memory and thread choices have an attribute here;
// options.SanitizeMemtag has none, so it attaches nothing either.
func runSanitizer(m *ir.Module, s options.Sanitizer) {
	attr, ok := sanitizerAttr(s)
	if !ok {
		return
	}
	for _, fn := range m.Funcs {
		fn.FuncAttrs = append(fn.FuncAttrs, attr)
	}
}

func sanitizerAttr(s options.Sanitizer) (enum.FuncAttr, bool) {
	switch s {
	case options.SanitizeAddress:
		return enum.FuncAttrSanitizeAddress, true
	case options.SanitizeMemory:
		return enum.FuncAttrSanitizeMemory, true
	case options.SanitizeThread:
		return enum.FuncAttrSanitizeThread, true
	case options.SanitizeHWAddress:
		return enum.FuncAttrSanitizeHWAddress, true
	default:
		return 0, false
	}
}

// SelectPipeline mirrors LLVMOptimizer::optimize's pipeline selection:
// a non-empty custom pass string always wins; otherwise the -opt level
// maps to one canned default<On> pipeline name.
func SelectPipeline(opts *options.Options) string {
	if opts.CustomPasses != "" {
		return opts.CustomPasses
	}
	return opts.Opt.Pipeline()
}
