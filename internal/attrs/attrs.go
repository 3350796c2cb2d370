// Package attrs models Thrush's declaration attributes (spec.md §3.5):
// visibility, inlining, calling convention, linkage, hotness,
// stack-protector strength, sanitizer hints, assembler flags, layout,
// allocation hints, and function lifecycle markers.
package attrs

import "github.com/thrushlang/thrushc/internal/span"

// Kind identifies an attribute independent of its payload, used for
// whitelist membership and duplicate/conflict checks.
type Kind int

const (
	Public Kind = iota
	Extern
	Inline
	AlwaysInline
	InlineHint
	NoInline
	Convention
	Linkage
	Hot
	NoUnwind
	OptFuzzing
	MinSize
	WeakStack
	StrongStack
	PreciseFloats
	Packed
	Heap
	Ignore
	Constructor
	Destructor
	AsmSyntax
	AsmSideEffects
	AsmAlignStack
	AsmThrow
)

func (k Kind) String() string {
	names := [...]string{
		"public", "extern", "inline", "alwaysinline", "inlinehint", "noinline",
		"convention", "linkage", "hot", "nounwind", "optfuzzing", "minsize",
		"weakstack", "strongstack", "precisefloats", "packed", "heap", "ignore",
		"constructor", "destructor", "asmsyntax", "asmsideeffects", "asmalignstack", "asmthrow",
	}
	if int(k) < len(names) {
		return "@" + names[k]
	}
	return "@?"
}

// Attribute is a single tagged attribute instance attached to a
// declaration, carrying whatever payload its Kind needs.
type Attribute struct {
	Kind     Kind
	String   string // Convention name, Linkage name, AsmSyntax mode, ...
	Span     span.Span
}

// Set is the ordered collection of attributes on one declaration.
type Set struct {
	attrs []Attribute
}

func NewSet(attrs ...Attribute) *Set {
	return &Set{attrs: attrs}
}

func (s *Set) All() []Attribute { return s.attrs }

func (s *Set) Has(k Kind) bool {
	for _, a := range s.attrs {
		if a.Kind == k {
			return true
		}
	}
	return false
}

// Get returns the first attribute of Kind k, if present.
func (s *Set) Get(k Kind) (Attribute, bool) {
	for _, a := range s.attrs {
		if a.Kind == k {
			return a, true
		}
	}
	return Attribute{}, false
}

// Repeated returns every attribute instance beyond the first occurrence
// of its Kind — spec.md §4.3(c): "error on repeated attributes".
func (s *Set) Repeated() []Attribute {
	seen := map[Kind]bool{}
	var out []Attribute
	for _, a := range s.attrs {
		if seen[a.Kind] {
			out = append(out, a)
		}
		seen[a.Kind] = true
	}
	return out
}

// Applicant names the declaration class an attribute is validated
// against (spec.md §3.5's "applicant class").
type Applicant int

const (
	ApplicantFunction Applicant = iota
	ApplicantIntrinsic
	ApplicantAssemblerFunction
	ApplicantStruct
	ApplicantEnum
	ApplicantConstant
	ApplicantStatic
	ApplicantLocal
)

// whitelists mirrors original_source/thrushc_attribute_checker/src/lib.rs's
// VALID_*_ATTRIBUTES constants exactly in shape.
var whitelists = map[Applicant][]Kind{
	ApplicantFunction: {
		AlwaysInline, InlineHint, NoInline, Convention, Extern, Ignore, Public,
		Hot, NoUnwind, OptFuzzing, MinSize, WeakStack, StrongStack, PreciseFloats,
		Linkage, Constructor, Destructor,
	},
	ApplicantIntrinsic: {
		AlwaysInline, InlineHint, NoInline, Convention, Extern, Ignore, Public,
		Hot, NoUnwind, OptFuzzing, MinSize, WeakStack, StrongStack, PreciseFloats,
		Linkage,
	},
	ApplicantAssemblerFunction: {
		AlwaysInline, InlineHint, NoInline, Convention, Ignore, Public,
		Hot, NoUnwind, OptFuzzing, MinSize, WeakStack, StrongStack, PreciseFloats,
		Linkage, AsmAlignStack, AsmSyntax, AsmSideEffects, AsmThrow,
	},
	ApplicantStatic:   {Public, Extern, Linkage},
	ApplicantConstant: {Public, Extern, Linkage},
	ApplicantEnum:     {Public},
	ApplicantStruct:   {Public, Packed},
	ApplicantLocal:    {Heap},
}

// Whitelisted reports whether k is applicable to applicant.
func Whitelisted(applicant Applicant, k Kind) bool {
	for _, allowed := range whitelists[applicant] {
		if allowed == k {
			return true
		}
	}
	return false
}

// CallConventionsAvailable is the closed set of calling conventions the
// checker recognizes (others produce a warning, falling back to C).
var CallConventionsAvailable = []string{"C", "fast", "cold", "tail"}

// LinkagesAvailable is the closed set of LLVM linkage names the checker
// recognizes.
var LinkagesAvailable = []string{
	"external", "internal", "private", "weak", "linkonce", "common", "appending",
}

func IsCallConventionKnown(name string) bool {
	for _, c := range CallConventionsAvailable {
		if c == name {
			return true
		}
	}
	return false
}

func IsLinkageKnown(name string) bool {
	for _, l := range LinkagesAvailable {
		if l == name {
			return true
		}
	}
	return false
}

// IsLinkerPrivate / IsLinkerPrivateWeak / IsInternal / IsStandard classify
// a linkage name the way original_source's Linkage enum's is_* predicates
// do, for use by the illogical-attribute-combination checks.
func IsLinkerPrivate(name string) bool     { return name == "private" }
func IsLinkerPrivateWeak(name string) bool { return name == "weak" }
func IsInternal(name string) bool          { return name == "internal" }
func IsStandard(name string) bool          { return name == "external" || name == "" }
