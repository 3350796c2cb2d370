package types

// WidensTo reports whether narrower can be silently widened to wider
// within the same signedness/float family (spec.md §3.2: "S8 ⊂ S16 ⊂ S32
// ⊂ S64 ⊂ SSize; same for unsigned; F32 ⊂ F64 ⊂ F128"). The relation is
// one-directional: WidensTo(S32, S16) is false even though both are
// signed integers.
func WidensTo(narrower, wider Type) bool {
	narrower, wider = Unwrap(narrower), Unwrap(wider)

	if ni, ok := narrower.(Int); ok {
		if wi, ok := wider.(Int); ok {
			if ni.Kind.Signed() != wi.Kind.Signed() {
				return false
			}
			if (ni.Kind == S64 && wi.Kind == SSize) || (ni.Kind == U64 && wi.Kind == USize) {
				return true
			}
			return ni.Kind.Bits() < wi.Kind.Bits()
		}
	}
	if nf, ok := narrower.(Float); ok {
		if wf, ok := wider.(Float); ok {
			return floatRank(nf.Kind) < floatRank(wf.Kind)
		}
	}
	return false
}

// floatRank orders the float kinds along F32 ⊂ F64 ⊂ F128; the extended
// formats FX8680/FPPC128 don't participate in implicit widening — they
// only ever arise from explicit casts or target-specific codegen.
func floatRank(k FloatKind) int {
	switch k {
	case F32:
		return 0
	case F64:
		return 1
	case F128:
		return 2
	default:
		return -1
	}
}

// SameIntegerFamily reports whether a and b are both integers of the
// same signedness (regardless of width) — the precondition for the
// "same integer width" / "wider ⊇ narrower" operator rows in §4.5's
// table.
func SameIntegerFamily(a, b Type) bool {
	ai, aok := Unwrap(a).(Int)
	bi, bok := Unwrap(b).(Int)
	return aok && bok && ai.Kind.Signed() == bi.Kind.Signed()
}

func IsInt(t Type) bool {
	_, ok := Unwrap(t).(Int)
	return ok
}

func IsFloat(t Type) bool {
	_, ok := Unwrap(t).(Float)
	return ok
}

func IsNumeric(t Type) bool {
	return IsInt(t) || IsFloat(t)
}

func IsPtrLike(t Type) bool {
	switch Unwrap(t).(type) {
	case Ptr, Addr:
		return true
	}
	return false
}

// IsSigned reports whether t is a signed integer kind.
func IsSigned(t Type) bool {
	i, ok := Unwrap(t).(Int)
	return ok && i.Kind.Signed()
}
