// Package semantic implements the three per-unit analyses spec.md §4.3–
// §4.5 describes: the attribute checker, the unused-symbol linter, and
// the type checker. Each returns its own []diagnostics.Issue batch; the
// driver decides whether a non-empty Error batch gates the next phase
// (spec.md §7).
package semantic

import (
	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/diagnostics"
)

// CheckAttributes validates one declaration's attribute set against its
// applicant-class whitelist and the illogical-combination rules, grounded
// on original_source/thrushc_attribute_checker/src/lib.rs's
// check_illogical_attributes.
func CheckAttributes(applicant attrs.Applicant, set *attrs.Set) []diagnostics.Issue {
	var issues []diagnostics.Issue

	for _, a := range set.All() {
		if !attrs.Whitelisted(applicant, a.Kind) {
			issues = append(issues, diagnostics.NewWarning(
				"ATTR001", a.Kind.String()+" is not a valid attribute for this kind of declaration", a.Span))
		}
	}
	for _, a := range set.Repeated() {
		issues = append(issues, diagnostics.NewError(
			"ATTR002", "attribute "+a.Kind.String()+" is repeated", a.Span))
	}

	if set.Has(attrs.Extern) && !set.Has(attrs.Public) {
		if a, ok := set.Get(attrs.Extern); ok {
			issues = append(issues, diagnostics.NewError(
				"ATTR003", "an external symbol always has public visibility; add the @public attribute", a.Span))
		}
	}

	if conv, ok := set.Get(attrs.Convention); ok {
		if !attrs.IsCallConventionKnown(conv.String) {
			issues = append(issues, diagnostics.NewWarning(
				"ATTR001", "unknown calling convention, assuming the C convention by default", conv.Span))
		}
	}

	if link, ok := set.Get(attrs.Linkage); ok {
		issues = append(issues, checkLinkage(set, link)...)
	}

	if set.Has(attrs.Constructor) && set.Has(attrs.Destructor) {
		if a, ok := set.Get(attrs.Destructor); ok {
			issues = append(issues, diagnostics.NewError(
				"ATTR004", "a symbol cannot be both a constructor and a destructor; remove one attribute", a.Span))
		}
	}

	if set.Has(attrs.Ignore) && !set.Has(attrs.Extern) {
		if a, ok := set.Get(attrs.Ignore); ok {
			issues = append(issues, diagnostics.NewError(
				"ATTR004", "@ignore requires the symbol to also be @extern", a.Span))
		}
	}

	issues = append(issues, checkInlineCombinations(set)...)
	return issues
}

func checkLinkage(set *attrs.Set, link attrs.Attribute) []diagnostics.Issue {
	var issues []diagnostics.Issue
	name := link.String

	if !attrs.IsLinkageKnown(name) {
		issues = append(issues, diagnostics.NewWarning(
			"ATTR001", "unknown linkage, assuming standard external linkage", link.Span))
	}

	isPrivateFamily := attrs.IsLinkerPrivate(name) || attrs.IsLinkerPrivateWeak(name)
	if !set.Has(attrs.Public) && isPrivateFamily {
		issues = append(issues, diagnostics.NewWarning(
			"ATTR001", "this attribute is meaningless; the linkage is already private by default", link.Span))
	}
	if set.Has(attrs.Public) && attrs.IsStandard(name) {
		issues = append(issues, diagnostics.NewWarning(
			"ATTR001", "this attribute is meaningless; the linkage is the same as @public", link.Span))
	}
	if set.Has(attrs.Public) && (isPrivateFamily || attrs.IsInternal(name)) {
		issues = append(issues, diagnostics.NewWarning(
			"ATTR001", "this will cause a linking failure; @public requires non-private linkage", link.Span))
	}
	if set.Has(attrs.Extern) && (isPrivateFamily || attrs.IsInternal(name)) {
		issues = append(issues, diagnostics.NewWarning(
			"ATTR001", "this will cause a linking failure; @extern requires non-private linkage", link.Span))
	}
	return issues
}

func checkInlineCombinations(set *attrs.Set) []diagnostics.Issue {
	var issues []diagnostics.Issue
	conflict := func(a, b attrs.Kind) {
		if set.Has(a) && set.Has(b) {
			if att, ok := set.Get(b); ok {
				issues = append(issues, diagnostics.NewError(
					"ATTR004", "the attribute is not valid; use either "+a.String()+" or "+b.String()+" but not both", att.Span))
			}
		}
	}
	conflict(attrs.AlwaysInline, attrs.Inline)
	conflict(attrs.Inline, attrs.NoInline)
	conflict(attrs.AlwaysInline, attrs.NoInline)
	return issues
}
