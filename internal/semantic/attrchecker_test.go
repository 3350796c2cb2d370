package semantic

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thrushlang/thrushc/internal/attrs"
	"github.com/thrushlang/thrushc/internal/span"
)

func TestCheckAttributesExternRequiresPublic(t *testing.T) {
	set := attrs.NewSet(attrs.Attribute{Kind: attrs.Extern, Span: span.Span{Line: 1}})
	issues := CheckAttributes(attrs.ApplicantFunction, set)
	require.NotEmpty(t, issues)
	require.Equal(t, "ATTR003", issues[0].Code)
}

func TestCheckAttributesConstructorAndDestructorConflict(t *testing.T) {
	set := attrs.NewSet(
		attrs.Attribute{Kind: attrs.Constructor},
		attrs.Attribute{Kind: attrs.Destructor},
	)
	issues := CheckAttributes(attrs.ApplicantFunction, set)
	require.Contains(t, codes(issues), "ATTR004")
}

func TestCheckAttributesAlwaysInlineConflictsWithNoInline(t *testing.T) {
	set := attrs.NewSet(
		attrs.Attribute{Kind: attrs.AlwaysInline},
		attrs.Attribute{Kind: attrs.NoInline},
	)
	issues := CheckAttributes(attrs.ApplicantFunction, set)
	require.Contains(t, codes(issues), "ATTR004")
}

func TestCheckAttributesIgnoreRequiresExtern(t *testing.T) {
	set := attrs.NewSet(attrs.Attribute{Kind: attrs.Ignore})
	issues := CheckAttributes(attrs.ApplicantFunction, set)
	require.Contains(t, codes(issues), "ATTR004")
}

func TestCheckAttributesCleanSetHasNoIssues(t *testing.T) {
	set := attrs.NewSet(attrs.Attribute{Kind: attrs.Public}, attrs.Attribute{Kind: attrs.Extern})
	issues := CheckAttributes(attrs.ApplicantFunction, set)
	require.Empty(t, issues)
}
