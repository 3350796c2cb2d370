package semantic

import (
	"github.com/thrushlang/thrushc/internal/ast"
	"github.com/thrushlang/thrushc/internal/attrs"
)

// ApplicantOf maps a top-level declaration to the (Applicant, *attrs.Set)
// pair CheckAttributes needs, so the driver can iterate file.Decls
// without re-deriving the decl-kind-to-applicant-class mapping itself.
// Declarations with no attribute set (e.g. GlobalAssembler) report ok=false.
func ApplicantOf(d ast.Decl) (applicant attrs.Applicant, set *attrs.Set, ok bool) {
	switch n := d.(type) {
	case *ast.Function:
		return attrs.ApplicantFunction, n.Attributes, true
	case *ast.AssemblerFunction:
		return attrs.ApplicantAssemblerFunction, n.Attributes, true
	case *ast.Intrinsic:
		return attrs.ApplicantIntrinsic, n.Attributes, true
	case *ast.StructDecl:
		return attrs.ApplicantStruct, n.Attributes, true
	case *ast.EnumDecl:
		return attrs.ApplicantEnum, n.Attributes, true
	case *ast.ConstDecl:
		return attrs.ApplicantConstant, n.Attributes, true
	case *ast.StaticDecl:
		return attrs.ApplicantStatic, n.Attributes, true
	default:
		return 0, nil, false
	}
}
