package proginfo

import (
	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/qual"
)

// AttachParamCV registers the CVs already allocated inside a
// FunctionCV's parameter slot under the parameter declarator's own
// location, so that an Ident referencing the parameter by name
// resolves through the same VarMap lookup as any other variable.
func (pi *ProgramInfo) AttachParamCV(decl *cast.VarDecl, cvs []qual.CV) {
	pi.setCVs(decl.Loc, cvs)
}
