package planner

import (
	"strings"

	"github.com/ccqual/ccqual/internal/cast"
)

// PlanDeclStmt decides how to apply a set of per-declarator DeclPlans
// that share one source statement. A single rewritten declarator can
// usually be patched in place; once two or more declarators on the
// same statement both need new text, spec.md §4.7 calls for rebuilding
// the whole statement, since Checked-C's declarator syntax does not
// commute with C's comma-separated multi-declarator form the way a
// plain `T *p, *q;` does (a _Ptr<T> and an _Array_ptr<T> cannot share
// one base-type prefix on a single line).
func PlanDeclStmt(stmt *cast.DeclStmt, plans map[*cast.VarDecl]DeclPlan) (rebuild bool, text string) {
	changed := 0
	for _, d := range stmt.Decls {
		if plans[d].Action != DoNothing {
			changed++
		}
	}
	if changed <= 1 {
		return false, ""
	}

	parts := make([]string, 0, len(stmt.Decls))
	for _, d := range stmt.Decls {
		plan := plans[d]
		if plan.Action == DoNothing {
			parts = append(parts, d.Type.String()+" "+d.Name)
			continue
		}
		parts = append(parts, plan.NewText)
	}
	return true, strings.Join(parts, ";\n") + ";"
}
