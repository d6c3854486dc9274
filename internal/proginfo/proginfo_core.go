// Package proginfo implements the program info / symbol table of
// spec.md §4.2: the map from persistent source locations to
// constraint variables, plus the auxiliary tables the generator,
// linker, and planner all share.
package proginfo

import (
	"sync"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/constraints"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// ProgramInfo is the process-wide (per spec.md §5) map from
// declaration location to CV, plus the bookkeeping tables §4.2 lists.
// It is passed explicitly to every package that needs it rather than
// held in a package-level global, per the design note in spec.md §9
// about keeping the core testable in isolation.
type ProgramInfo struct {
	mu sync.Mutex

	// VarMap is PSL -> Set<CV>: every declaration's persistent
	// location maps to the CVs allocated for it. A location can carry
	// more than one CV only for function declarations' parameter/
	// return slots recorded through FunctionCV, so in practice this is
	// a singleton set per VarDecl and a singleton per FuncDecl.
	VarMap map[srcloc.Loc][]qual.CV

	// DeclToStmt lets the rewriter find the enclosing multi-declarator
	// statement for a single declarator.
	DeclToStmt map[*cast.VarDecl]*cast.DeclStmt

	// ExternFunctions maps a function name to whether a body has been
	// seen anywhere in the TU graph so far.
	ExternFunctions map[string]bool

	// GlobalSymbols maps an external function name to every
	// FunctionCV allocated for it, one per declaration encountered
	// across every TU — the linker's merge input.
	GlobalSymbols map[string][]*qual.FunctionCV

	Store *constraints.Store
}

func New() *ProgramInfo {
	return &ProgramInfo{
		VarMap:          make(map[srcloc.Loc][]qual.CV),
		DeclToStmt:      make(map[*cast.VarDecl]*cast.DeclStmt),
		ExternFunctions: make(map[string]bool),
		GlobalSymbols:   make(map[string][]*qual.FunctionCV),
		Store:           constraints.NewStore(),
	}
}

// RecordDeclStmt associates every declarator on stmt with stmt itself,
// so a later single-declarator rewrite can find its siblings.
func (pi *ProgramInfo) RecordDeclStmt(stmt *cast.DeclStmt) {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	for _, d := range stmt.Decls {
		pi.DeclToStmt[d] = stmt
	}
}

// CVsAt returns the CVs allocated at loc, if any.
func (pi *ProgramInfo) CVsAt(loc srcloc.Loc) []qual.CV {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	return pi.VarMap[loc]
}

func (pi *ProgramInfo) setCVs(loc srcloc.Loc, cvs []qual.CV) {
	pi.mu.Lock()
	defer pi.mu.Unlock()
	pi.VarMap[loc] = cvs
}

// StructuralEqual is spec.md §4.6, delegated to the cast package
// since it is purely a property of the written types.
func StructuralEqual(a, b cast.Type) bool {
	return cast.StructurallyEqual(a, b)
}
