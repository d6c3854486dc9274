// Package planner implements spec.md §4.7: turning a solved
// assignment into concrete rewrite decisions — Phase A rewrites a
// pointer declaration's written type, Phase B decides what to do
// about a cast that the declaration rewrite makes redundant, needed,
// or suspect.
package planner

import (
	"fmt"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/prettyprrint"
	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/solver"
)

// DeclAction is one of Phase A's four dispositions for a declarator.
type DeclAction int

const (
	DoNothing DeclAction = iota
	RewriteType
	MakeBoundary
	IncreaseCallers
)

func (a DeclAction) String() string {
	switch a {
	case RewriteType:
		return "rewrite-type"
	case MakeBoundary:
		return "make-boundary"
	case IncreaseCallers:
		return "increase-callers"
	default:
		return "do-nothing"
	}
}

// DeclPlan is the decision for one declarator.
type DeclPlan struct {
	Decl    *cast.VarDecl
	Action  DeclAction
	NewText string // rendered declarator text, valid when Action != DoNothing
	Reason  string
}

// CastAction is one of Phase B's four dispositions for a cast
// expression the generator observed.
type CastAction int

const (
	CastNone CastAction = iota
	CastAssumeBounds
	CastPlain
	CastCommentOut
)

// CastPlan is the decision for one cast expression.
type CastPlan struct {
	Cast   *cast.CastExpr
	Action CastAction
	Text   string
}

// Planner turns a solver.Result into DeclPlans and CastPlans.
type Planner struct {
	info *proginfo.ProgramInfo
	asn  solver.Assignment
}

func New(info *proginfo.ProgramInfo, asn solver.Assignment) *Planner {
	return &Planner{info: info, asn: asn}
}

func (p *Planner) solved(qv qual.QVar) qual.Atom {
	if a, ok := p.asn[qv]; ok {
		return a
	}
	return qual.DefaultAtom
}

// Solved exposes the per-qvar resolver PlanDecl and PlanCast use
// internally, for callers (the rewriter's cast traversal) that need to
// render a CV's checked type outside of those two entry points.
func (p *Planner) Solved(qv qual.QVar) qual.Atom {
	return p.solved(qv)
}

// PlanDecl implements Phase A for one declarator: compare the
// resolved kind of its outermost qvar against what was written, and
// decide how to render it. hint is the caller's disposition for this
// declarator (internal/proginfo-derived for function parameters — see
// pkg/driver's paramDisposition — DoNothing or RewriteType for
// everything else), applied as follows:
//
//   - hint is DoNothing, or every level stayed Ptr: the declarator is
//     unchanged.
//   - hint is MakeBoundary: this is a function definition's parameter
//     and a second declaration of the same symbol exists elsewhere,
//     so callers reaching it only through that declaration were not
//     reverified here — render the checked declarator followed by an
//     "itype boundary: callers not verified" comment instead of a
//     bare rewrite.
//   - hint is IncreaseCallers: this declarator is that second
//     declaration itself, not the definition — its own callers need
//     the wider type, not the definition's body (spec.md §4.7's note
//     that 3C prefers not to touch a definition's signature when only
//     a caller is at fault).
//   - otherwise: RewriteType, a plain declarator rewrite.
func (p *Planner) PlanDecl(vd *cast.VarDecl, cv *qual.PointerCV, hint DeclAction) DeclPlan {
	if hint == DoNothing {
		return DeclPlan{Decl: vd, Action: DoNothing}
	}
	if allPtr(cv, p.solved) {
		return DeclPlan{Decl: vd, Action: DoNothing}
	}
	switch hint {
	case MakeBoundary:
		return DeclPlan{
			Decl:    vd,
			Action:  MakeBoundary,
			NewText: p.renderBoundary(vd, cv),
			Reason:  "extern boundary, unseen callers",
		}
	case IncreaseCallers:
		return DeclPlan{
			Decl:    vd,
			Action:  IncreaseCallers,
			NewText: prettyprrint.DeclaratorFor(vd.Name, cv, p.solved),
			Reason:  "second declaration; its callers need the wider type",
		}
	default:
		return DeclPlan{
			Decl:    vd,
			Action:  RewriteType,
			NewText: prettyprrint.DeclaratorFor(vd.Name, cv, p.solved),
			Reason:  "resolved kind above _Ptr",
		}
	}
}

func allPtr(cv *qual.PointerCV, solved func(qual.QVar) qual.Atom) bool {
	for _, qv := range cv.Levels {
		if solved(qv) != qual.Ptr {
			return false
		}
	}
	return true
}

// renderBoundary renders a declarator for an extern boundary: same
// checked-type rendering as RewriteType, but spec.md §4.7 treats this
// case separately so the planner can attach an itype comment
// documenting that callers were not verified.
func (p *Planner) renderBoundary(vd *cast.VarDecl, cv *qual.PointerCV) string {
	decl := prettyprrint.DeclaratorFor(vd.Name, cv, p.solved)
	return fmt.Sprintf("%s /* itype boundary: callers not verified */", decl)
}

// PlanCast implements Phase B for one observed cast expression. srcCV
// and dstCV are the CVs (if any) of the cast's operand and of the
// context it feeds (nil when the context has no CV, e.g. a cast
// discarded as a statement).
func (p *Planner) PlanCast(ce *cast.CastExpr, srcCV, dstCV *qual.PointerCV, structurallyEqual bool) CastPlan {
	if srcCV == nil || dstCV == nil {
		return CastPlan{Cast: ce, Action: CastNone}
	}
	srcAtom := p.solved(srcCV.Outer())
	dstAtom := p.solved(dstCV.Outer())

	if srcAtom == qual.Wild && dstAtom != qual.Wild {
		// Narrowing a Wild value into a checked pointer needs a runtime
		// bounds check: _Assume_bounds_cast asserts the programmer has
		// already verified it, per spec.md §4.7's Phase B rule.
		return CastPlan{
			Cast:   ce,
			Action: CastAssumeBounds,
			Text:   fmt.Sprintf("_Assume_bounds_cast<%s>(%s)", prettyprrint.TypeString(dstCV, p.solved), exprText(ce.X)),
		}
	}
	if !structurallyEqual && dstAtom == qual.Wild {
		// The destination stayed Wild and the types never matched in
		// the first place: the cast is still meaningful C, keep it
		// as a plain cast with the (possibly rewritten) Wild type.
		return CastPlan{Cast: ce, Action: CastPlain, Text: ce.Type.String()}
	}
	if structurallyEqual && srcAtom != qual.Wild && dstAtom != qual.Wild {
		// Both sides became checked pointers of the same shape: the
		// cast is now redundant and would not even be legal Checked-C
		// syntax (checked pointer kinds do not cast to each other
		// implicitly), so comment it out rather than delete it outright
		// — spec.md §4.7 prefers a visible trace over silent removal.
		return CastPlan{Cast: ce, Action: CastCommentOut}
	}
	return CastPlan{Cast: ce, Action: CastNone}
}

// exprText is a placeholder renderer for a cast's operand used only
// inside the synthesized _Assume_bounds_cast call; the planner does
// not re-derive full expression source text on its own. pkg/driver's
// renderCastPlanText rebuilds the cast text from the operand
// identifier's name instead, so this text is only seen by tests
// exercising PlanCast in isolation.
func exprText(e cast.Expr) string {
	if id, ok := e.(*cast.Ident); ok {
		return id.Name
	}
	return "<expr>"
}
