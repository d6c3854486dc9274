package qual

import "github.com/ccqual/ccqual/internal/srcloc"

// OrigArrKind records how a pointer level was written in the source,
// before any inference — needed because a declarator written as
// `int a[10]` must re-render as a sized array rather than losing the
// `10` if the solver leaves it at Arr, and because a `T*` that the
// solver raises to Arr still renders as `_Array_ptr<T>` with no size.
type OrigArrKind int

const (
	OrigPointer OrigArrKind = iota
	OrigSizedArray
	OrigUnsizedArray
)

// CV is the tagged-variant constraint variable: either a PointerCV or
// a FunctionCV. The interface carries no behavior beyond identifying
// the arm — callers switch on concrete type, per spec.md's design
// note that a two-arm tagged union is all the planner needs.
type CV interface {
	Location() srcloc.Loc
	cvTag()
}

// PointerCV carries one qualifier variable per pointer indirection
// level of a declared pointer, outermost level first.
type PointerCV struct {
	BaseType string
	Name     string
	Loc      srcloc.Loc

	Levels []QVar

	// QualMap records, for provenance/dump-intermediate, every literal
	// atom a level was force-constrained to at allocation time (e.g.
	// void* seeds every level with Wild).
	QualMap map[QVar][]Atom

	// OrigArrInfo records how each level was originally written, keyed
	// by the level's qvar.
	OrigArrInfo map[QVar]OrigArrKind
	ArrSize     map[QVar]int // valid when OrigArrInfo[qv] == OrigSizedArray

	// NestedFV is non-nil when this pointer's pointee is a function
	// type (a function pointer): the function's own return/param CVs
	// live here rather than being re-derived from BaseType text.
	NestedFV *FunctionCV

	// constrained records qvars that were pinned to a fixed atom when
	// allocated (proginfo's void*/va_list Wild seed).
	constrained map[QVar]bool
}

func (p *PointerCV) Location() srcloc.Loc { return p.Loc }
func (p *PointerCV) cvTag()               {}

// Outer returns the outer-most qvar, the level that subscripting and
// pointer arithmetic constrain.
func (p *PointerCV) Outer() QVar {
	return p.Levels[0]
}

func (p *PointerCV) MarkConstrained(v QVar) {
	if p.constrained == nil {
		p.constrained = make(map[QVar]bool)
	}
	p.constrained[v] = true
}

func (p *PointerCV) IsConstrained(v QVar) bool {
	return p.constrained[v]
}

func (p *PointerCV) ArrPresent(v QVar) bool {
	for _, atoms := range p.QualMap[v] {
		if atoms == Arr {
			return true
		}
	}
	return false
}

// FunctionCV carries a *set* of CVs per return/parameter slot because
// the same external function symbol is typically observed through
// more than one declaration (a prototype in a header, a definition in
// a .c file) before linking unifies them.
type FunctionCV struct {
	Name string
	Loc  srcloc.Loc

	ReturnCVs []CV
	ParamCVs  [][]CV

	HasProto   bool
	HasBody    bool
	IsVariadic bool
}

func (f *FunctionCV) Location() srcloc.Loc { return f.Loc }
func (f *FunctionCV) cvTag()               {}

func (f *FunctionCV) Arity() int { return len(f.ParamCVs) }

// AllQVars walks a CV tree and appends every qvar it owns to out, in
// allocation order (outer level first, return before params, params
// left to right) — the order dump-intermediate and the solver's
// iteration rely on for determinism.
func AllQVars(c CV, out []QVar) []QVar {
	switch v := c.(type) {
	case *PointerCV:
		out = append(out, v.Levels...)
		if v.NestedFV != nil {
			out = AllQVars(v.NestedFV, out)
		}
	case *FunctionCV:
		for _, rc := range v.ReturnCVs {
			out = AllQVars(rc, out)
		}
		for _, slot := range v.ParamCVs {
			for _, pc := range slot {
				out = AllQVars(pc, out)
			}
		}
	}
	return out
}
