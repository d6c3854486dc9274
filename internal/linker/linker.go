// Package linker implements spec.md §4.4: merging per-symbol
// constraint variables across translation units and imposing
// conservative constraints on externally-defined symbols.
package linker

import (
	"fmt"
	"sort"

	"github.com/ccqual/ccqual/internal/proginfo"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// Linker runs once, after every translation unit has been generated.
type Linker struct {
	Info      *proginfo.ProgramInfo
	AllowList map[string]bool
}

func New(info *proginfo.ProgramInfo, allowList map[string]bool) *Linker {
	return &Linker{Info: info, AllowList: allowList}
}

// eqEmitter is the subset of *generator.Generator's behavior the
// linker needs (constrain_eq and force-Wild over CV sets). It is
// reimplemented here, rather than importing the generator package,
// to keep the linker's only dependency on "how constraints are built"
// explicit and avoid a generator<->linker import cycle — the two
// packages both build on qual/constraints but serve different phases.
type eqEmitter struct {
	info *proginfo.ProgramInfo
}

func (e *eqEmitter) constrainEqCV(a, b qual.CV, loc srcloc.Loc, reason string) {
	switch av := a.(type) {
	case *qual.PointerCV:
		bv, ok := b.(*qual.PointerCV)
		if !ok {
			e.forceWildCV(a, loc, reason)
			e.forceWildCV(b, loc, reason)
			return
		}
		if len(av.Levels) == len(bv.Levels) {
			for i := range av.Levels {
				e.info.Store.AddEq(qual.Var(av.Levels[i]), qual.Var(bv.Levels[i]), loc, reason)
			}
		} else {
			for _, x := range av.Levels {
				for _, y := range bv.Levels {
					e.info.Store.AddEq(qual.Var(x), qual.Var(y), loc, reason)
				}
			}
		}
		if av.NestedFV != nil && bv.NestedFV != nil {
			e.constrainEqFV(av.NestedFV, bv.NestedFV, loc, reason)
		} else if av.NestedFV != nil || bv.NestedFV != nil {
			e.forceWildFV(av.NestedFV, loc, reason)
			e.forceWildFV(bv.NestedFV, loc, reason)
		}
	case *qual.FunctionCV:
		bv, ok := b.(*qual.FunctionCV)
		if !ok {
			e.forceWildCV(a, loc, reason)
			e.forceWildCV(b, loc, reason)
			return
		}
		e.constrainEqFV(av, bv, loc, reason)
	}
}

func (e *eqEmitter) constrainEqFV(a, b *qual.FunctionCV, loc srcloc.Loc, reason string) {
	e.constrainEqSets(a.ReturnCVs, b.ReturnCVs, loc, reason)
	if len(a.ParamCVs) == len(b.ParamCVs) {
		for i := range a.ParamCVs {
			e.constrainEqSets(a.ParamCVs[i], b.ParamCVs[i], loc, reason)
		}
		return
	}
	e.forceWildFV(a, loc, reason)
	e.forceWildFV(b, loc, reason)
}

func (e *eqEmitter) constrainEqSets(a, b []qual.CV, loc srcloc.Loc, reason string) {
	for _, av := range a {
		for _, bv := range b {
			e.constrainEqCV(av, bv, loc, reason)
		}
	}
}

func (e *eqEmitter) forceWildCV(cv qual.CV, loc srcloc.Loc, reason string) {
	if cv == nil {
		return
	}
	switch v := cv.(type) {
	case *qual.PointerCV:
		for _, qv := range v.Levels {
			e.info.Store.AddEq(qual.Var(qv), qual.Const(qual.Wild), loc, reason)
		}
		e.forceWildFV(v.NestedFV, loc, reason)
	case *qual.FunctionCV:
		e.forceWildFV(v, loc, reason)
	}
}

func (e *eqEmitter) forceWildFV(fv *qual.FunctionCV, loc srcloc.Loc, reason string) {
	if fv == nil {
		return
	}
	for _, cv := range fv.ReturnCVs {
		e.forceWildCV(cv, loc, reason)
	}
	for _, slot := range fv.ParamCVs {
		for _, cv := range slot {
			e.forceWildCV(cv, loc, reason)
		}
	}
}

// Link runs its two steps in order: the cross-TU merge of every
// same-name function (mergeSymbol), then extern conservatism
// (constrainUndefinedExtern). It returns an
// error only on the "two declarations cannot be reconciled even by
// forcing Wild" case (spec.md §7's Link inconsistency); by
// construction that case cannot currently arise (any mismatch forces
// Wild rather than failing), so Link always returns nil today — the
// error return is kept so a future stricter linking mode has
// somewhere to report into.
func (l *Linker) Link() error {
	em := &eqEmitter{info: l.Info}

	names := l.Info.AllFunctionNames()
	sort.Strings(names)

	for _, name := range names {
		if err := l.mergeSymbol(em, name); err != nil {
			return fmt.Errorf("linking %q: %w", name, err)
		}
	}

	for _, name := range names {
		l.constrainUndefinedExtern(em, name)
	}

	return nil
}

// mergeSymbol implements step 1: merge every FunctionCV recorded
// under the same external name by the same constrain_eq contract used
// for intra-TU assignment.
func (l *Linker) mergeSymbol(em *eqEmitter, name string) error {
	fvs := l.Info.GlobalSymbolsFor(name)
	if len(fvs) < 2 {
		return nil
	}
	first := fvs[0]
	for _, other := range fvs[1:] {
		em.constrainEqFV(first, other, first.Loc, "cross-TU declaration merge")
	}
	return nil
}

// constrainUndefinedExtern implements step 2: an extern function
// without a body anywhere, and not on the allow-list of known-safe
// externs, has every parameter and return qvar forced to Wild.
func (l *Linker) constrainUndefinedExtern(em *eqEmitter, name string) {
	if l.Info.HasBodyAnywhere(name) {
		return
	}
	if l.AllowList[name] {
		return
	}
	for _, fv := range l.Info.GlobalSymbolsFor(name) {
		em.forceWildFV(fv, fv.Loc, "extern without body, not allow-listed")
	}
}
