package proginfo

import (
	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/qual"
	"github.com/ccqual/ccqual/internal/srcloc"
)

// AddVariable implements spec.md §4.2's add_variable: allocate a CV
// tree for decl if it is pointer- or array-typed, is not in a system
// header, and has not already been allocated one. Returns the CVs it
// owns (empty if none were allocated).
func (pi *ProgramInfo) AddVariable(decl *cast.VarDecl, stmt *cast.DeclStmt) []qual.CV {
	if !cast.IsPointerOrArray(decl.Type) {
		return nil
	}
	if decl.InSystemHdr {
		return nil
	}
	if existing := pi.CVsAt(decl.Loc); existing != nil {
		return existing
	}

	cv := pi.allocatePointerCV(decl.Type, decl.Name, decl.Loc)
	pi.seedVoidAndVaList(cv)

	pi.setCVs(decl.Loc, []qual.CV{cv})
	if stmt != nil {
		pi.RecordDeclStmt(stmt)
	}
	return []qual.CV{cv}
}

// allocatePointerCV walks a pointer/array type outer level first,
// allocating one fresh qvar per level, and recurses into a pointee
// function type to build the NestedFV for function pointers.
func (pi *ProgramInfo) allocatePointerCV(t cast.Type, name string, loc srcloc.Loc) *qual.PointerCV {
	levels := []qual.QVar{}
	origArr := make(map[qual.QVar]qual.OrigArrKind)
	arrSize := make(map[qual.QVar]int)
	qualMap := make(map[qual.QVar][]qual.Atom)

	cur := t
	var nestedFV *qual.FunctionCV
	for {
		switch v := cur.(type) {
		case *cast.PointerType:
			qv := pi.Store.FreshQVar()
			levels = append(levels, qv)
			origArr[qv] = qual.OrigPointer
			if ft, ok := v.Elem.(*cast.FunctionType); ok {
				nestedFV = pi.allocateFunctionCV(ft, name, loc)
				cur = nil
			} else {
				cur = v.Elem
			}
		case *cast.ArrayType:
			qv := pi.Store.FreshQVar()
			levels = append(levels, qv)
			if v.Size.Sized {
				origArr[qv] = qual.OrigSizedArray
				arrSize[qv] = v.Size.N
			} else {
				origArr[qv] = qual.OrigUnsizedArray
			}
			qualMap[qv] = append(qualMap[qv], qual.Arr)
			cur = v.Elem
		default:
			cur = nil
		}
		if cur == nil {
			break
		}
	}

	base := t
	for {
		if pt, ok := base.(*cast.PointerType); ok {
			base = pt.Elem
			continue
		}
		if at, ok := base.(*cast.ArrayType); ok {
			base = at.Elem
			continue
		}
		break
	}

	return &qual.PointerCV{
		BaseType:    base.String(),
		Name:        name,
		Loc:         loc,
		Levels:      levels,
		QualMap:     qualMap,
		OrigArrInfo: origArr,
		ArrSize:     arrSize,
		NestedFV:    nestedFV,
	}
}

// allocateFunctionCV allocates one CV set per return/parameter slot.
// Each slot holds exactly one CV (from this declaration); the linker
// ties the slots of other declarations of the same symbol to it with
// Eq constraints rather than adding CVs to the slot.
func (pi *ProgramInfo) allocateFunctionCV(ft *cast.FunctionType, name string, loc srcloc.Loc) *qual.FunctionCV {
	fv := &qual.FunctionCV{
		Name:       name,
		Loc:        loc,
		IsVariadic: ft.IsVariadic,
	}
	if cast.IsPointerOrArray(ft.Return) {
		rcv := pi.allocatePointerCV(ft.Return, name+"$return", loc)
		pi.seedVoidAndVaList(rcv)
		fv.ReturnCVs = []qual.CV{rcv}
	}
	for i, pt := range ft.Params {
		if !cast.IsPointerOrArray(pt) {
			fv.ParamCVs = append(fv.ParamCVs, nil)
			continue
		}
		pcv := pi.allocatePointerCV(pt, paramPlaceholderName(name, i), loc)
		pi.seedVoidAndVaList(pcv)
		fv.ParamCVs = append(fv.ParamCVs, []qual.CV{pcv})
	}
	return fv
}

func paramPlaceholderName(fn string, i int) string {
	return fn + "$param" + itoa(i)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

// seedVoidAndVaList implements the invariant from spec.md §3: a
// void*-typed or va_list-typed CV carries Eq(qv, Wild) for every one
// of its qvars, at creation time.
func (pi *ProgramInfo) seedVoidAndVaList(cv *qual.PointerCV) {
	if !isVoidOrVaList(cv.BaseType) {
		return
	}
	for _, qv := range cv.Levels {
		pi.Store.AddEq(qual.Var(qv), qual.Const(qual.Wild), cv.Loc, "void*/va_list seed")
		cv.QualMap[qv] = append(cv.QualMap[qv], qual.Wild)
		cv.MarkConstrained(qv)
	}
}

func isVoidOrVaList(base string) bool {
	return base == "void" || base == "va_list" || base == "__builtin_va_list"
}

// AddFunctionDecl allocates (or, if already present, returns) the
// FunctionCV for a function declaration/definition and registers it
// as a global symbol candidate for the linker.
func (pi *ProgramInfo) AddFunctionDecl(decl *cast.FuncDecl) *qual.FunctionCV {
	if existing := pi.CVsAt(decl.Loc); len(existing) == 1 {
		if fv, ok := existing[0].(*qual.FunctionCV); ok {
			return fv
		}
	}

	fv := pi.allocateFunctionCV(decl.Type, decl.Name, decl.Loc)
	fv.HasProto = true
	fv.HasBody = decl.HasBody()

	pi.setCVs(decl.Loc, []qual.CV{fv})

	pi.mu.Lock()
	pi.GlobalSymbols[decl.Name] = append(pi.GlobalSymbols[decl.Name], fv)
	if decl.HasBody() {
		pi.ExternFunctions[decl.Name] = true
	} else if _, seen := pi.ExternFunctions[decl.Name]; !seen {
		pi.ExternFunctions[decl.Name] = false
	}
	pi.mu.Unlock()

	return fv
}
