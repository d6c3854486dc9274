package cast

// Type is a C type as written (or computed) in the source. It carries
// no qualifier information of its own — that lives in the qual.CV
// tree allocated for each pointer-typed declaration.
type Type interface {
	String() string
	typeNode()
}

// BaseType is any non-pointer, non-array, non-function type: `int`,
// `char`, `struct Foo`, `void`, `va_list`.
type BaseType struct {
	Name string
}

func (t *BaseType) String() string { return t.Name }
func (t *BaseType) typeNode()      {}

func (t *BaseType) IsVoid() bool   { return t.Name == "void" }
func (t *BaseType) IsVaList() bool { return t.Name == "va_list" || t.Name == "__builtin_va_list" }

// PointerType is `T *`.
type PointerType struct {
	Elem Type
}

func (t *PointerType) String() string { return t.Elem.String() + " *" }
func (t *PointerType) typeNode()      {}

// ArraySize distinguishes `T a[]` (unsized, only legal for params and
// externs) from `T a[10]` (sized) — spec.md's orig_arr_info.
type ArraySize struct {
	Sized bool
	N     int
}

// ArrayType is `T a[N]` or `T a[]`.
type ArrayType struct {
	Elem Type
	Size ArraySize
}

func (t *ArrayType) String() string { return t.Elem.String() + " []" }
func (t *ArrayType) typeNode()      {}

// FunctionType is a function's signature, independent of any
// particular declaration of it.
type FunctionType struct {
	Return     Type
	Params     []Type
	IsVariadic bool
}

func (t *FunctionType) String() string { return "func(...) " + t.Return.String() }
func (t *FunctionType) typeNode()      {}

// IsPointerOrArray reports whether t is a type for which spec.md's
// add_variable allocates a CV — the test at the top of §4.2.
func IsPointerOrArray(t Type) bool {
	switch t.(type) {
	case *PointerType, *ArrayType:
		return true
	default:
		return false
	}
}

// PointerDepth returns how many `*`/`[]` levels t has before reaching
// a non-pointer base, and the base type at the bottom.
func PointerDepth(t Type) (depth int, base Type) {
	for {
		switch v := t.(type) {
		case *PointerType:
			depth++
			t = v.Elem
		case *ArrayType:
			depth++
			t = v.Elem
		default:
			return depth, t
		}
	}
}

// StructurallyEqual is spec.md §4.6's structural_equal: types are
// compatible ignoring top-level qualifiers, with pointer-depth
// equality and recursive pointee equality. Record field-name equality
// is approximated by base-type name equality, since this program does
// not model struct layouts beyond their textual type name.
func StructurallyEqual(a, b Type) bool {
	switch av := a.(type) {
	case *BaseType:
		bv, ok := b.(*BaseType)
		return ok && av.Name == bv.Name
	case *PointerType:
		bv, ok := b.(*PointerType)
		return ok && StructurallyEqual(av.Elem, bv.Elem)
	case *ArrayType:
		bv, ok := b.(*ArrayType)
		return ok && StructurallyEqual(av.Elem, bv.Elem)
	case *FunctionType:
		bv, ok := b.(*FunctionType)
		if !ok || len(av.Params) != len(bv.Params) || av.IsVariadic != bv.IsVariadic {
			return false
		}
		if !StructurallyEqual(av.Return, bv.Return) {
			return false
		}
		for i := range av.Params {
			if !StructurallyEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
