// Package qual implements the pointer-qualifier lattice and the
// constraint-variable (CV) trees that constraints are expressed over.
package qual

// Atom is one of the four constant points of the qualifier lattice,
// ordered from safest to least safe:
//
//	Ptr <= Arr <= NTArr <= Wild
//
// The integer values ARE the lattice order: Join is just max, Meet is
// just min.
type Atom int

const (
	Ptr Atom = iota
	Arr
	NTArr
	Wild
)

func (a Atom) String() string {
	switch a {
	case Ptr:
		return "_Ptr"
	case Arr:
		return "_Array_ptr"
	case NTArr:
		return "_Nt_array_ptr"
	case Wild:
		return "wild"
	default:
		return "?"
	}
}

// LessEq reports whether a sits at or below b in the lattice.
func (a Atom) LessEq(b Atom) bool { return a <= b }

// Join returns the least upper bound of a and b.
func Join(a, b Atom) Atom {
	if a > b {
		return a
	}
	return b
}

// QVar is a fresh integer identifying an unknown qualifier. Every
// QVar is allocated by exactly one CV (the invariant from spec.md
// §3): allocation order also fixes iteration order for determinism.
type QVar int

// Atom is the value that the solver resolves a qvar to, bottom by
// default (the lattice's least element) per spec.md's "unassigned
// variables default to Ptr" invariant.
const DefaultAtom = Ptr

// AtomRef is either a lattice constant or a qualifier variable — the
// "atom" of spec.md §3's constraint language.
type AtomRef struct {
	isVar bool
	c     Atom
	v     QVar
}

// Const builds a constant AtomRef.
func Const(a Atom) AtomRef { return AtomRef{c: a} }

// Var builds a variable AtomRef.
func Var(v QVar) AtomRef { return AtomRef{isVar: true, v: v} }

func (r AtomRef) IsVar() bool   { return r.isVar }
func (r AtomRef) Var_() QVar    { return r.v }
func (r AtomRef) Const_() Atom  { return r.c }

func (r AtomRef) String() string {
	if r.isVar {
		return "q" + itoa(int(r.v))
	}
	return r.c.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

// Allocator hands out fresh QVars. It takes no lock of its own;
// constraints.Store.FreshQVar calls Fresh while holding the store's
// mutex, which is what makes allocation through a shared Store safe
// for concurrent use.
type Allocator struct {
	next QVar
}

func NewAllocator() *Allocator { return &Allocator{} }

func (a *Allocator) Fresh() QVar {
	// Callers going through constraints.Store.FreshQVar already hold
	// the store's lock, so no atomic is needed here.
	v := a.next
	a.next++
	return v
}

func (a *Allocator) Count() int { return int(a.next) }
