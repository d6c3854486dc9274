// Package prettyprrint renders cast.Type trees back into source text,
// in either Checked-C declarator syntax (_Ptr<T>, _Array_ptr<T>,
// _Nt_array_ptr<T>) or plain C, rendering an AST back into source
// rather than tracking raw spans.
package prettyprrint

import (
	"bytes"
	"fmt"

	"github.com/ccqual/ccqual/internal/cast"
	"github.com/ccqual/ccqual/internal/qual"
)

// DeclaratorFor renders "<checked-type> name" for a pointer CV
// resolved to solved, using cv.OrigArrInfo's array/pointer shape to decide
// whether a resolved Arr/NTArr level keeps its original size.
func DeclaratorFor(name string, cv *qual.PointerCV, solved func(qual.QVar) qual.Atom) string {
	var buf bytes.Buffer
	writeType(&buf, cv, solved)
	buf.WriteByte(' ')
	buf.WriteString(name)
	return buf.String()
}

// TypeString renders just the checked type, with no declarator name —
// used for cast expressions and function-pointer return types.
func TypeString(cv *qual.PointerCV, solved func(qual.QVar) qual.Atom) string {
	var buf bytes.Buffer
	writeType(&buf, cv, solved)
	return buf.String()
}

func writeType(buf *bytes.Buffer, cv *qual.PointerCV, solved func(qual.QVar) qual.Atom) {
	// Build from the innermost (base) type outward, since Checked-C
	// wraps each level as <kind><inner>, not C's right-to-left reading.
	inner := cv.BaseType
	for i := len(cv.Levels) - 1; i >= 0; i-- {
		qv := cv.Levels[i]
		inner = wrapLevel(inner, solved(qv), cv, qv)
	}
	buf.WriteString(inner)
}

func wrapLevel(inner string, atom qual.Atom, cv *qual.PointerCV, qv qual.QVar) string {
	switch atom {
	case qual.Ptr:
		return fmt.Sprintf("_Ptr<%s>", inner)
	case qual.Arr:
		if cv.OrigArrInfo[qv] == qual.OrigSizedArray {
			return fmt.Sprintf("_Array_ptr<%s> /* original size %d */", inner, cv.ArrSize[qv])
		}
		return fmt.Sprintf("_Array_ptr<%s>", inner)
	case qual.NTArr:
		return fmt.Sprintf("_Nt_array_ptr<%s>", inner)
	default:
		return inner + " *"
	}
}

// ArraySuffix renders the trailing "[N]" of a sized array type t, e.g.
// "[10]" for `int a[10]`, and "" for any other type.
func ArraySuffix(t cast.Type) string {
	at, ok := t.(*cast.ArrayType)
	if !ok || !at.Size.Sized {
		return ""
	}
	return fmt.Sprintf("[%d]", at.Size.N)
}
