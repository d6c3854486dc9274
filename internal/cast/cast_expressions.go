package cast

import "github.com/ccqual/ccqual/internal/srcloc"

// Ident references a declared name (variable, parameter, function).
type Ident struct {
	Name string
	// Decl is resolved by the parser/name-binder scaffold to the
	// declaration this identifier refers to, nil for unresolved names
	// (implicit-extern fallbacks).
	Decl Decl
	Loc  srcloc.Loc
}

func (e *Ident) Pos() srcloc.Loc { return e.Loc }
func (e *Ident) exprNode()       {}

// IntLit is an integer constant expression, including the literal
// `0` used as the null pointer constant.
type IntLit struct {
	Value int64
	Loc   srcloc.Loc
}

func (e *IntLit) Pos() srcloc.Loc { return e.Loc }
func (e *IntLit) exprNode()       {}

func (e *IntLit) IsNullConstant() bool { return e.Value == 0 }

// StringLit is a string literal.
type StringLit struct {
	Value string
	Loc   srcloc.Loc
}

func (e *StringLit) Pos() srcloc.Loc { return e.Loc }
func (e *StringLit) exprNode()       {}

// UnaryExpr is a prefix unary operator: &x, *x, -x, !x, ++x, --x.
type UnaryExpr struct {
	Op  string
	X   Expr
	Loc srcloc.Loc
}

func (e *UnaryExpr) Pos() srcloc.Loc { return e.Loc }
func (e *UnaryExpr) exprNode()       {}

// PostfixExpr is x++ or x--.
type PostfixExpr struct {
	Op  string
	X   Expr
	Loc srcloc.Loc
}

func (e *PostfixExpr) Pos() srcloc.Loc { return e.Loc }
func (e *PostfixExpr) exprNode()       {}

// BinaryExpr is any non-assigning binary operator, including pointer
// arithmetic (+, -) and relational/logical operators.
type BinaryExpr struct {
	Op  string
	X, Y Expr
	Loc srcloc.Loc
}

func (e *BinaryExpr) Pos() srcloc.Loc { return e.Loc }
func (e *BinaryExpr) exprNode()       {}

func (e *BinaryExpr) IsPointerArith() bool { return e.Op == "+" || e.Op == "-" }

// AssignExpr is `lhs = rhs` or a compound assignment `lhs += rhs`.
type AssignExpr struct {
	Op       string // "=", "+=", "-=", ...
	LHS, RHS Expr
	Loc      srcloc.Loc
}

func (e *AssignExpr) Pos() srcloc.Loc { return e.Loc }
func (e *AssignExpr) exprNode()       {}

func (e *AssignExpr) IsCompoundArith() bool { return e.Op == "+=" || e.Op == "-=" }

// IndexExpr is `b[i]`.
type IndexExpr struct {
	X, Index Expr
	Loc      srcloc.Loc
}

func (e *IndexExpr) Pos() srcloc.Loc { return e.Loc }
func (e *IndexExpr) exprNode()       {}

// CallExpr is `f(a0, ..., an-1)`.
type CallExpr struct {
	Fun  Expr
	Args []Expr
	Loc  srcloc.Loc
}

func (e *CallExpr) Pos() srcloc.Loc { return e.Loc }
func (e *CallExpr) exprNode()       {}

// CalleeName returns the called function's name when Fun is a plain
// identifier, and ok=false when the callee is an arbitrary expression
// (function-pointer call through a cast or opaque value).
func (e *CallExpr) CalleeName() (name string, ok bool) {
	id, isIdent := e.Fun.(*Ident)
	if !isIdent {
		return "", false
	}
	return id.Name, true
}

// CastExpr is a C-style cast `(T)expr`.
type CastExpr struct {
	Type Type
	X    Expr
	Loc  srcloc.Loc
}

func (e *CastExpr) Pos() srcloc.Loc { return e.Loc }
func (e *CastExpr) exprNode()       {}

// SizeofExpr is `sizeof(T)`, tracked on its own (rather than folded
// into a generic builtin call) because the malloc-sizeof special rule
// in spec.md §4.3 needs to see the operand type directly.
type SizeofExpr struct {
	Type Type
	Loc  srcloc.Loc
}

func (e *SizeofExpr) Pos() srcloc.Loc { return e.Loc }
func (e *SizeofExpr) exprNode()       {}

// AddrOfBase unwraps e to its addressed operand if e is `&x`.
func AddrOfBase(e Expr) (Expr, bool) {
	u, ok := e.(*UnaryExpr)
	if !ok || u.Op != "&" {
		return nil, false
	}
	return u.X, true
}
