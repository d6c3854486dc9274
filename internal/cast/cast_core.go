// Package cast defines the C-subset AST that the rest of this program
// consumes. Per spec.md §1, a real C parser and AST provider is out of
// scope for the core; this package is the scaffold interface the core
// is written against — internal/cparse is one (deliberately modest)
// implementation of it.
package cast

import "github.com/ccqual/ccqual/internal/srcloc"

// Node is the common interface of every AST node.
type Node interface {
	Pos() srcloc.Loc
}

// Decl is a declaration: a variable, a function, or a struct field.
type Decl interface {
	Node
	declNode()
}

// Stmt is a statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression.
type Expr interface {
	Node
	exprNode()
}

// TranslationUnit is one parsed .c or .h file.
type TranslationUnit struct {
	Path  string
	Decls []Decl
	// SystemHeaders is keyed by header path. cparse leaves it empty:
	// declarations from outside the project are marked through their
	// own InSystemHdr fields instead.
	SystemHeaders map[string]bool
}

// VarDecl is a single declarator: `int *p = rhs;` or a function
// parameter `int *q`.
type VarDecl struct {
	Name          string
	Type          Type
	Init          Expr // nil if none
	Loc           srcloc.Loc
	IsParam       bool
	IsField       bool // struct/union field
	InSystemHdr   bool
}

func (d *VarDecl) Pos() srcloc.Loc { return d.Loc }
func (d *VarDecl) declNode()       {}

// DeclStmt groups every declarator written on one source statement,
// e.g. `int *p, q[10], *r = f();` — needed so the rewrite planner can
// rebuild the whole line when more than one declarator on it changes
// kind (spec.md §4.7 Phase A).
type DeclStmt struct {
	Decls []*VarDecl
	Loc   srcloc.Loc
	// End is the position of the statement's closing semicolon; the
	// span from Loc up to End is replaced wholesale when more than one
	// declarator needs rewriting.
	End srcloc.Loc
}

func (d *DeclStmt) Pos() srcloc.Loc { return d.Loc }
func (d *DeclStmt) stmtNode()       {}
func (d *DeclStmt) declNode()       {}

// FuncDecl is a function declaration or definition. Body is nil for a
// prototype-only declaration.
type FuncDecl struct {
	Name        string
	Type        *FunctionType
	ParamDecls  []*VarDecl
	Body        *BlockStmt
	Loc         srcloc.Loc
	ReturnLoc   srcloc.Loc // position where the written return type starts
	InSystemHdr bool
}

func (d *FuncDecl) Pos() srcloc.Loc { return d.Loc }
func (d *FuncDecl) declNode()       {}

func (d *FuncDecl) HasBody() bool { return d.Body != nil }

// StructDecl is a struct or union definition. Its fields are plain
// VarDecls with IsField set, so the generator can allocate CVs for
// them through the same AddVariable path as any other declarator.
type StructDecl struct {
	Name        string
	Fields      []*VarDecl
	Loc         srcloc.Loc
	InSystemHdr bool
}

func (d *StructDecl) Pos() srcloc.Loc { return d.Loc }
func (d *StructDecl) declNode()       {}
