package cast

import "github.com/ccqual/ccqual/internal/srcloc"

// BlockStmt is `{ ... }`.
type BlockStmt struct {
	Stmts []Stmt
	Loc   srcloc.Loc
}

func (s *BlockStmt) Pos() srcloc.Loc { return s.Loc }
func (s *BlockStmt) stmtNode()       {}

// ExprStmt is an expression used as a statement (almost always an
// assignment or a call).
type ExprStmt struct {
	X   Expr
	Loc srcloc.Loc
}

func (s *ExprStmt) Pos() srcloc.Loc { return s.Loc }
func (s *ExprStmt) stmtNode()       {}

// ReturnStmt is `return e;` (Value is nil for a bare `return;`).
type ReturnStmt struct {
	Value Expr
	Loc   srcloc.Loc
}

func (s *ReturnStmt) Pos() srcloc.Loc { return s.Loc }
func (s *ReturnStmt) stmtNode()       {}

// IfStmt is `if (Cond) Then [else Else]`.
type IfStmt struct {
	Cond       Expr
	Then, Else Stmt
	Loc        srcloc.Loc
}

func (s *IfStmt) Pos() srcloc.Loc { return s.Loc }
func (s *IfStmt) stmtNode()       {}

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Loc  srcloc.Loc
}

func (s *WhileStmt) Pos() srcloc.Loc { return s.Loc }
func (s *WhileStmt) stmtNode()       {}

// ForStmt is `for (Init; Cond; Post) Body`. Any of Init/Cond/Post may
// be nil.
type ForStmt struct {
	Init       Stmt
	Cond       Expr
	Post       Stmt
	Body       Stmt
	Loc        srcloc.Loc
}

func (s *ForStmt) Pos() srcloc.Loc { return s.Loc }
func (s *ForStmt) stmtNode()       {}
