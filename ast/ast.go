// ast holds the expression shapes the rewriter works on. The input
// side is a tiny C-like call grammar; the output side adds the Rust
// shapes the rewrite produces (macro calls, `as` casts, the unsafe
// CStr decode block). Arguments the rewriter does not touch pass
// through unchanged.
package ast

import (
	"github.com/fmtshift/fmtshift/lex"
	"github.com/fmtshift/fmtshift/reader"
)

type Node interface {
	Pos() reader.Pos
}

type Expr interface {
	Node
	exprNode()
}

// Stmt is one call statement, terminated by `;` in the source.
type Stmt struct {
	X Expr
}

func (s *Stmt) Pos() reader.Pos { return s.X.Pos() }

type Ident struct {
	Name string
	At   reader.Pos
}

type IntLit struct {
	Value int32 // C int literals promote through i32
	At    reader.Pos
}

type StrLit struct {
	Value  string // escapes already decoded
	Flavor lex.StrFlavor
	At     reader.Pos
}

type CharLit struct {
	Value rune
	At    reader.Pos
}

// CastExpr is a C-side cast, `(type)x`. The engine peels these off to
// reach the format string literal.
type CastExpr struct {
	Type string
	X    Expr
	At   reader.Pos
}

type ParenExpr struct {
	X  Expr
	At reader.Pos
}

// MarkExpr is a `label: expr` annotation. The `fmt:` label designates
// the sub-expression to treat as the format string.
type MarkExpr struct {
	Label string
	X     Expr
	At    reader.Pos
}

type CallExpr struct {
	Callee string
	Args   []Expr
	At     reader.Pos
}

// RawExpr carries verbatim source text for anything the grammar does
// not model. The rewriter moves it, never inspects it.
type RawExpr struct {
	Text string
	At   reader.Pos
}

// Output-side shapes, produced by the rewrite and never parsed.

// RustCast renders as `x as Ty`.
type RustCast struct {
	Ty string
	X  Expr
}

// MethodCall renders as `x.name()`. Only the zero-argument form is
// needed (to_str, unwrap).
type MethodCall struct {
	X    Expr
	Name string
}

// PathCall renders as `path(args...)`.
type PathCall struct {
	Path string
	Args []Expr
}

// UnsafeBlock renders as `unsafe { x }`.
type UnsafeBlock struct {
	X Expr
}

// MacroCall renders as `name!("fmt", args...)`.
type MacroCall struct {
	Name   string
	FmtStr string
	Args   []Expr
}

func (e *Ident) Pos() reader.Pos       { return e.At }
func (e *IntLit) Pos() reader.Pos      { return e.At }
func (e *StrLit) Pos() reader.Pos      { return e.At }
func (e *CharLit) Pos() reader.Pos     { return e.At }
func (e *CastExpr) Pos() reader.Pos    { return e.At }
func (e *ParenExpr) Pos() reader.Pos   { return e.At }
func (e *MarkExpr) Pos() reader.Pos    { return e.At }
func (e *CallExpr) Pos() reader.Pos    { return e.At }
func (e *RawExpr) Pos() reader.Pos     { return e.At }
func (e *RustCast) Pos() reader.Pos    { return e.X.Pos() }
func (e *MethodCall) Pos() reader.Pos  { return e.X.Pos() }
func (e *PathCall) Pos() reader.Pos    { return reader.Pos{} }
func (e *UnsafeBlock) Pos() reader.Pos { return e.X.Pos() }
func (e *MacroCall) Pos() reader.Pos   { return reader.Pos{} }

func (*Ident) exprNode()       {}
func (*IntLit) exprNode()      {}
func (*StrLit) exprNode()      {}
func (*CharLit) exprNode()     {}
func (*CastExpr) exprNode()    {}
func (*ParenExpr) exprNode()   {}
func (*MarkExpr) exprNode()    {}
func (*CallExpr) exprNode()    {}
func (*RawExpr) exprNode()     {}
func (*RustCast) exprNode()    {}
func (*MethodCall) exprNode()  {}
func (*PathCall) exprNode()    {}
func (*UnsafeBlock) exprNode() {}
func (*MacroCall) exprNode()   {}

// Walk visits e and every sub-expression, depth first.
func Walk(e Expr, visit func(Expr)) {
	visit(e)
	switch v := e.(type) {
	case *CastExpr:
		Walk(v.X, visit)
	case *ParenExpr:
		Walk(v.X, visit)
	case *MarkExpr:
		Walk(v.X, visit)
	case *CallExpr:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *RustCast:
		Walk(v.X, visit)
	case *MethodCall:
		Walk(v.X, visit)
	case *PathCall:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	case *UnsafeBlock:
		Walk(v.X, visit)
	case *MacroCall:
		for _, a := range v.Args {
			Walk(a, visit)
		}
	}
}
