package ast

import "fmt"

// Unwrap peels casts, grouping parens and marks off an expression until
// it reaches the string literal underneath. It fails explicitly when no
// literal is found, the caller decides whether that aborts the call
// site.
func Unwrap(e Expr) (*StrLit, error) {
	for {
		switch v := e.(type) {
		case *StrLit:
			return v, nil
		case *CastExpr:
			e = v.X
		case *ParenExpr:
			e = v.X
		case *MarkExpr:
			e = v.X
		default:
			return nil, fmt.Errorf("expected a string literal under casts, got %q", Source(e))
		}
	}
}

// FindMarked returns the first sub-expression carrying the given mark
// label, in walk order, along with how many were found. The first one
// wins when several are present.
func FindMarked(e Expr, label string) (Expr, int) {
	var found Expr
	count := 0
	Walk(e, func(x Expr) {
		m, ok := x.(*MarkExpr)
		if !ok || m.Label != label {
			return
		}
		count++
		if found == nil {
			found = m
		}
	})
	return found, count
}
