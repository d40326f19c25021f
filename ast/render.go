package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fmtshift/fmtshift/cstr"
	"github.com/fmtshift/fmtshift/lex"
)

// Source renders an expression back to source text. Input shapes render
// as they were spelled, output shapes render as Rust.
func Source(e Expr) string {
	var b strings.Builder
	render(&b, e)
	return b.String()
}

// SourceStmt renders a statement including its terminator.
func SourceStmt(s *Stmt) string {
	return Source(s.X) + ";"
}

func render(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case *Ident:
		b.WriteString(v.Name)
	case *IntLit:
		b.WriteString(strconv.FormatInt(int64(v.Value), 10))
	case *StrLit:
		val := v.Value
		switch v.Flavor {
		case lex.StrByte:
			b.WriteByte('b')
		case lex.StrWide:
			b.WriteByte('L')
			if s, err := cstr.DecodeWide([]byte(val), cstr.WideWidth); err == nil {
				val = s
			}
		}
		b.WriteString(Quote(val))
	case *CharLit:
		b.WriteByte('\'')
		b.WriteString(escapeRune(v.Value, '\''))
		b.WriteByte('\'')
	case *CastExpr:
		b.WriteByte('(')
		b.WriteString(v.Type)
		b.WriteByte(')')
		render(b, v.X)
	case *ParenExpr:
		b.WriteByte('(')
		render(b, v.X)
		b.WriteByte(')')
	case *MarkExpr:
		b.WriteString(v.Label)
		b.WriteString(": ")
		render(b, v.X)
	case *CallExpr:
		b.WriteString(v.Callee)
		b.WriteByte('(')
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, a)
		}
		b.WriteByte(')')
	case *RawExpr:
		b.WriteString(v.Text)
	case *RustCast:
		render(b, v.X)
		b.WriteString(" as ")
		b.WriteString(v.Ty)
	case *MethodCall:
		render(b, v.X)
		b.WriteByte('.')
		b.WriteString(v.Name)
		b.WriteString("()")
	case *PathCall:
		b.WriteString(v.Path)
		b.WriteByte('(')
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			render(b, a)
		}
		b.WriteByte(')')
	case *UnsafeBlock:
		b.WriteString("unsafe { ")
		render(b, v.X)
		b.WriteString(" }")
	case *MacroCall:
		b.WriteString(v.Name)
		b.WriteString("!(")
		b.WriteString(Quote(v.FmtStr))
		for _, a := range v.Args {
			b.WriteString(", ")
			render(b, a)
		}
		b.WriteByte(')')
	default:
		b.WriteString(fmt.Sprintf("/* unrenderable %T */", e))
	}
}

// Quote renders s as a double-quoted literal with the escapes both C
// and Rust accept. Anything unprintable is emitted as \u{...}.
func Quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		b.WriteString(escapeRune(r, '"'))
	}
	b.WriteByte('"')
	return b.String()
}

func escapeRune(r rune, quote rune) string {
	switch r {
	case '\\':
		return `\\`
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case 0:
		return `\0`
	case quote:
		return `\` + string(quote)
	}
	if strconv.IsPrint(r) {
		return string(r)
	}
	return fmt.Sprintf(`\u{%x}`, r)
}
