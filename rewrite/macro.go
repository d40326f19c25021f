// rewrite rebuilds printf-style calls as Rust formatting macro
// invocations. The format string is re-rendered with Rust placeholders
// and every consumed argument is wrapped in the cast that preserves C
// varargs promotion.
package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/fmtshift/fmtshift/ast"
	"github.com/fmtshift/fmtshift/cstr"
	"github.com/fmtshift/fmtshift/lex"
	"github.com/fmtshift/fmtshift/omap"
	"github.com/fmtshift/fmtshift/spec"
)

// Options tweak how the argument list is rebuilt.
type Options struct {
	// KeepUnreferenced passes arguments no specifier consumes through to
	// the rebuilt list instead of dropping them.
	KeepUnreferenced bool
}

// InvalidTextError reports an argument whose bytes do not decode as
// text. The call site is left untouched; other call sites are not
// affected.
type InvalidTextError struct {
	ArgIndex int
	Err      error
}

func (e *InvalidTextError) Error() string {
	return fmt.Sprintf("argument %d is not valid text: %v", e.ArgIndex, e.Err)
}

func (e *InvalidTextError) Unwrap() error {
	return e.Err
}

// ArgCountError reports a format string that consumes more arguments
// than the call supplies.
type ArgCountError struct {
	Need int
	Have int
}

func (e *ArgCountError) Error() string {
	return fmt.Sprintf("format string consumes %d arguments, call supplies %d", e.Need, e.Have)
}

// BuildFormatMacro converts one call's format string and arguments into
// a macro invocation. args[0] is the format-string argument; fmtExpr
// optionally names the exact sub-expression holding the literal (it may
// sit under casts the user marked past). ln is the newline-variant
// macro name; when empty, trailing-newline folding is disabled.
func BuildFormatMacro(plain, ln string, fmtExpr ast.Expr, args []ast.Expr, opts Options) (*ast.MacroCall, error) {
	if len(args) == 0 {
		return nil, errors.New("no format argument")
	}
	if fmtExpr == nil {
		fmtExpr = args[0]
	}

	lit, err := ast.Unwrap(fmtExpr)
	if err != nil {
		return nil, fmt.Errorf("failed to find format string: %w", err)
	}
	fmtStr := lit.Value
	switch lit.Flavor {
	case lex.StrByte:
		// Byte strings may carry arbitrary bytes, the format must be text.
		s, derr := cstr.Decode([]byte(fmtStr))
		if derr != nil {
			return nil, &InvalidTextError{ArgIndex: 0, Err: derr}
		}
		fmtStr = s
	case lex.StrWide:
		// Wide literals carry their wchar_t layout, decode it back to text.
		s, derr := cstr.DecodeWide([]byte(fmtStr), cstr.WideWidth)
		if derr != nil {
			return nil, &InvalidTextError{ArgIndex: 0, Err: derr}
		}
		fmtStr = s
	}

	var b strings.Builder
	casts := omap.New[int, spec.Cast]()
	idx := 1 // index 0 is the format string itself, never a cast target
	perr := spec.NewParser(fmtStr, func(piece spec.Piece) {
		switch v := piece.(type) {
		case spec.Text:
			b.WriteString(string(v))
		case *spec.Conv:
			v.Render(&b)
			v.AddCasts(&idx, casts)
		}
	}).Parse()
	if perr != nil {
		return nil, fmt.Errorf("malformed format string: %w", perr)
	}
	if idx-1 > len(args)-1 {
		return nil, &ArgCountError{Need: idx - 1, Have: len(args) - 1}
	}
	casts.Each(func(i int, c spec.Cast) {
		log.Trace().Str("component", "rewrite").Int("arg", i).Stringer("cast", c).Msg("cast assigned")
	})

	newStr := cstr.StripNUL(b.String())
	name := plain
	if ln != "" && strings.HasSuffix(newStr, "\n") {
		// Fold the trailing newline into the println-style variant.
		newStr = strings.TrimSuffix(newStr, "\n")
		name = ln
	}

	out := make([]ast.Expr, 0, len(args)-1)
	for i := 1; i < len(args); i++ {
		cast, ok := casts.Get(i)
		if !ok {
			if opts.KeepUnreferenced {
				out = append(out, args[i])
			}
			continue
		}
		wrapped, werr := applyCast(cast, args[i], i)
		if werr != nil {
			return nil, werr
		}
		out = append(out, wrapped)
	}

	return &ast.MacroCall{Name: name, FmtStr: newStr, Args: out}, nil
}

// applyCast wraps one argument in the conversion its specifier needs.
func applyCast(c spec.Cast, e ast.Expr, idx int) (ast.Expr, error) {
	switch c {
	case spec.CastInt:
		return &ast.RustCast{Ty: "i32", X: e}, nil
	case spec.CastUint:
		return &ast.RustCast{Ty: "u32", X: e}, nil
	case spec.CastUsize:
		return &ast.RustCast{Ty: "usize", X: e}, nil
	case spec.CastChar:
		// %c takes an int truncated to unsigned char.
		return &ast.RustCast{Ty: "char", X: &ast.RustCast{Ty: "u8", X: e}}, nil
	case spec.CastStr:
		// A literal %s argument can be decoded right here instead of
		// deferring to a runtime CStr decode.
		if lit, lerr := ast.Unwrap(e); lerr == nil {
			var s string
			var derr error
			if lit.Flavor == lex.StrWide {
				s, derr = cstr.DecodeWide([]byte(lit.Value), cstr.WideWidth)
			} else {
				s, derr = cstr.Decode([]byte(lit.Value))
			}
			if derr != nil {
				return nil, &InvalidTextError{ArgIndex: idx, Err: derr}
			}
			return &ast.StrLit{Value: s, At: lit.At}, nil
		}
		return &ast.UnsafeBlock{
			X: &ast.MethodCall{
				X: &ast.MethodCall{
					X: &ast.PathCall{
						Path: "::std::ffi::CStr::from_ptr",
						Args: []ast.Expr{&ast.RustCast{Ty: "*const libc::c_char", X: e}},
					},
					Name: "to_str",
				},
				Name: "unwrap",
			},
		}, nil
	}
	return nil, fmt.Errorf("unknown cast %v for argument %d", c, idx)
}
