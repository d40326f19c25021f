// spec models C printf conversion specifications. Each parsed Conv can
// re-render itself as a Rust format placeholder and report which casts
// the consumed arguments need so C varargs promotion still applies
// after the rewrite.
package spec

import (
	"strconv"
	"strings"

	"github.com/fmtshift/fmtshift/omap"
)

type Kind int

const (
	Int Kind = iota
	Uint
	Hex
	HexUpper
	Char
	Str
)

// Cast is the conversion applied to one argument expression before it
// is passed to the rewritten call.
type Cast int

const (
	CastInt   Cast = iota // as i32
	CastUint              // as u32
	CastUsize             // as usize
	CastChar              // as u8 as char
	CastStr               // CStr::from_ptr(..).to_str()
)

func (c Cast) String() string {
	switch c {
	case CastInt:
		return "i32"
	case CastUint:
		return "u32"
	case CastUsize:
		return "usize"
	case CastChar:
		return "char"
	case CastStr:
		return "str"
	}
	return "unknown"
}

// Amount is a width or precision: a literal number, or consumed from
// the next argument when the specifier says `*`.
type Amount struct {
	N       int
	NextArg bool
}

type Conv struct {
	Kind  Kind
	Width *Amount
	Prec  *Amount
}

// Piece is one parsed unit of a format string: literal text or a
// conversion.
type Piece interface {
	isPiece()
}

type Text string

func (Text) isPiece()  {}
func (*Conv) isPiece() {}

// Render appends the Rust placeholder for this conversion. Int, Uint,
// Char and Str carry no format suffix, the cast on the argument already
// picks the right representation.
func (c *Conv) Render(b *strings.Builder) {
	b.WriteString("{:")
	if c.Width != nil {
		writeAmount(b, c.Width)
	}
	if c.Prec != nil {
		b.WriteByte('.')
		writeAmount(b, c.Prec)
	}
	switch c.Kind {
	case Hex:
		b.WriteByte('x')
	case HexUpper:
		b.WriteByte('X')
	}
	b.WriteByte('}')
}

func writeAmount(b *strings.Builder, a *Amount) {
	if a.NextArg {
		b.WriteByte('*')
		return
	}
	b.WriteString(strconv.Itoa(a.N))
}

// AddCasts records the casts for every argument this conversion
// consumes, advancing idx once per argument. Order matches C varargs
// consumption: width argument, then precision argument, then the value.
func (c *Conv) AddCasts(idx *int, casts *omap.Map[int, Cast]) {
	if c.Width != nil && c.Width.NextArg {
		casts.Set(*idx, CastUsize)
		*idx++
	}
	if c.Prec != nil && c.Prec.NextArg {
		casts.Set(*idx, CastUsize)
		*idx++
	}

	var cast Cast
	switch c.Kind {
	case Int:
		cast = CastInt
	case Uint, Hex, HexUpper:
		cast = CastUint
	case Char:
		cast = CastChar
	case Str:
		cast = CastStr
	}
	casts.Set(*idx, cast)
	*idx++
}
