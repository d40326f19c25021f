// reader normalizes OS newlines and returns an EOF sentinel instead of
// an error at end of input, which keeps the lexer's consume loops free
// of error paths. It tracks the cursor position in bytes, lines and
// columns so diagnostics can point at the offending call site.
package reader

import (
	"bufio"
	"io"
)

// EOF is returned for every read past the end of input.
const EOF rune = -1

type Pos struct {
	File   string
	Line   int // zero-based
	Col    int // rune offset within the current line
	Offset int // byte offset from the start of input
}

type Reader struct {
	r        *bufio.Reader
	isEnd    bool
	prevRune rune
	prevPrev rune
	Pos      Pos
	PrevPos  Pos
}

func New(r io.Reader, file string) *Reader {
	return &Reader{
		r:   bufio.NewReader(r),
		Pos: Pos{File: file},
	}
}

func (r *Reader) ReadRune() rune {
	if r.isEnd {
		return EOF
	}
	c, size, err := r.r.ReadRune()
	if err != nil {
		if err == io.EOF {
			r.isEnd = true
			r.PrevPos = r.Pos
			return EOF
		}
		panic(err)
	}
	r.PrevPos = r.Pos // remember so the rune can be unread
	prev := r.prevRune
	r.prevPrev = prev
	r.prevRune = c
	r.Pos.Offset += size

	// \r\n counts as the single line break already recorded for the \r
	if prev == '\r' && c == '\n' {
		return c
	}
	if c == '\r' || c == '\n' {
		r.Pos.Line++
		r.Pos.Col = 0
		return c
	}
	r.Pos.Col++
	return c
}

func (r *Reader) UnreadRune() {
	if !r.isEnd {
		if err := r.r.UnreadRune(); err != nil {
			panic(err)
		}
		r.prevRune = r.prevPrev
	}
	r.Pos = r.PrevPos
}
